package table

import (
	"github.com/pkg/errors"
)

// Contract violations. Call sites wrap these with context; match them with
// errors.Is.
var (
	ErrNilItemset      = errors.New("row has no itemset")
	ErrItemsetTooWide  = errors.New("itemset wider than the attribute universe")
	ErrKindMismatch    = errors.New("row kind not accepted by table")
	ErrFamilyMismatch  = errors.New("row flags inconsistent with table family")
	ErrNoClosure       = errors.New("row does not carry a closure")
	ErrNoGenerator     = errors.New("row does not carry a generator")
	ErrClosurePending  = errors.New("closure not computed yet")
	ErrClosureResolved = errors.New("closure already computed")
	ErrSupportIncrease = errors.New("support exceeds the support of a subset")
	ErrInvalidSupport  = errors.New("support below zero")
	ErrSupportUnknown  = errors.New("support not counted yet")
	ErrNoClosureStage  = errors.New("family has no closure stage")
	ErrNotIndexed      = errors.New("table has no index")
	ErrRowNotFound     = errors.New("no row for itemset")
)
