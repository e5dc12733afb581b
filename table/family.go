package table

import (
	IS "github.com/jabbalaci/Talky-G-sub001/itemset"
	"github.com/jabbalaci/Talky-G-sub001/metrics"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Family is the mining algorithm a table serves. All families share the
// FC (candidate) -> F (frequent) -> Z (closed) shape and differ in the
// markers their rows carry.
type Family int

const (
	AprioriClose Family = iota
	Pascal
	PascalPlus
	Carpathia
	CarpathiaG
)

var familyNames = map[Family]string{
	AprioriClose: "apriori-close",
	Pascal:       "pascal",
	PascalPlus:   "pascal+",
	Carpathia:    "carpathia",
	CarpathiaG:   "carpathia-g",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "unknown"
}

// flagMask is the set of markers rows of the family may carry.
func (f Family) flagMask() Flag {
	switch f {
	case AprioriClose:
		return FlagClosed
	case PascalPlus:
		return FlagKey | FlagClosed
	default:
		return FlagKey
	}
}

// frequentKind is the row kind of the family's F table.
func (f Family) frequentKind() Kind {
	switch f {
	case PascalPlus:
		return KindKeyClosed
	case Carpathia, CarpathiaG:
		return KindCarpathia
	default:
		return KindFlag
	}
}

// Pascal candidate tables are only indexed once the level's generation step
// is done.
func (f Family) defersCandidateIndex() bool {
	return f == Pascal || f == PascalPlus
}

func (f Family) HasClosureStage() bool {
	return f != Pascal
}

func (f Family) checkFlags(r *Row) error {
	if extra := r.flags &^ f.flagMask(); extra != 0 {
		return errors.Wrapf(ErrFamilyMismatch, "family %s does not carry %s", f, extra)
	}
	return nil
}

// newFrequentRow copies the identity and the family's markers of a
// candidate into a fresh F row. The predicted support is dropped.
func (f Family) newFrequentRow(candidate *Row) *Row {
	s := candidate.itemset.Clone()
	switch f.frequentKind() {
	case KindKeyClosed:
		return NewKeyClosedRow(s, candidate.support, candidate.Is(FlagKey), candidate.Is(FlagClosed))
	case KindCarpathia:
		return NewCarpathiaRow(s, candidate.support, candidate.Is(FlagKey))
	}
	flag := f.flagMask()
	return NewFlagRow(s, candidate.support, flag, candidate.Is(flag))
}

// CandidateTable is the FC table of a level: predicted support rows waiting
// to be counted.
type CandidateTable struct {
	*Table
	family Family
}

func NewCandidateTable(family Family, opts Options) *CandidateTable {
	if family.defersCandidateIndex() {
		opts.Deferred = true
	}
	return &CandidateTable{Table: New(opts, KindPredSupport), family: family}
}

func (ct *CandidateTable) Family() Family {
	return ct.family
}

func (ct *CandidateTable) AddRow(r *Row) error {
	if err := ct.Table.validate(r); err != nil {
		return ct.reject(r, err)
	}
	if err := ct.family.checkFlags(r); err != nil {
		return ct.reject(r, err)
	}
	ct.append(r)
	return nil
}

// AddCandidate adds a candidate itemset with its predicted support; its
// support is unknown until counted.
func (ct *CandidateTable) AddCandidate(s *IS.Itemset, predSupport int, flags Flag) (*Row, error) {
	r := NewPredRow(s, SupportUnknown, predSupport, flags)
	if err := ct.AddRow(r); err != nil {
		return nil, err
	}
	return r, nil
}

// FrequentTable is the F table of a level. It is filled from candidate rows
// and stores the family's row kind.
type FrequentTable struct {
	*Table
	family Family
}

func NewFrequentTable(family Family, opts Options) *FrequentTable {
	return &FrequentTable{Table: New(opts, family.frequentKind()), family: family}
}

func (ft *FrequentTable) Family() Family {
	return ft.family
}

// AddRow promotes a predicted support row: its itemset and the family's
// markers are copied into a new F row which is appended and indexed. The new
// row must not have more support than any stored subset, nor less than any
// stored superset.
func (ft *FrequentTable) AddRow(candidate *Row) (*Row, error) {
	if candidate == nil || candidate.itemset == nil {
		return nil, ft.reject(candidate, ErrNilItemset)
	}
	if candidate.kind != KindPredSupport {
		return nil, ft.reject(candidate, errors.Wrapf(ErrKindMismatch, "kind %s, want %s", candidate.kind, KindPredSupport))
	}
	if err := ft.family.checkFlags(candidate); err != nil {
		return nil, ft.reject(candidate, err)
	}
	r := ft.family.newFrequentRow(candidate)
	if err := ft.Table.validate(r); err != nil {
		return nil, ft.reject(r, err)
	}
	if err := ft.checkAntiMonotone(r); err != nil {
		return nil, ft.reject(r, err)
	}
	ft.append(r)
	metrics.Increment(metrics.IncrFrequentRowsPromoted)
	return r, nil
}

func (ft *FrequentTable) checkAntiMonotone(r *Row) error {
	if r.support == SupportUnknown {
		return nil
	}
	for _, sub := range ft.SubsetRows(r.itemset) {
		if sub.support != SupportUnknown && r.support > sub.support {
			return errors.Wrapf(ErrSupportIncrease, "%s (%d) over subset %s (%d)",
				r.itemset, r.support, sub.itemset, sub.support)
		}
	}
	for _, sup := range ft.SupersetRows(r.itemset) {
		if sup.support != SupportUnknown && sup.support > r.support {
			return errors.Wrapf(ErrSupportIncrease, "superset %s (%d) over %s (%d)",
				sup.itemset, sup.support, r.itemset, r.support)
		}
	}
	return nil
}

// PromoteFrequent adds every row of fc whose support reaches minSupport and
// returns how many were promoted.
func (ft *FrequentTable) PromoteFrequent(fc *CandidateTable, minSupport int) (int, error) {
	if fc.family != ft.family {
		return 0, errors.Wrapf(ErrFamilyMismatch, "candidates of %s into %s", fc.family, ft.family)
	}
	promoted := 0
	for _, candidate := range fc.Rows() {
		if candidate.support < minSupport {
			continue
		}
		if _, err := ft.AddRow(candidate); err != nil {
			return promoted, err
		}
		promoted++
	}
	log.WithFields(log.Fields{"family": ft.family.String(), "candidates": fc.Len(),
		"promoted": promoted, "min_support": minSupport}).Debug("Promoted frequent rows.")
	return promoted, nil
}

// SetClosure records the lazily computed closure of the Carpathia row stored
// under s. A closure wider than the universe leaves the row untouched.
func (ft *FrequentTable) SetClosure(s, closure *IS.Itemset) error {
	if ft.family.frequentKind() != KindCarpathia {
		return errors.Wrapf(ErrNoClosure, "family %s", ft.family)
	}
	r, ok := ft.Get(s)
	if !ok {
		return errors.Wrapf(ErrRowNotFound, "%s", s)
	}
	if closure != nil {
		if err := ft.checkWidth(closure.Width()); err != nil {
			return ft.reject(r, err)
		}
	}
	return r.ResolveClosure(closure, SupportUnknown)
}

// PromoteClosed moves the closed itemsets of the table into z, deduplicated
// by closure. Apriori-Close and Pascal+ promote rows marked closed, which
// are their own closure; Carpathia families promote every row whose closure
// is known. Pascal has no closure stage. The rows go in as one batch, so a
// row z refuses leaves z unchanged.
func (ft *FrequentTable) PromoteClosed(z *CloseTable) (int, error) {
	if !ft.family.HasClosureStage() {
		return 0, errors.Wrapf(ErrNoClosureStage, "family %s", ft.family)
	}
	batch := make([]*Row, 0)
	for _, r := range ft.rows {
		var closure *IS.Itemset
		switch ft.family {
		case Carpathia, CarpathiaG:
			if r.closure == nil {
				continue
			}
			closure = r.closure.Clone()
		default:
			if !r.Is(FlagClosed) {
				continue
			}
			closure = r.itemset.Clone()
		}
		batch = append(batch, NewClosureRow(r.itemset.Clone(), closure, r.support))
	}
	return z.AddRows(batch)
}
