// Package table stores the rows produced by closed itemset mining passes:
// candidate (FC), frequent (F) and closed result (Z) tables for the
// Apriori-Close, Pascal, Pascal+, Carpathia and Carpathia-G families.
package table

import (
	"strings"

	IS "github.com/jabbalaci/Talky-G-sub001/itemset"

	"github.com/pkg/errors"
)

// Flag is the set of boolean markers a row can carry.
type Flag uint8

const (
	// FlagKey marks a key pattern, i.e. a minimal generator.
	FlagKey Flag = 1 << iota
	// FlagClosed marks a closed itemset.
	FlagClosed
)

func (f Flag) Has(x Flag) bool {
	return f&x == x
}

func (f Flag) String() string {
	parts := make([]string, 0, 2)
	if f.Has(FlagKey) {
		parts = append(parts, "key")
	}
	if f.Has(FlagClosed) {
		parts = append(parts, "closed")
	}
	return strings.Join(parts, ",")
}

// Kind tags what a Row carries on top of itemset and support.
type Kind int

const (
	// KindBase is itemset and support only.
	KindBase Kind = iota
	// KindFlag adds a single marker whose meaning depends on the family.
	KindFlag
	// KindKeyClosed carries independent key and closed markers (Pascal+).
	KindKeyClosed
	// KindPredSupport adds a predicted support used while evaluating
	// candidates.
	KindPredSupport
	// KindClosure binds a generator to its closure; the itemset of the row
	// is the closure.
	KindClosure
	// KindCarpathia is a key row whose closure is filled in later.
	KindCarpathia
)

var kindNames = map[Kind]string{
	KindBase:        "base",
	KindFlag:        "flag",
	KindKeyClosed:   "key_closed",
	KindPredSupport: "pred_support",
	KindClosure:     "closure",
	KindCarpathia:   "carpathia",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// SupportUnknown is the support of a placeholder row that has not been
// counted yet.
const SupportUnknown = -1

// Row is one itemset record. Which fields are meaningful depends on kind;
// build rows with the New*Row constructors. Support is a count, or
// SupportUnknown; tables refuse anything lower.
//
// The itemsets a row hands out are its own. Once the row is stored in a
// table, its itemset and the generator of a closure row key the table's
// indexes and must be treated as read-only; Clone them before modifying.
type Row struct {
	kind        Kind
	itemset     *IS.Itemset
	support     int
	flags       Flag
	predSupport int
	// KindClosure only.
	generator *IS.Itemset
	// KindCarpathia only, nil until resolved.
	closure *IS.Itemset
}

func NewRow(s *IS.Itemset, support int) *Row {
	return &Row{kind: KindBase, itemset: s, support: support}
}

// NewFlagRow builds a single marker row. flag is FlagKey or FlagClosed
// depending on the family; on tells whether the marker is set.
func NewFlagRow(s *IS.Itemset, support int, flag Flag, on bool) *Row {
	r := &Row{kind: KindFlag, itemset: s, support: support}
	if on {
		r.flags = flag
	}
	return r
}

func NewKeyClosedRow(s *IS.Itemset, support int, key, closed bool) *Row {
	r := &Row{kind: KindKeyClosed, itemset: s, support: support}
	r.SetFlag(FlagKey, key)
	r.SetFlag(FlagClosed, closed)
	return r
}

// NewPredRow builds a candidate row. flags holds the markers the driving
// algorithm already derived for the candidate.
func NewPredRow(s *IS.Itemset, support, predSupport int, flags Flag) *Row {
	return &Row{
		kind:        KindPredSupport,
		itemset:     s,
		support:     support,
		predSupport: predSupport,
		flags:       flags,
	}
}

// NewClosureRow binds generator to closure. A nil closure leaves the row
// pending until ResolveClosure.
func NewClosureRow(generator, closure *IS.Itemset, support int) *Row {
	return &Row{kind: KindClosure, itemset: closure, generator: generator, support: support}
}

func NewCarpathiaRow(s *IS.Itemset, support int, key bool) *Row {
	r := &Row{kind: KindCarpathia, itemset: s, support: support}
	r.SetFlag(FlagKey, key)
	return r
}

func (r *Row) Kind() Kind {
	return r.kind
}

// Itemset is the identity of the row. For closure rows it is the closure
// and nil while pending. Read-only while the row is stored.
func (r *Row) Itemset() *IS.Itemset {
	return r.itemset
}

func (r *Row) Support() int {
	return r.support
}

func (r *Row) SetSupport(support int) {
	r.support = support
}

func (r *Row) Flags() Flag {
	return r.flags
}

func (r *Row) Is(flag Flag) bool {
	return r.flags.Has(flag)
}

func (r *Row) SetFlag(flag Flag, on bool) {
	if on {
		r.flags |= flag
	} else {
		r.flags &^= flag
	}
}

// PredictedSupport is only carried by candidate rows.
func (r *Row) PredictedSupport() (int, bool) {
	if r.kind != KindPredSupport {
		return 0, false
	}
	return r.predSupport, true
}

func (r *Row) SetPredictedSupport(predSupport int) {
	r.predSupport = predSupport
}

// Closure returns the closure of a closure or Carpathia row. For closure
// rows it is the itemset, read-only while the row is stored.
func (r *Row) Closure() (*IS.Itemset, error) {
	var closure *IS.Itemset
	switch r.kind {
	case KindClosure:
		closure = r.itemset
	case KindCarpathia:
		closure = r.closure
	default:
		return nil, errors.Wrapf(ErrNoClosure, "kind %s", r.kind)
	}
	if closure == nil {
		return nil, errors.Wrapf(ErrClosurePending, "generator %s", r.mustGenerator())
	}
	return closure, nil
}

// Generator returns the generator of a closure row. A Carpathia row is its
// own generator. Read-only while the row is stored.
func (r *Row) Generator() (*IS.Itemset, error) {
	switch r.kind {
	case KindClosure:
		return r.generator, nil
	case KindCarpathia:
		return r.itemset, nil
	}
	return nil, errors.Wrapf(ErrNoGenerator, "kind %s", r.kind)
}

func (r *Row) mustGenerator() *IS.Itemset {
	g, _ := r.Generator()
	return g
}

// HasClosure reports whether the row carries a resolved closure.
func (r *Row) HasClosure() bool {
	_, err := r.Closure()
	return err == nil
}

// ResolveClosure fills the closure and support of a pending closure or
// Carpathia row. A Carpathia row keeps its own support when support is
// SupportUnknown.
func (r *Row) ResolveClosure(closure *IS.Itemset, support int) error {
	if closure == nil {
		return errors.Wrap(ErrNilItemset, "resolving closure")
	}
	if support < SupportUnknown {
		return errors.Wrapf(ErrInvalidSupport, "support %d", support)
	}
	switch r.kind {
	case KindClosure:
		if r.itemset != nil {
			return errors.Wrapf(ErrClosureResolved, "generator %s", r.generator)
		}
		r.itemset = closure
	case KindCarpathia:
		if r.closure != nil {
			return errors.Wrapf(ErrClosureResolved, "generator %s", r.itemset)
		}
		r.closure = closure
	default:
		return errors.Wrapf(ErrNoClosure, "kind %s", r.kind)
	}
	if support != SupportUnknown {
		r.support = support
	}
	return nil
}

// indexKey is the itemset a table indexes the row under.
func (r *Row) indexKey() *IS.Itemset {
	if r.kind == KindClosure {
		return r.generator
	}
	return r.itemset
}

// width is the widest bit position used by any itemset of the row.
func (r *Row) width() int {
	w := 0
	for _, s := range []*IS.Itemset{r.itemset, r.generator, r.closure} {
		if s != nil && s.Width() > w {
			w = s.Width()
		}
	}
	return w
}
