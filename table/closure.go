package table

import (
	IS "github.com/jabbalaci/Talky-G-sub001/itemset"
	"github.com/jabbalaci/Talky-G-sub001/metrics"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CloseTable holds closure rows with at most one row per distinct closure.
// Rows are indexed by generator in the optional index and by closure in a
// hash index of its own.
//
// The first row presented for a closure wins, so callers must present
// generators in increasing size within a level.
type CloseTable struct {
	*Table
	// Buckets of rows keyed by the structural hash of their closure.
	closures       map[uint64][]*Row
	maxClosureSize int
}

func NewCloseTable(opts Options) *CloseTable {
	return &CloseTable{
		Table:    New(opts, KindClosure),
		closures: make(map[uint64][]*Row),
	}
}

// check returns the closure of r if r may enter the table. Rows need a
// resolved closure and a counted support.
func (ct *CloseTable) check(r *Row) (*IS.Itemset, error) {
	if err := ct.Table.validate(r); err != nil {
		return nil, err
	}
	closure, err := r.Closure()
	if err != nil {
		return nil, err
	}
	if r.support == SupportUnknown {
		return nil, errors.Wrapf(ErrSupportUnknown, "closure %s", closure)
	}
	return closure, nil
}

// AddRow stores r unless a row with an equal closure is already present. It
// reports whether r was stored; a duplicate closure is not an error.
func (ct *CloseTable) AddRow(r *Row) (bool, error) {
	closure, err := ct.check(r)
	if err != nil {
		return false, ct.reject(r, err)
	}
	if existing, ok := ct.GetByClosure(closure); ok {
		log.WithFields(log.Fields{"closure": closure.String(), "generator": r.generator.String(),
			"kept_generator": existing.generator.String()}).Debug("Dropped duplicate closure.")
		metrics.Increment(metrics.IncrClosureDuplicatesDropped)
		return false, nil
	}

	ct.append(r)
	h := closure.Hash()
	ct.closures[h] = append(ct.closures[h], r)
	if size := closure.Cardinality(); size > ct.maxClosureSize {
		ct.maxClosureSize = size
		metrics.RecordValue(metrics.CountClosureMaxClosureSize, int64(size))
	}
	metrics.Increment(metrics.IncrClosureRowsAdded)
	return true, nil
}

// AddRows adds rows in order and returns how many were stored. Every row is
// checked first; if any is refused none is stored.
func (ct *CloseTable) AddRows(rows []*Row) (int, error) {
	for _, r := range rows {
		if _, err := ct.check(r); err != nil {
			return 0, ct.reject(r, err)
		}
	}
	added := 0
	for _, r := range rows {
		ok, err := ct.AddRow(r)
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, nil
}

// GetByClosure returns the row whose closure equals closure.
func (ct *CloseTable) GetByClosure(closure *IS.Itemset) (*Row, bool) {
	for _, r := range ct.closures[closure.Hash()] {
		if r.itemset.Equal(closure) {
			return r, true
		}
	}
	return nil, false
}

func (ct *CloseTable) ContainsClosure(closure *IS.Itemset) bool {
	_, ok := ct.GetByClosure(closure)
	return ok
}

// MaxClosureSize is the largest closure cardinality accepted since the last
// Clear.
func (ct *CloseTable) MaxClosureSize() int {
	return ct.maxClosureSize
}

// Clear resets rows, both indexes and the max closure size.
func (ct *CloseTable) Clear() {
	ct.Table.Clear()
	for h := range ct.closures {
		delete(ct.closures, h)
	}
	ct.maxClosureSize = 0
}

// GeneratorsAsIndexArrays returns the sorted attribute ids of each row's
// generator, in row order. With a cache configured the arrays are shared
// and must not be modified.
func (ct *CloseTable) GeneratorsAsIndexArrays() [][]int {
	arrays := make([][]int, len(ct.rows))
	cache := ct.opts.Cache
	for i, r := range ct.rows {
		if cache != nil {
			arrays[i] = cache.Positions(r.generator)
		} else {
			arrays[i] = r.generator.Positions()
		}
	}
	return arrays
}

// Emit streams every row to sink in insertion order, flushes it and clears
// the table for the next level. It returns the number of rows emitted. On a
// write or flush error it returns 0 and leaves the table intact.
func (ct *CloseTable) Emit(sink Sink) (int, error) {
	for _, r := range ct.rows {
		if err := sink.WriteRow(r); err != nil {
			return 0, errors.Wrapf(err, "emitting closure %s", r.itemset)
		}
	}
	if err := sink.Flush(); err != nil {
		return 0, errors.Wrap(err, "flushing closure sink")
	}
	n := len(ct.rows)
	metrics.CountInt(metrics.IncrClosureRowsEmitted, int64(n))
	log.WithFields(log.Fields{"rows": n, "max_closure_size": ct.maxClosureSize}).Debug("Emitted closure rows.")
	ct.Clear()
	return n, nil
}

// GeneratorTable collects candidate generators whose closure and support
// the driving algorithm computes later.
type GeneratorTable struct {
	*Table
}

func NewGeneratorTable(opts Options) *GeneratorTable {
	return &GeneratorTable{Table: New(opts, KindClosure)}
}

// AddGenerator adds a pending row for set, with no closure and no support.
func (gt *GeneratorTable) AddGenerator(set *IS.Itemset) (*Row, error) {
	r := NewClosureRow(set, nil, SupportUnknown)
	if err := gt.AddRow(r); err != nil {
		return nil, err
	}
	metrics.RecordValue(metrics.CountGeneratorTableRows, int64(gt.Len()))
	return r, nil
}

// IsGeneratorEmpty reports whether no generator is left; drivers stop when
// a level produces none.
func (gt *GeneratorTable) IsGeneratorEmpty() bool {
	return gt.IsEmpty()
}

// Resolve records the closure and support computed for the pending row of
// generator. A closure wider than the universe leaves the row untouched.
func (gt *GeneratorTable) Resolve(generator, closure *IS.Itemset, support int) error {
	r, ok := gt.Get(generator)
	if !ok {
		return errors.Wrapf(ErrRowNotFound, "%s", generator)
	}
	if closure != nil {
		if err := gt.checkWidth(closure.Width()); err != nil {
			return gt.reject(r, err)
		}
	}
	return r.ResolveClosure(closure, support)
}

// Pending returns the rows whose closure is not computed yet.
func (gt *GeneratorTable) Pending() []*Row {
	pending := make([]*Row, 0)
	for _, r := range gt.rows {
		if !r.HasClosure() {
			pending = append(pending, r)
		}
	}
	return pending
}

// PromoteTo moves every resolved row into z in insertion order, so the first
// generator of a closure wins. Pending rows are skipped. It returns how many
// rows z accepted; a row z refuses leaves z unchanged.
func (gt *GeneratorTable) PromoteTo(z *CloseTable) (int, error) {
	batch := make([]*Row, 0)
	for _, r := range gt.rows {
		if r.HasClosure() {
			batch = append(batch, r.Clone())
		}
	}
	return z.AddRows(batch)
}
