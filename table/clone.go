package table

import (
	"github.com/jabbalaci/Talky-G-sub001/metrics"

	log "github.com/sirupsen/logrus"
)

// Clone returns an independent deep copy of r: every bit vector is freshly
// allocated, so mutating one copy is never observed by the other.
func (r *Row) Clone() *Row {
	c := *r
	if r.itemset != nil {
		c.itemset = r.itemset.Clone()
	}
	if r.generator != nil {
		c.generator = r.generator.Clone()
	}
	if r.closure != nil {
		c.closure = r.closure.Clone()
	}
	return &c
}

// Clone forks t for exploring a sub-database: rows are deep copies and the
// clone gets its own index built from the same factory. The indexing state,
// including rows not yet indexed by a deferred table, is preserved.
func (t *Table) Clone() *Table {
	c := &Table{
		kinds: append([]Kind(nil), t.kinds...),
		opts:  t.opts,
		rows:  make([]*Row, len(t.rows), cap(t.rows)),
	}
	for i, r := range t.rows {
		c.rows[i] = r.Clone()
	}
	if t.opts.Index != nil {
		c.index = t.opts.Index()
		for _, r := range c.rows[:t.indexed] {
			c.indexRow(r)
		}
		c.indexed = t.indexed
	}
	metrics.Increment(metrics.IncrTableClones)
	log.WithFields(log.Fields{"rows": len(c.rows), "indexed": c.indexed}).Debug("Cloned table.")
	return c
}

func (ct *CandidateTable) Clone() *CandidateTable {
	return &CandidateTable{Table: ct.Table.Clone(), family: ct.family}
}

func (ft *FrequentTable) Clone() *FrequentTable {
	return &FrequentTable{Table: ft.Table.Clone(), family: ft.family}
}

func (gt *GeneratorTable) Clone() *GeneratorTable {
	return &GeneratorTable{Table: gt.Table.Clone()}
}

// Clone deep copies the table and rebuilds the closure index over the
// copied rows.
func (ct *CloseTable) Clone() *CloseTable {
	c := &CloseTable{
		Table:          ct.Table.Clone(),
		closures:       make(map[uint64][]*Row, len(ct.closures)),
		maxClosureSize: ct.maxClosureSize,
	}
	for _, r := range c.rows {
		h := r.itemset.Hash()
		c.closures[h] = append(c.closures[h], r)
	}
	return c
}
