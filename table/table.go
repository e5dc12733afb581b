package table

import (
	C "github.com/jabbalaci/Talky-G-sub001/config"
	IS "github.com/jabbalaci/Talky-G-sub001/itemset"
	"github.com/jabbalaci/Talky-G-sub001/metrics"
	"github.com/jabbalaci/Talky-G-sub001/trie"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Index maps itemsets to rows and answers existence, subset and superset
// queries. *trie.Trie satisfies it.
type Index interface {
	Insert(key *IS.Itemset, value interface{}) bool
	Get(key *IS.Itemset) (interface{}, bool)
	Contains(key *IS.Itemset) bool
	Subsets(s *IS.Itemset) []interface{}
	Supersets(s *IS.Itemset) []interface{}
	Len() int
	Clear()
}

// IndexFactory builds an empty index. Clones use it to get an index of
// their own.
type IndexFactory func() Index

// TrieIndex is the default IndexFactory.
func TrieIndex() Index {
	return trie.New()
}

type Options struct {
	// Universe is the number of attribute ids; itemsets reaching past it are
	// rejected. Zero disables the check.
	Universe int
	// Index is nil for tables that never index.
	Index IndexFactory
	// Deferred tables only index rows on BuildIndex.
	Deferred bool
	// Cache backs GeneratorsAsIndexArrays when set.
	Cache *IS.IndexCache
}

// OptionsFromConfig builds table options from the loaded configuration.
func OptionsFromConfig(c *C.Configuration) (Options, error) {
	opts := Options{Universe: c.Universe}
	if c.UseTrie {
		opts.Index = TrieIndex
	}
	if c.IndexCacheSize > 0 {
		cache, err := IS.NewIndexCache(c.IndexCacheSize)
		if err != nil {
			return Options{}, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

// Table is an insertion ordered sequence of rows of the accepted kinds,
// optionally indexed. All mutation goes through AddRow so rows and index
// never diverge.
type Table struct {
	kinds []Kind
	opts  Options
	rows  []*Row
	index Index
	// Rows [0, indexed) are in the index.
	indexed int
}

// New returns an empty table accepting rows of the given kinds.
func New(opts Options, kinds ...Kind) *Table {
	t := &Table{
		kinds: kinds,
		opts:  opts,
		rows:  make([]*Row, 0),
	}
	if opts.Index != nil {
		t.index = opts.Index()
	}
	return t
}

func (t *Table) Options() Options {
	return t.opts
}

func (t *Table) accepts(k Kind) bool {
	for _, kind := range t.kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// validate checks the construction invariants of r against t.
func (t *Table) validate(r *Row) error {
	if r == nil || r.indexKey() == nil {
		return ErrNilItemset
	}
	if r.support < SupportUnknown {
		return errors.Wrapf(ErrInvalidSupport, "support %d", r.support)
	}
	if !t.accepts(r.kind) {
		return errors.Wrapf(ErrKindMismatch, "kind %s, accepted %v", r.kind, t.kinds)
	}
	return t.checkWidth(r.width())
}

func (t *Table) checkWidth(width int) error {
	if t.opts.Universe > 0 && width > t.opts.Universe {
		return errors.Wrapf(ErrItemsetTooWide, "width %d, universe %d", width, t.opts.Universe)
	}
	return nil
}

func (t *Table) reject(r *Row, err error) error {
	fields := log.Fields{"err": err}
	if r != nil {
		fields["kind"] = r.kind.String()
		fields["row"] = r.String()
	}
	log.WithFields(fields).Error("Rejected row.")
	metrics.Increment(metrics.IncrTableRowsRejected)
	return err
}

// AddRow appends r and indexes it unless the table defers indexing. No
// uniqueness is enforced; with duplicates the index keeps the first row.
func (t *Table) AddRow(r *Row) error {
	if err := t.validate(r); err != nil {
		return t.reject(r, err)
	}
	t.append(r)
	return nil
}

func (t *Table) append(r *Row) {
	t.rows = append(t.rows, r)
	if t.index != nil && !t.opts.Deferred {
		t.indexRow(r)
		t.indexed = len(t.rows)
	}
	metrics.Increment(metrics.IncrTableRowsAdded)
}

func (t *Table) indexRow(r *Row) {
	key := r.indexKey()
	if !t.index.Contains(key) {
		t.index.Insert(key, r)
	}
}

// BuildIndex indexes every row added since the last build. Deferred tables
// call it once the level is complete.
func (t *Table) BuildIndex() error {
	if t.index == nil {
		return ErrNotIndexed
	}
	for _, r := range t.rows[t.indexed:] {
		t.indexRow(r)
	}
	t.indexed = len(t.rows)
	metrics.Increment(metrics.IncrTableIndexRebuilds)
	return nil
}

func (t *Table) IsIndexed() bool {
	return t.index != nil && t.indexed == len(t.rows)
}

// Rows returns the rows in insertion order. The slice is clipped so that
// appending to it never writes into the table.
func (t *Table) Rows() []*Row {
	return t.rows[:len(t.rows):len(t.rows)]
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) IsEmpty() bool {
	return len(t.rows) == 0
}

// Get returns the row stored under s. Indexed rows are looked up in the
// index, the rest are scanned.
func (t *Table) Get(s *IS.Itemset) (*Row, bool) {
	rest := t.rows
	if t.index != nil {
		if v, ok := t.index.Get(s); ok {
			return v.(*Row), true
		}
		rest = t.rows[t.indexed:]
	}
	for _, r := range rest {
		if r.indexKey().Equal(s) {
			return r, true
		}
	}
	return nil, false
}

func (t *Table) Contains(s *IS.Itemset) bool {
	_, ok := t.Get(s)
	return ok
}

// SubsetRows returns the rows whose key is a subset of s, s itself included.
// Indexed rows are found through the index, the rest are scanned.
func (t *Table) SubsetRows(s *IS.Itemset) []*Row {
	return t.related(s, Index.Subsets, func(key *IS.Itemset) bool { return key.IsSubsetOf(s) })
}

// SupersetRows returns the rows whose key contains s, s itself included.
func (t *Table) SupersetRows(s *IS.Itemset) []*Row {
	return t.related(s, Index.Supersets, func(key *IS.Itemset) bool { return s.IsSubsetOf(key) })
}

func (t *Table) related(s *IS.Itemset, query func(Index, *IS.Itemset) []interface{},
	match func(key *IS.Itemset) bool) []*Row {
	rows := make([]*Row, 0)
	rest := t.rows
	if t.index != nil {
		for _, v := range query(t.index, s) {
			rows = append(rows, v.(*Row))
		}
		rest = t.rows[t.indexed:]
	}
	for _, r := range rest {
		if match(r.indexKey()) {
			rows = append(rows, r)
		}
	}
	return rows
}

// AllSubsetsPresent reports whether every one-smaller subset of candidate is
// stored in t. This is the Apriori admissibility test: a candidate is only
// worth counting when all its subsets were frequent.
func (t *Table) AllSubsetsPresent(candidate *IS.Itemset) bool {
	for _, sub := range IS.SubsetsOneSmaller(candidate) {
		if !t.Contains(sub) {
			return false
		}
	}
	return true
}

// Clear empties the table keeping its allocations for the next level.
func (t *Table) Clear() {
	for i := range t.rows {
		t.rows[i] = nil
	}
	t.rows = t.rows[:0]
	if t.index != nil {
		t.index.Clear()
	}
	t.indexed = 0
	metrics.Increment(metrics.IncrTableClears)
}
