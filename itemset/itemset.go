// Package itemset holds the bit vector used as the identity of every mined row.
package itemset

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/cespare/xxhash/v2"
)

// Itemset is a set of attribute ids stored as a bit vector. The zero value is
// not usable, build one with New or FromPositions.
//
// An Itemset is owned by the row that stores it. Mutators (Set, Unset) exist
// for the owner only; anything that needs an independent value calls Clone.
type Itemset struct {
	bitmap *roaring.Bitmap
}

// New returns an itemset with the given attribute ids set.
func New(ids ...uint32) *Itemset {
	bm := roaring.NewBitmap()
	for _, id := range ids {
		bm.Add(id)
	}
	return &Itemset{bitmap: bm}
}

// FromPositions builds an itemset from int attribute ids. Negative ids are
// ignored.
func FromPositions(positions []int) *Itemset {
	bm := roaring.NewBitmap()
	for _, p := range positions {
		if p < 0 {
			continue
		}
		bm.Add(uint32(p))
	}
	return &Itemset{bitmap: bm}
}

// Set adds id to the itemset.
func (s *Itemset) Set(id uint32) {
	s.bitmap.Add(id)
}

// Unset removes id from the itemset.
func (s *Itemset) Unset(id uint32) {
	s.bitmap.Remove(id)
}

func (s *Itemset) Contains(id uint32) bool {
	return s.bitmap.Contains(id)
}

// Cardinality is the number of set bits.
func (s *Itemset) Cardinality() int {
	return int(s.bitmap.GetCardinality())
}

func (s *Itemset) IsEmpty() bool {
	return s.bitmap.GetCardinality() == 0
}

// Clone returns a structurally equal itemset backed by a fresh allocation.
func (s *Itemset) Clone() *Itemset {
	return &Itemset{bitmap: s.bitmap.Clone()}
}

// Equal reports whether both itemsets have identical set bits.
func (s *Itemset) Equal(other *Itemset) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.bitmap.Equals(other.bitmap)
}

// IsSubsetOf reports whether every id of s is also in other.
func (s *Itemset) IsSubsetOf(other *Itemset) bool {
	if s.Cardinality() > other.Cardinality() {
		return false
	}
	return roaring.AndNot(s.bitmap, other.bitmap).GetCardinality() == 0
}

// Union returns a new itemset holding the ids of both.
func (s *Itemset) Union(other *Itemset) *Itemset {
	bm := s.bitmap.Clone()
	bm.Or(other.bitmap)
	return &Itemset{bitmap: bm}
}

// Without returns a copy of s with id cleared.
func (s *Itemset) Without(id uint32) *Itemset {
	c := s.Clone()
	c.Unset(id)
	return c
}

// Items returns the set ids in increasing order.
func (s *Itemset) Items() []uint32 {
	return s.bitmap.ToArray()
}

// Positions returns the set ids in increasing order as ints.
func (s *Itemset) Positions() []int {
	items := s.bitmap.ToArray()
	positions := make([]int, len(items))
	for i, it := range items {
		positions[i] = int(it)
	}
	return positions
}

// Max returns the largest set id, ok is false for the empty itemset.
func (s *Itemset) Max() (uint32, bool) {
	items := s.bitmap.ToArray()
	if len(items) == 0 {
		return 0, false
	}
	return items[len(items)-1], true
}

// Width is the number of bit positions needed to hold s, i.e. Max()+1.
func (s *Itemset) Width() int {
	last, ok := s.Max()
	if !ok {
		return 0
	}
	return int(last) + 1
}

// Key is a compact string encoding of the set ids, usable as a map key.
func (s *Itemset) Key() string {
	return string(s.bytes())
}

// Hash is a structural hash: equal itemsets hash equal.
func (s *Itemset) Hash() uint64 {
	return xxhash.Sum64(s.bytes())
}

func (s *Itemset) bytes() []byte {
	items := s.bitmap.ToArray()
	buf := make([]byte, 4*len(items))
	for i, it := range items {
		binary.LittleEndian.PutUint32(buf[4*i:], it)
	}
	return buf
}

// String renders the ids separated by spaces, e.g. "1 4 6".
func (s *Itemset) String() string {
	items := s.bitmap.ToArray()
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = strconv.FormatUint(uint64(it), 10)
	}
	return strings.Join(parts, " ")
}
