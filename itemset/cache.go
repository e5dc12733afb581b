package itemset

import (
	"fmt"

	cache "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

// IndexCache memoizes the sorted id arrays of itemsets so repeated
// conversions of the same generator share one slice. It is owned by whoever
// builds it and handed to the tables that need it; there is no package level
// instance.
//
// Slices returned by Positions are shared and must not be modified.
type IndexCache struct {
	size   int
	lru    *cache.Cache
	hits   uint64
	misses uint64
}

func NewIndexCache(size int) (*IndexCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid index cache size %d", size)
	}
	c, err := cache.New(size)
	if err != nil {
		return nil, err
	}
	return &IndexCache{size: size, lru: c}, nil
}

// Positions returns the sorted ids of s, computing and caching them on a miss.
func (c *IndexCache) Positions(s *Itemset) []int {
	key := s.Key()
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		return v.([]int)
	}
	c.misses++
	positions := s.Positions()
	c.lru.Add(key, positions)
	return positions
}

// Grow enlarges the cache to hold at least size entries, keeping the cached
// arrays and their recency order. Shrinking is a no-op.
func (c *IndexCache) Grow(size int) error {
	if size <= c.size {
		return nil
	}
	grown, err := cache.New(size)
	if err != nil {
		return err
	}
	// Keys are ordered oldest to newest.
	for _, k := range c.lru.Keys() {
		if v, ok := c.lru.Peek(k); ok {
			grown.Add(k, v)
		}
	}
	log.WithFields(log.Fields{"from": c.size, "to": size}).Debug("Growing itemset index cache.")
	c.lru = grown
	c.size = size
	return nil
}

func (c *IndexCache) Size() int {
	return c.size
}

func (c *IndexCache) Len() int {
	return c.lru.Len()
}

// Stats returns hit and miss counts since creation or the last Purge.
func (c *IndexCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}

func (c *IndexCache) Purge() {
	c.lru.Purge()
	c.hits, c.misses = 0, 0
}
