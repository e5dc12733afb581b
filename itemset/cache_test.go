package itemset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCacheRejectsInvalidSize(t *testing.T) {
	_, err := NewIndexCache(0)
	assert.Error(t, err)
}

func TestIndexCachePositions(t *testing.T) {
	c, err := NewIndexCache(2)
	require.Nil(t, err)

	first := c.Positions(New(3, 1))
	assert.Equal(t, []int{1, 3}, first)
	second := c.Positions(New(1, 3))
	assert.Equal(t, []int{1, 3}, second)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.Equal(t, 1, c.Len())

	c.Positions(New(5))
	c.Positions(New(6))
	assert.Equal(t, 2, c.Len(), "least recently used entry is evicted")

	c.Purge()
	assert.Equal(t, 0, c.Len())
	hits, misses = c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestIndexCacheGrowKeepsEntries(t *testing.T) {
	c, err := NewIndexCache(2)
	require.Nil(t, err)
	c.Positions(New(1))
	c.Positions(New(2))

	require.Nil(t, c.Grow(4))
	assert.Equal(t, 4, c.Size())
	assert.Equal(t, 2, c.Len())

	c.Positions(New(1))
	hits, _ := c.Stats()
	assert.Equal(t, uint64(1), hits)

	c.Positions(New(3))
	c.Positions(New(4))
	assert.Equal(t, 4, c.Len())

	require.Nil(t, c.Grow(1))
	assert.Equal(t, 4, c.Size(), "shrinking is ignored")
}
