// Package trie is a prefix tree over itemsets. Each path from the root spells
// the ids of an itemset in increasing order; a node marked terminal holds the
// value stored for that itemset.
package trie

import (
	IS "github.com/jabbalaci/Talky-G-sub001/itemset"

	"github.com/google/btree"
)

// Children of a node are kept ordered by item so subset and superset searches
// can stop early.
const childDegree = 4

type node struct {
	item     uint32
	terminal bool
	value    interface{}
	children *btree.BTreeG[*node]
}

func byItem(a, b *node) bool {
	return a.item < b.item
}

func (n *node) child(item uint32) *node {
	if n.children == nil {
		return nil
	}
	c, ok := n.children.Get(&node{item: item})
	if !ok {
		return nil
	}
	return c
}

func (n *node) childOrCreate(item uint32) *node {
	if n.children == nil {
		n.children = btree.NewG[*node](childDegree, byItem)
	}
	if c := n.child(item); c != nil {
		return c
	}
	c := &node{item: item}
	n.children.ReplaceOrInsert(c)
	return c
}

func (n *node) ascend(fn func(c *node) bool) {
	if n.children == nil {
		return
	}
	n.children.Ascend(fn)
}

// Trie maps itemsets to values. It is not safe for concurrent mutation.
type Trie struct {
	root *node
	size int
}

func New() *Trie {
	return &Trie{root: &node{}}
}

// Insert stores value under key. It reports whether an existing value for an
// equal key was replaced.
func (t *Trie) Insert(key *IS.Itemset, value interface{}) bool {
	n := t.root
	for _, it := range key.Items() {
		n = n.childOrCreate(it)
	}
	replaced := n.terminal
	n.terminal = true
	n.value = value
	if !replaced {
		t.size++
	}
	return replaced
}

func (t *Trie) find(key *IS.Itemset) *node {
	n := t.root
	for _, it := range key.Items() {
		if n = n.child(it); n == nil {
			return nil
		}
	}
	return n
}

// Get returns the value stored under key.
func (t *Trie) Get(key *IS.Itemset) (interface{}, bool) {
	n := t.find(key)
	if n == nil || !n.terminal {
		return nil, false
	}
	return n.value, true
}

func (t *Trie) Contains(key *IS.Itemset) bool {
	_, ok := t.Get(key)
	return ok
}

// HasSubsetOf reports whether some stored key is a subset of s.
func (t *Trie) HasSubsetOf(s *IS.Itemset) bool {
	return hasSubset(t.root, s.Items())
}

func hasSubset(n *node, rest []uint32) bool {
	if n.terminal {
		return true
	}
	for i, it := range rest {
		if c := n.child(it); c != nil && hasSubset(c, rest[i+1:]) {
			return true
		}
	}
	return false
}

// Subsets returns the values of every stored key contained in s, s itself
// included, in key order.
func (t *Trie) Subsets(s *IS.Itemset) []interface{} {
	values := make([]interface{}, 0)
	collectSubsets(t.root, s.Items(), &values)
	return values
}

func collectSubsets(n *node, rest []uint32, values *[]interface{}) {
	if n.terminal {
		*values = append(*values, n.value)
	}
	for i, it := range rest {
		if c := n.child(it); c != nil {
			collectSubsets(c, rest[i+1:], values)
		}
	}
}

// Supersets returns the values of every stored key that contains s, s itself
// included, in key order.
func (t *Trie) Supersets(s *IS.Itemset) []interface{} {
	values := make([]interface{}, 0)
	collectSupersets(t.root, s.Items(), &values)
	return values
}

func collectSupersets(n *node, need []uint32, values *[]interface{}) {
	if len(need) == 0 {
		collectAll(n, values)
		return
	}
	n.ascend(func(c *node) bool {
		switch {
		case c.item < need[0]:
			collectSupersets(c, need, values)
		case c.item == need[0]:
			collectSupersets(c, need[1:], values)
		default:
			return false
		}
		return true
	})
}

func collectAll(n *node, values *[]interface{}) {
	if n.terminal {
		*values = append(*values, n.value)
	}
	n.ascend(func(c *node) bool {
		collectAll(c, values)
		return true
	})
}

// Walk visits every stored key in lexicographic id order until fn returns
// false. The key passed to fn is freshly built and owned by the caller.
func (t *Trie) Walk(fn func(key *IS.Itemset, value interface{}) bool) {
	walk(t.root, nil, fn)
}

func walk(n *node, path []uint32, fn func(*IS.Itemset, interface{}) bool) bool {
	if n.terminal && !fn(IS.New(path...), n.value) {
		return false
	}
	keepGoing := true
	n.ascend(func(c *node) bool {
		keepGoing = walk(c, append(path, c.item), fn)
		return keepGoing
	})
	return keepGoing
}

// Len is the number of stored keys.
func (t *Trie) Len() int {
	return t.size
}

// Clear drops every key.
func (t *Trie) Clear() {
	t.root = &node{}
	t.size = 0
}
