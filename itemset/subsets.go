package itemset

// SubsetsOneSmaller returns every subset of candidate with exactly one id
// cleared, ordered by the cleared id ascending. For {1,4,6} that is
// {4,6}, {1,6}, {1,4}.
//
// candidate is never modified; each returned itemset is a fresh allocation.
func SubsetsOneSmaller(candidate *Itemset) []*Itemset {
	items := candidate.Items()
	subsets := make([]*Itemset, 0, len(items))
	for _, id := range items {
		subsets = append(subsets, candidate.Without(id))
	}
	return subsets
}
