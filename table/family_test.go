package table

import (
	"testing"

	IS "github.com/jabbalaci/Talky-G-sub001/itemset"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countedCandidate(s *IS.Itemset, support int, flags Flag) *Row {
	r := NewPredRow(s, SupportUnknown, support, flags)
	r.SetSupport(support)
	return r
}

func TestCandidateTableRejectsForeignFlags(t *testing.T) {
	tests := []struct {
		family Family
		ok     Flag
		bad    Flag
	}{
		{AprioriClose, FlagClosed, FlagKey},
		{Pascal, FlagKey, FlagClosed},
		{Carpathia, FlagKey, FlagClosed},
		{CarpathiaG, FlagKey, FlagClosed},
	}
	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			fc := NewCandidateTable(tt.family, indexedOptions(0))
			_, err := fc.AddCandidate(IS.New(1), 3, tt.ok)
			assert.Nil(t, err)
			_, err = fc.AddCandidate(IS.New(2), 3, tt.bad)
			assert.True(t, errors.Is(err, ErrFamilyMismatch), "got %v", err)
			assert.Equal(t, 1, fc.Len())
		})
	}

	fc := NewCandidateTable(PascalPlus, indexedOptions(0))
	_, err := fc.AddCandidate(IS.New(1), 3, FlagKey|FlagClosed)
	assert.Nil(t, err)
}

func TestCandidateTableOnlyTakesPredRows(t *testing.T) {
	fc := NewCandidateTable(AprioriClose, Options{})
	err := fc.AddRow(NewRow(IS.New(1), 1))
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestPascalCandidatesIndexOnBuild(t *testing.T) {
	for _, family := range []Family{Pascal, PascalPlus} {
		t.Run(family.String(), func(t *testing.T) {
			fc := NewCandidateTable(family, indexedOptions(0))
			_, err := fc.AddCandidate(IS.New(1, 2), 2, 0)
			require.Nil(t, err)
			assert.False(t, fc.IsIndexed())
			require.Nil(t, fc.BuildIndex())
			assert.True(t, fc.IsIndexed())
		})
	}

	fc := NewCandidateTable(AprioriClose, indexedOptions(0))
	_, err := fc.AddCandidate(IS.New(1, 2), 2, 0)
	require.Nil(t, err)
	assert.True(t, fc.IsIndexed())
}

func TestFrequentTableKeepsItemsetsAndFlags(t *testing.T) {
	tests := []struct {
		family Family
		kind   Kind
		flags  []Flag
	}{
		{AprioriClose, KindFlag, []Flag{FlagClosed, 0, FlagClosed}},
		{Pascal, KindFlag, []Flag{0, FlagKey, FlagKey}},
		{PascalPlus, KindKeyClosed, []Flag{FlagKey | FlagClosed, FlagKey, FlagClosed}},
		{Carpathia, KindCarpathia, []Flag{FlagKey, 0, FlagKey}},
		{CarpathiaG, KindCarpathia, []Flag{0, FlagKey, 0}},
	}
	sets := []*IS.Itemset{IS.New(1), IS.New(2), IS.New(1, 2)}
	for _, tt := range tests {
		t.Run(tt.family.String(), func(t *testing.T) {
			f := NewFrequentTable(tt.family, indexedOptions(0))
			for i, s := range sets {
				candidate := countedCandidate(s, 5-i, tt.flags[i])
				r, err := f.AddRow(candidate)
				require.Nil(t, err)
				assert.Equal(t, tt.kind, r.Kind())
				_, ok := r.PredictedSupport()
				assert.False(t, ok, "predicted support is not carried over")
			}
			rows := f.Rows()
			require.Len(t, rows, len(sets))
			for i, r := range rows {
				assert.True(t, r.Itemset().Equal(sets[i]))
				assert.Equal(t, tt.flags[i], r.Flags())
				assert.Equal(t, 5-i, r.Support())
			}
		})
	}
}

func TestFrequentRowDoesNotAliasCandidate(t *testing.T) {
	f := NewFrequentTable(AprioriClose, indexedOptions(0))
	s := IS.New(1, 2)
	r, err := f.AddRow(countedCandidate(s, 2, FlagClosed))
	require.Nil(t, err)
	s.Set(7)
	assert.Equal(t, "1 2", r.Itemset().String())
}

func TestFrequentTableRejects(t *testing.T) {
	f := NewFrequentTable(AprioriClose, indexedOptions(4))

	_, err := f.AddRow(nil)
	assert.True(t, errors.Is(err, ErrNilItemset))

	_, err = f.AddRow(NewRow(IS.New(1), 2))
	assert.True(t, errors.Is(err, ErrKindMismatch))

	_, err = f.AddRow(countedCandidate(IS.New(1), 2, FlagKey))
	assert.True(t, errors.Is(err, ErrFamilyMismatch))

	_, err = f.AddRow(countedCandidate(IS.New(9), 2, 0))
	assert.True(t, errors.Is(err, ErrItemsetTooWide))

	assert.True(t, f.IsEmpty())
}

func TestFrequentTableSupportNeverIncreases(t *testing.T) {
	f := NewFrequentTable(AprioriClose, indexedOptions(0))
	_, err := f.AddRow(countedCandidate(IS.New(1), 3, 0))
	require.Nil(t, err)
	_, err = f.AddRow(countedCandidate(IS.New(2), 5, 0))
	require.Nil(t, err)

	_, err = f.AddRow(countedCandidate(IS.New(1, 2), 4, 0))
	assert.True(t, errors.Is(err, ErrSupportIncrease), "got %v", err)
	assert.False(t, f.Contains(IS.New(1, 2)))

	_, err = f.AddRow(countedCandidate(IS.New(1, 2), 3, 0))
	assert.Nil(t, err)

	for _, r := range f.Rows() {
		for _, sub := range IS.SubsetsOneSmaller(r.Itemset()) {
			if subRow, ok := f.Get(sub); ok {
				assert.LessOrEqual(t, r.Support(), subRow.Support())
			}
		}
	}
}

func TestPromoteFrequent(t *testing.T) {
	fc := NewCandidateTable(Pascal, indexedOptions(0))
	for i, s := range []*IS.Itemset{IS.New(1), IS.New(2), IS.New(3)} {
		r, err := fc.AddCandidate(s, 4, FlagKey)
		require.Nil(t, err)
		r.SetSupport(i + 1)
	}

	f := NewFrequentTable(Pascal, indexedOptions(0))
	n, err := f.PromoteFrequent(fc, 2)
	require.Nil(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, f.Contains(IS.New(1)))
	assert.True(t, f.Contains(IS.New(2)))
	assert.True(t, f.Contains(IS.New(3)))

	other := NewFrequentTable(AprioriClose, indexedOptions(0))
	_, err = other.PromoteFrequent(fc, 2)
	assert.True(t, errors.Is(err, ErrFamilyMismatch))
}

func TestPromoteClosedByFlag(t *testing.T) {
	for _, family := range []Family{AprioriClose, PascalPlus} {
		t.Run(family.String(), func(t *testing.T) {
			f := NewFrequentTable(family, indexedOptions(0))
			_, err := f.AddRow(countedCandidate(IS.New(1), 3, FlagClosed))
			require.Nil(t, err)
			_, err = f.AddRow(countedCandidate(IS.New(2), 3, 0))
			require.Nil(t, err)
			_, err = f.AddRow(countedCandidate(IS.New(1, 3), 2, FlagClosed))
			require.Nil(t, err)

			z := NewCloseTable(indexedOptions(0))
			n, err := f.PromoteClosed(z)
			require.Nil(t, err)
			assert.Equal(t, 2, n)
			assert.True(t, z.ContainsClosure(IS.New(1)))
			assert.True(t, z.ContainsClosure(IS.New(1, 3)))
			assert.False(t, z.ContainsClosure(IS.New(2)))

			r, ok := z.GetByClosure(IS.New(1, 3))
			require.True(t, ok)
			assert.Equal(t, 2, r.Support())
		})
	}
}

func TestPromoteClosedCarpathia(t *testing.T) {
	f := NewFrequentTable(Carpathia, indexedOptions(0))
	for _, s := range []*IS.Itemset{IS.New(1), IS.New(2), IS.New(3)} {
		_, err := f.AddRow(countedCandidate(s, 2, FlagKey))
		require.Nil(t, err)
	}
	require.Nil(t, f.SetClosure(IS.New(1), IS.New(1, 2)))
	require.Nil(t, f.SetClosure(IS.New(2), IS.New(1, 2)))

	err := f.SetClosure(IS.New(4), IS.New(4))
	assert.True(t, errors.Is(err, ErrRowNotFound))
	err = f.SetClosure(IS.New(1), IS.New(1, 3))
	assert.True(t, errors.Is(err, ErrClosureResolved))

	z := NewCloseTable(indexedOptions(0))
	n, err := f.PromoteClosed(z)
	require.Nil(t, err)
	assert.Equal(t, 1, n, "{3} is unresolved and {2} repeats the closure of {1}")

	r, ok := z.GetByClosure(IS.New(1, 2))
	require.True(t, ok)
	g, err := r.Generator()
	require.Nil(t, err)
	assert.Equal(t, "1", g.String())
}

func TestPascalHasNoClosureStage(t *testing.T) {
	f := NewFrequentTable(Pascal, indexedOptions(0))
	_, err := f.PromoteClosed(NewCloseTable(Options{}))
	assert.True(t, errors.Is(err, ErrNoClosureStage))

	err = f.SetClosure(IS.New(1), IS.New(1))
	assert.True(t, errors.Is(err, ErrNoClosure))

	assert.False(t, Pascal.HasClosureStage())
	assert.True(t, CarpathiaG.HasClosureStage())
}

func TestFrequentTableSupportCheckedBothWays(t *testing.T) {
	deferred := indexedOptions(0)
	deferred.Deferred = true
	tests := []struct {
		name string
		opts Options
	}{
		{"indexed", indexedOptions(0)},
		{"unindexed", Options{}},
		{"deferred", deferred},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrequentTable(AprioriClose, tt.opts)
			_, err := f.AddRow(countedCandidate(IS.New(1, 2), 5, 0))
			require.Nil(t, err)

			_, err = f.AddRow(countedCandidate(IS.New(1), 3, 0))
			assert.True(t, errors.Is(err, ErrSupportIncrease), "subset after its superset: %v", err)
			_, err = f.AddRow(countedCandidate(IS.New(1), 5, 0))
			require.Nil(t, err)

			_, err = f.AddRow(countedCandidate(IS.New(1, 2, 3), 6, 0))
			assert.True(t, errors.Is(err, ErrSupportIncrease), "superset over stored subsets: %v", err)

			_, err = f.AddRow(countedCandidate(IS.New(4), 2, 0))
			require.Nil(t, err)
			_, err = f.AddRow(countedCandidate(IS.New(1, 4, 7), 3, 0))
			assert.True(t, errors.Is(err, ErrSupportIncrease), "subset two levels down: %v", err)

			assert.Equal(t, 3, f.Len())
			for _, r := range f.Rows() {
				for _, sub := range f.SubsetRows(r.Itemset()) {
					assert.LessOrEqual(t, r.Support(), sub.Support())
				}
			}
		})
	}
}

func TestSetClosureRejectsWideClosure(t *testing.T) {
	f := NewFrequentTable(Carpathia, indexedOptions(4))
	for _, s := range []*IS.Itemset{IS.New(1), IS.New(2)} {
		_, err := f.AddRow(countedCandidate(s, 2, FlagKey))
		require.Nil(t, err)
	}

	err := f.SetClosure(IS.New(2), IS.New(2, 99))
	assert.True(t, errors.Is(err, ErrItemsetTooWide), "got %v", err)
	r, ok := f.Get(IS.New(2))
	require.True(t, ok)
	assert.False(t, r.HasClosure())

	require.Nil(t, f.SetClosure(IS.New(2), IS.New(2, 3)))
	assert.True(t, r.HasClosure())
}

func TestPromoteClosedIsAllOrNothing(t *testing.T) {
	f := NewFrequentTable(Carpathia, indexedOptions(8))
	for _, s := range []*IS.Itemset{IS.New(1), IS.New(2)} {
		_, err := f.AddRow(countedCandidate(s, 2, FlagKey))
		require.Nil(t, err)
	}
	require.Nil(t, f.SetClosure(IS.New(1), IS.New(1)))
	require.Nil(t, f.SetClosure(IS.New(2), IS.New(2, 5)))

	z := NewCloseTable(indexedOptions(4))
	n, err := f.PromoteClosed(z)
	assert.True(t, errors.Is(err, ErrItemsetTooWide), "got %v", err)
	assert.Equal(t, 0, n)
	assert.True(t, z.IsEmpty())
	assert.Equal(t, 0, z.MaxClosureSize())

	wide := NewCloseTable(indexedOptions(8))
	n, err = f.PromoteClosed(wide)
	require.Nil(t, err)
	assert.Equal(t, 2, n)
}
