package assemble

import (
	"sync"
	"testing"

	"github.com/ged-lab/gimme/internal/splice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseSingles(extra ...int) map[string][]splice.ExonKey {
	coords := append([]int{1000, 2000, 3000, 4000, 5000, 6000, 7000, 8000}, extra...)
	return map[string][]splice.ExonKey{"chr1": tx("chr1", coords...)}
}

func TestMergeSingleExons(t *testing.T) {
	tests := []struct {
		name  string
		extra []int
		want  int
	}{
		{"no merge", nil, 4},
		{"subset", []int{1100, 1800}, 4},
		{"extend front", []int{500, 1800}, 4},
		{"extend back first", []int{1100, 2200}, 4},
		{"extend back last", []int{7100, 8200}, 4},
		{"extend first and last", []int{7100, 8200, 1100, 2200}, 4},
		{"span all", []int{500, 8200}, 1},
		{"merge two", []int{1300, 3200}, 3},
		{"merge two extend", []int{1300, 4200}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			merged := MergeSingleExons(baseSingles(tt.extra...))
			assert.Len(t, merged["chr1"], tt.want)
		})
	}
}

func TestMergeSingleExons_Coordinates(t *testing.T) {
	merged := MergeSingleExons(baseSingles(1100, 1800, 1300, 4200, 7100, 8200))
	assert.Equal(t, tx("chr1", 1000, 4200, 5000, 6000, 7000, 8200), merged["chr1"])

	one := MergeSingleExons(map[string][]splice.ExonKey{"chr2": tx("chr2", 10, 20)})
	assert.Equal(t, tx("chr2", 10, 20), one["chr2"])
}

func TestSingleExonIndex_Absorb(t *testing.T) {
	idx, err := NewSingleExonIndex(map[string][]splice.ExonKey{
		"chr1": tx("chr1",
			850, 1050, // extends 150 before: kept
			1200, 1300, // contained: removed
			1950, 2050, // extends 50 after: removed
			2500, 2600, // no overlap
		),
		"chr2": tx("chr2", 1000, 1100),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Absorb(ex(1000, 2000), 100))

	removed := map[splice.ExonKey]bool{}
	for _, s := range idx.Exons() {
		removed[s.Key] = s.Removed
	}
	assert.Equal(t, map[splice.ExonKey]bool{
		ex(850, 1050):  false,
		ex(1200, 1300): true,
		ex(1950, 2050): true,
		ex(2500, 2600): false,
		{Chrom: "chr2", Start: 1000, End: 1100}: false,
	}, removed)

	// A removed single exon is not reconsidered.
	assert.Equal(t, 1, idx.Absorb(ex(800, 1300), 100))
	assert.Equal(t, 0, idx.Absorb(ex(800, 1300), 100))
	assert.Equal(t, 0, idx.Absorb(splice.ExonKey{Chrom: "chrX", Start: 0, End: 10}, 100))
}

func TestSingleExonIndex_AbsorbBothSides(t *testing.T) {
	idx, err := NewSingleExonIndex(map[string][]splice.ExonKey{
		"chr1": tx("chr1", 960, 1150, 3900, 4200),
	})
	require.NoError(t, err)

	// 40 before plus 50 after.
	assert.Equal(t, 1, idx.Absorb(ex(1000, 1100), 100))
	// 100 before plus 100 after.
	assert.Equal(t, 0, idx.Absorb(ex(4000, 4100), 100))
	// Exactly min-utr on one side is kept.
	assert.Equal(t, 0, idx.Absorb(ex(4000, 4200), 100))
	assert.Equal(t, 1, idx.Absorb(ex(4000, 4200), 101))
}

func TestSingleExonIndex_Concurrent(t *testing.T) {
	var keys []splice.ExonKey
	for i := range 100 {
		keys = append(keys, ex(i*1000+100, i*1000+200))
	}
	idx, err := NewSingleExonIndex(map[string][]splice.ExonKey{"chr1": keys})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx.Absorb(ex(i*1000, i*1000+300), 100)
		}()
	}
	wg.Wait()

	for _, s := range idx.Exons() {
		assert.True(t, s.Removed, "%v", s.Key)
	}
}
