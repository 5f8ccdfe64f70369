package assemble

import (
	"fmt"
	"testing"

	"github.com/ged-lab/gimme/internal/splice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeItems returns n three-exon loci, 10kb apart.
func makeItems(n int) <-chan WorkItem {
	ch := make(chan WorkItem, n)
	for i := range n {
		off := i * 10000
		g := splice.NewGraph()
		g.AddEdge(ex(off+100, off+200), ex(off+500, off+600))
		g.AddEdge(ex(off+500, off+600), ex(off+900, off+1000))
		ch <- WorkItem{
			Seq:   i,
			Locus: Locus{Clusters: []int{i + 1}, Chrom: "chr1", Start: off + 100, End: off + 1000, Graph: g},
		}
	}
	close(ch)
	return ch
}

func emptySingles(t *testing.T) *SingleExonIndex {
	t.Helper()
	idx, err := NewSingleExonIndex(nil)
	require.NoError(t, err)
	return idx
}

func TestParallelBuild_OrderPreservation(t *testing.T) {
	s := NewSession(DefaultConfig())

	results := s.ParallelBuild(makeItems(200), emptySingles(t), 8)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 200)
	for i, seq := range collected {
		assert.Equal(t, i, seq, "result %d out of order", i)
	}
}

func TestParallelBuild_SingleWorker(t *testing.T) {
	s := NewSession(DefaultConfig())

	results := s.ParallelBuild(makeItems(50), emptySingles(t), 1)

	var collected []int
	err := OrderedCollect(results, func(r WorkResult) error {
		collected = append(collected, r.Seq)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, collected, 50)
	for i, seq := range collected {
		assert.Equal(t, i, seq)
	}
}

func TestParallelBuild_ProducesModels(t *testing.T) {
	s := NewSession(DefaultConfig())

	results := s.ParallelBuild(makeItems(5), emptySingles(t), 2)

	err := OrderedCollect(results, func(r WorkResult) error {
		require.NoError(t, r.Err)
		require.Len(t, r.Models, 1)
		m := r.Models[0]
		assert.Equal(t, splice.StrandUnknown, m.Strand)
		assert.Equal(t, splice.ModeMaximal, m.Mode)
		off := r.Seq * 10000
		assert.Equal(t, [][]splice.ExonKey{
			{ex(off+100, off+200), ex(off+500, off+600), ex(off+900, off+1000)},
		}, m.Paths)
		return nil
	})
	require.NoError(t, err)
}

func TestParallelBuild_EmptyInput(t *testing.T) {
	s := NewSession(DefaultConfig())

	ch := make(chan WorkItem)
	close(ch)
	results := s.ParallelBuild(ch, emptySingles(t), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOrderedCollect_EarlyError(t *testing.T) {
	s := NewSession(DefaultConfig())

	results := s.ParallelBuild(makeItems(100), emptySingles(t), 4)

	count := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		count++
		if count == 5 {
			return fmt.Errorf("stop at 5")
		}
		return nil
	})
	require.Error(t, err)
	assert.Equal(t, 5, count)
}
