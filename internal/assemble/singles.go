package assemble

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/biogo/store/interval"

	"github.com/ged-lab/gimme/internal/splice"
)

// SingleExon is a merged single-exon interval. Removed is set when a
// multi-exon gene model absorbs it.
type SingleExon struct {
	Key     splice.ExonKey
	Removed bool

	id uintptr
}

// Overlap implements interval.IntOverlapper with half-open coordinates.
func (s *SingleExon) Overlap(b interval.IntRange) bool {
	return s.Key.End > b.Start && s.Key.Start < b.End
}

// ID implements interval.IntInterface.
func (s *SingleExon) ID() uintptr { return s.id }

// Range implements interval.IntInterface.
func (s *SingleExon) Range() interval.IntRange {
	return interval.IntRange{Start: s.Key.Start, End: s.Key.End}
}

type query struct {
	start, end int
}

func (q query) Overlap(b interval.IntRange) bool {
	return q.end > b.Start && q.start < b.End
}

// MergeSingleExons merges overlapping single exons per chromosome.
// An exon contained in the current interval is dropped; one extending
// past it lengthens the interval.
func MergeSingleExons(singles map[string][]splice.ExonKey) map[string][]splice.ExonKey {
	merged := make(map[string][]splice.ExonKey, len(singles))
	for chrom, exons := range singles {
		if len(exons) == 0 {
			continue
		}
		sorted := slices.Clone(exons)
		slices.SortStableFunc(sorted, splice.Compare)

		var out []splice.ExonKey
		curr := sorted[0]
		for _, next := range sorted[1:] {
			if next.Start <= curr.End {
				curr.End = max(curr.End, next.End)
				continue
			}
			out = append(out, curr)
			curr = next
		}
		merged[chrom] = append(out, curr)
	}
	return merged
}

// SingleExonIndex is a per-chromosome interval index of single exons.
// Absorption on one chromosome is serialized; chromosomes proceed
// independently.
type SingleExonIndex struct {
	trees map[string]*interval.IntTree
	exons map[string][]*SingleExon
	locks map[string]*sync.Mutex
}

// NewSingleExonIndex indexes merged single exons.
func NewSingleExonIndex(merged map[string][]splice.ExonKey) (*SingleExonIndex, error) {
	idx := &SingleExonIndex{
		trees: make(map[string]*interval.IntTree, len(merged)),
		exons: make(map[string][]*SingleExon, len(merged)),
		locks: make(map[string]*sync.Mutex, len(merged)),
	}
	var id uintptr
	for chrom, keys := range merged {
		t := &interval.IntTree{}
		for _, k := range keys {
			id++
			s := &SingleExon{Key: k, id: id}
			if err := t.Insert(s, true); err != nil {
				return nil, fmt.Errorf("index single exon %v: %w", k, err)
			}
			idx.exons[chrom] = append(idx.exons[chrom], s)
		}
		t.AdjustRanges()
		idx.trees[chrom] = t
		idx.locks[chrom] = &sync.Mutex{}
	}
	return idx, nil
}

// Absorb marks single exons made redundant by exon as removed and
// returns how many were removed. An overlapping single exon is removed
// when it is contained in exon, or when the bases it adds beyond exon
// total less than minUTR. Others are left alone.
func (idx *SingleExonIndex) Absorb(exon splice.ExonKey, minUTR int) int {
	t, ok := idx.trees[exon.Chrom]
	if !ok {
		return 0
	}
	mu := idx.locks[exon.Chrom]
	mu.Lock()
	defer mu.Unlock()

	removed := 0
	unmergable := make(map[uintptr]bool)
	for {
		var overlaps []*SingleExon
		t.DoMatching(func(iv interval.IntInterface) bool {
			s := iv.(*SingleExon)
			if !s.Removed && !unmergable[s.id] {
				overlaps = append(overlaps, s)
			}
			return false
		}, query{start: exon.Start, end: exon.End})
		if len(overlaps) == 0 {
			return removed
		}

		for _, s := range overlaps {
			before := max(exon.Start-s.Key.Start, 0)
			after := max(s.Key.End-exon.End, 0)
			if before+after < minUTR || (before == 0 && after == 0) {
				s.Removed = true
				removed++
			} else {
				unmergable[s.id] = true
			}
		}
	}
}

// Exons returns every indexed single exon ordered by coordinate.
func (idx *SingleExonIndex) Exons() []*SingleExon {
	var out []*SingleExon
	for _, chrom := range slices.Sorted(maps.Keys(idx.exons)) {
		out = append(out, idx.exons[chrom]...)
	}
	return out
}
