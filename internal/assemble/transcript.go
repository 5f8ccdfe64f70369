package assemble

import (
	"fmt"

	"github.com/ged-lab/gimme/internal/splice"
)

// validateExons checks that exons form one well-formed alignment.
func validateExons(exons []splice.ExonKey) error {
	if len(exons) == 0 {
		return fmt.Errorf("%w: no exons", ErrMalformedTranscript)
	}
	chrom := exons[0].Chrom
	for i, e := range exons {
		if e.Chrom != chrom {
			return fmt.Errorf("%w: exon %v not on %s", ErrMalformedTranscript, e, chrom)
		}
		if e.Start < 0 || e.Start >= e.End {
			return fmt.Errorf("%w: exon %v has invalid coordinates", ErrMalformedTranscript, e)
		}
		if i > 0 && e.Start < exons[i-1].End {
			return fmt.Errorf("%w: exon %v overlaps or precedes %v", ErrMalformedTranscript, e, exons[i-1])
		}
	}
	return nil
}

// DeleteGap joins consecutive exons separated by at most gapSize bases,
// filling small alignment gaps from indels.
func DeleteGap(exons []splice.ExonKey, gapSize int) []splice.ExonKey {
	if len(exons) == 0 {
		return nil
	}
	out := make([]splice.ExonKey, 0, len(exons))
	curr := exons[0]
	for _, next := range exons[1:] {
		if next.Start-curr.End <= gapSize {
			curr.End = max(curr.End, next.End)
			continue
		}
		out = append(out, curr)
		curr = next
	}
	return append(out, curr)
}

// SplitLargeIntrons breaks exons into groups wherever the intron between
// two consecutive exons is longer than maxIntron. A negative maxIntron
// disables splitting.
func SplitLargeIntrons(exons []splice.ExonKey, maxIntron int) [][]splice.ExonKey {
	if len(exons) == 0 {
		return nil
	}
	if maxIntron < 0 {
		return [][]splice.ExonKey{exons}
	}
	var (
		groups [][]splice.ExonKey
		start  int
	)
	for i := 1; i < len(exons); i++ {
		if exons[i].Start-exons[i-1].End > maxIntron {
			groups = append(groups, exons[start:i])
			start = i
		}
	}
	return append(groups, exons[start:])
}
