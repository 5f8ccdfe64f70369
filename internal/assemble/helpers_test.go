package assemble

import "github.com/ged-lab/gimme/internal/splice"

// tx builds an exon list from start/end pairs.
func tx(chrom string, coords ...int) []splice.ExonKey {
	exons := make([]splice.ExonKey, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		exons = append(exons, splice.ExonKey{Chrom: chrom, Start: coords[i], End: coords[i+1]})
	}
	return exons
}

func ex(start, end int) splice.ExonKey {
	return splice.ExonKey{Chrom: "chr1", Start: start, End: end}
}
