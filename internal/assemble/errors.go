package assemble

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTranscript is returned for alignments whose exon list
	// is empty, spans chromosomes, or is not sorted and non-overlapping.
	ErrMalformedTranscript = errors.New("malformed transcript")

	// ErrPartition is returned when introns are not partitioned into
	// exactly one cluster each.
	ErrPartition = errors.New("intron cluster partition violated")
)

// LocusError reports a failure while building the gene models of one
// locus. Other loci are unaffected.
type LocusError struct {
	Chrom string
	Start int
	End   int
	Exons int
	Err   error
}

func (e *LocusError) Error() string {
	return fmt.Sprintf("locus %s:%d-%d (%d exons): %v", e.Chrom, e.Start, e.End, e.Exons, e.Err)
}

func (e *LocusError) Unwrap() error {
	return e.Err
}
