// Package splice provides exon graphs and isoform enumeration over them.
package splice

import (
	"cmp"
	"fmt"
)

// ExonKey identifies an exon by its genomic coordinates.
// Start and End are 0-based, half-open.
type ExonKey struct {
	Chrom string
	Start int
	End   int
}

// Len returns the number of bases covered by the exon.
func (k ExonKey) Len() int {
	return k.End - k.Start
}

// String formats the key as chrom:start-end.
func (k ExonKey) String() string {
	return fmt.Sprintf("%s:%d-%d", k.Chrom, k.Start, k.End)
}

// Compare orders keys by chromosome, start, then end.
func Compare(a, b ExonKey) int {
	if c := cmp.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// CompareByEnd orders keys by chromosome, end, then start.
func CompareByEnd(a, b ExonKey) int {
	if c := cmp.Compare(a.Chrom, b.Chrom); c != 0 {
		return c
	}
	if c := cmp.Compare(a.End, b.End); c != 0 {
		return c
	}
	return cmp.Compare(a.Start, b.Start)
}

// Terminal records whether an exon was observed as the first or last
// block of a transcript.
type Terminal uint8

const (
	TerminalNone Terminal = iota
	TerminalLeft
	TerminalRight
)

func (t Terminal) String() string {
	switch t {
	case TerminalLeft:
		return "left"
	case TerminalRight:
		return "right"
	default:
		return "none"
	}
}

// Strand is the transcriptional strand of a gene model.
type Strand byte

const (
	StrandPlus    Strand = '+'
	StrandMinus   Strand = '-'
	StrandUnknown Strand = '.'
)

func (s Strand) String() string {
	switch s {
	case StrandPlus, StrandMinus:
		return string(rune(s))
	default:
		return "."
	}
}

// Edge is a directed connection between two exons.
type Edge struct {
	From ExonKey
	To   ExonKey
}

func compareEdges(a, b Edge) int {
	if c := Compare(a.From, b.From); c != 0 {
		return c
	}
	return Compare(a.To, b.To)
}

// Length returns the summed exon length of a path.
func Length(path []ExonKey) int {
	n := 0
	for _, e := range path {
		n += e.Len()
	}
	return n
}
