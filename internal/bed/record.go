// Package bed reads and writes BED12 gene models.
package bed

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ged-lab/gimme/internal/splice"
)

// Score and color written for every gene model.
const (
	DefaultScore = 1000
	DefaultRGB   = "0,0,0"
)

// Record is one BED12 line. Coordinates are 0-based, half-open.
type Record struct {
	Chrom       string
	ChromStart  int
	ChromEnd    int
	Name        string
	Score       int
	Strand      string
	ThickStart  int
	ThickEnd    int
	ItemRGB     string
	BlockSizes  []int
	BlockStarts []int // relative to ChromStart
}

// NewRecord builds a gene model record from the exons of one transcript.
// Exons are sorted by start and end; the name is chrom:geneID.transcriptID.
func NewRecord(chrom string, exons []splice.ExonKey, strand splice.Strand, geneID, transcriptID int) Record {
	sorted := slices.Clone(exons)
	slices.SortFunc(sorted, splice.Compare)

	r := Record{
		Chrom:   chrom,
		Name:    fmt.Sprintf("%s:%d.%d", chrom, geneID, transcriptID),
		Score:   DefaultScore,
		Strand:  strand.String(),
		ItemRGB: DefaultRGB,
	}
	if len(sorted) == 0 {
		return r
	}
	r.ChromStart = sorted[0].Start
	r.ChromEnd = sorted[len(sorted)-1].End
	r.ThickStart = r.ChromStart
	r.ThickEnd = r.ChromEnd
	for _, e := range sorted {
		r.BlockSizes = append(r.BlockSizes, e.Len())
		r.BlockStarts = append(r.BlockStarts, e.Start-r.ChromStart)
	}
	return r
}

// BlockCount returns the number of exon blocks.
func (r Record) BlockCount() int {
	return len(r.BlockSizes)
}

// Exons returns the blocks as absolute exon coordinates.
func (r Record) Exons() []splice.ExonKey {
	exons := make([]splice.ExonKey, len(r.BlockSizes))
	for i, size := range r.BlockSizes {
		start := r.ChromStart + r.BlockStarts[i]
		exons[i] = splice.ExonKey{Chrom: r.Chrom, Start: start, End: start + size}
	}
	return exons
}

// GeneID returns the gene part of a chrom:gene.transcript name, or the
// whole name if it has no transcript suffix.
func (r Record) GeneID() string {
	if i := strings.LastIndexByte(r.Name, '.'); i > 0 {
		return r.Name[:i]
	}
	return r.Name
}

// Fields returns the twelve BED columns.
func (r Record) Fields() []string {
	return []string{
		r.Chrom,
		strconv.Itoa(r.ChromStart),
		strconv.Itoa(r.ChromEnd),
		r.Name,
		strconv.Itoa(r.Score),
		r.Strand,
		strconv.Itoa(r.ThickStart),
		strconv.Itoa(r.ThickEnd),
		r.ItemRGB,
		strconv.Itoa(r.BlockCount()),
		joinInts(r.BlockSizes),
		joinInts(r.BlockStarts),
	}
}

func (r Record) String() string {
	return strings.Join(r.Fields(), "\t")
}

func joinInts(v []int) string {
	s := make([]string, len(v))
	for i, n := range v {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

// splitInts parses a comma separated list, ignoring a trailing comma.
func splitInts(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
