// Package genome holds reference sequences in memory for splice-site lookups.
package genome

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/ged-lab/gimme/internal/fileio"
)

// Genome maps chromosome names to their upper-cased sequence.
type Genome struct {
	seqs map[string][]byte
}

// Load reads a FASTA file, plain or gzipped.
func Load(path string) (*Genome, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer r.Close()

	g, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}
	return g, nil
}

// Read parses FASTA records from r.
func Read(r io.Reader) (*Genome, error) {
	g := &Genome{seqs: make(map[string][]byte)}
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		g.seqs[s.Name()] = bytes.ToUpper(alphabet.LettersToBytes(s.Seq))
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return g, nil
}

// Fetch returns the bases in [start, end) of chrom.
func (g *Genome) Fetch(chrom string, start, end int) (string, error) {
	s, ok := g.seqs[chrom]
	if !ok {
		return "", fmt.Errorf("unknown chromosome %q", chrom)
	}
	if start < 0 || end > len(s) || start > end {
		return "", fmt.Errorf("range %s:%d-%d outside sequence of length %d", chrom, start, end, len(s))
	}
	return string(s[start:end]), nil
}

// ReverseComplement implements the sequence accessor used for strand
// detection.
func (g *Genome) ReverseComplement(s string) string {
	return ReverseComplement(s)
}

// Len returns the length of chrom, or 0 if it is unknown.
func (g *Genome) Len(chrom string) int {
	return len(g.seqs[chrom])
}

// Chromosomes returns a sorted list of sequence names.
func (g *Genome) Chromosomes() []string {
	names := make([]string, 0, len(g.seqs))
	for name := range g.seqs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ReverseComplement returns the reverse complement of a DNA string.
func ReverseComplement(s string) string {
	seq := linear.NewSeq("", alphabet.BytesToLetters([]byte(s)), alphabet.DNA)
	seq.RevComp()
	return string(alphabet.LettersToBytes(seq.Seq))
}
