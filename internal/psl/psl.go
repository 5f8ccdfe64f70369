// Package psl reads PSL alignment records.
package psl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ged-lab/gimme/internal/fileio"
	"github.com/ged-lab/gimme/internal/splice"
)

// Columns is the number of fields in a PSL line.
const Columns = 21

// Record holds the fields of a PSL line that locate the alignment on
// the target genome.
type Record struct {
	Matches    int
	Strand     string
	QName      string
	QSize      int
	QStart     int
	QEnd       int
	TName      string
	TSize      int
	TStart     int
	TEnd       int
	BlockSizes []int
	QStarts    []int
	TStarts    []int
}

// Exons returns the aligned blocks as target coordinates.
func (r *Record) Exons() []splice.ExonKey {
	exons := make([]splice.ExonKey, len(r.BlockSizes))
	for i, size := range r.BlockSizes {
		exons[i] = splice.ExonKey{Chrom: r.TName, Start: r.TStarts[i], End: r.TStarts[i] + size}
	}
	return exons
}

// Parser reads PSL records. The psLayout header, if present, is skipped.
type Parser struct {
	reader     *fileio.Reader
	lineNumber int
}

// NewParser opens a PSL file. Gzipped files are supported.
func NewParser(path string) (*Parser, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open psl file: %w", err)
	}
	return &Parser{reader: r}, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	fr, err := fileio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open psl stream: %w", err)
	}
	return &Parser{reader: fr}, nil
}

// Next reads the next record. Returns nil, nil at end of input.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read psl line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || isHeader(line) {
			continue
		}
		return p.parseLine(line)
	}
}

// isHeader reports whether line belongs to the psLayout header block.
func isHeader(line string) bool {
	if strings.HasPrefix(line, "psLayout") || strings.HasPrefix(line, "-") {
		return true
	}
	first, _, _ := strings.Cut(strings.TrimSpace(line), "\t")
	first, _, _ = strings.Cut(first, " ")
	_, err := strconv.Atoi(first)
	return err != nil
}

func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != Columns {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected %d columns, found %d", Columns, len(fields)),
		}
	}

	var ints [Columns]int
	for _, i := range []int{0, 10, 11, 12, 14, 15, 16, 17} {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid integer in column %d: %s", i+1, fields[i]),
			}
		}
		ints[i] = n
	}

	r := &Record{
		Matches: ints[0],
		Strand:  fields[8],
		QName:   fields[9],
		QSize:   ints[10],
		QStart:  ints[11],
		QEnd:    ints[12],
		TName:   fields[13],
		TSize:   ints[14],
		TStart:  ints[15],
		TEnd:    ints[16],
	}

	lists := []*[]int{&r.BlockSizes, &r.QStarts, &r.TStarts}
	for j, dst := range lists {
		v, err := splitInts(fields[18+j])
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid list in column %d: %s", 19+j, fields[18+j]),
			}
		}
		if len(v) != ints[17] {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("block count %d does not match %d entries in column %d", ints[17], len(v), 19+j),
			}
		}
		*dst = v
	}
	return r, nil
}

func splitInts(s string) ([]int, error) {
	s = strings.TrimSuffix(s, ",")
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.reader.Close()
}

// ParseError reports a malformed PSL line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("psl parse error at line %d: %s", e.Line, e.Message)
}
