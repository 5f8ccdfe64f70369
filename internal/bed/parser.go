package bed

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ged-lab/gimme/internal/fileio"
)

// Parser reads BED12 records.
type Parser struct {
	reader     *fileio.Reader
	lineNumber int
}

// NewParser opens a BED file. Gzipped files are supported.
func NewParser(path string) (*Parser, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bed file: %w", err)
	}
	return &Parser{reader: r}, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	fr, err := fileio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open bed stream: %w", err)
	}
	return &Parser{reader: fr}, nil
}

// Next reads the next record. Returns nil, nil at end of input.
// Blank, comment, track and browser lines are skipped.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read bed line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		return p.parseLine(line)
	}
}

func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 12 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 12 columns, found %d", len(fields)),
		}
	}

	ints := make([]int, 0, 5)
	for _, i := range []int{1, 2, 4, 6, 7} {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("invalid integer in column %d: %s", i+1, fields[i]),
			}
		}
		ints = append(ints, n)
	}

	count, err := strconv.Atoi(fields[9])
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: "invalid block count: " + fields[9]}
	}
	sizes, err := splitInts(fields[10])
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: "invalid block sizes: " + fields[10]}
	}
	starts, err := splitInts(fields[11])
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: "invalid block starts: " + fields[11]}
	}
	if len(sizes) != count || len(starts) != count {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("block count %d does not match %d sizes and %d starts", count, len(sizes), len(starts)),
		}
	}

	return &Record{
		Chrom:       fields[0],
		ChromStart:  ints[0],
		ChromEnd:    ints[1],
		Name:        fields[3],
		Score:       ints[2],
		Strand:      fields[5],
		ThickStart:  ints[3],
		ThickEnd:    ints[4],
		ItemRGB:     fields[8],
		BlockSizes:  sizes,
		BlockStarts: starts,
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	return p.reader.Close()
}

// ParseError reports a malformed BED line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bed parse error at line %d: %s", e.Line, e.Message)
}
