// Package alignment reads spliced alignments as exon lists, hiding
// whether the input is PSL or BED12.
package alignment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ged-lab/gimme/internal/bed"
	"github.com/ged-lab/gimme/internal/fileio"
	"github.com/ged-lab/gimme/internal/psl"
	"github.com/ged-lab/gimme/internal/splice"
)

// Format names an alignment file format.
type Format string

const (
	FormatPSL Format = "psl"
	FormatBED Format = "bed"
)

// ErrUnknownFormat is returned when an input is neither PSL nor BED12.
var ErrUnknownFormat = errors.New("unknown alignment format")

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPSL, FormatBED:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// TranscriptReader yields the exons of one alignment at a time.
type TranscriptReader interface {
	// Next returns the exons of the next alignment, in the order they
	// appear in the record. Returns nil, nil at end of input.
	Next() ([]splice.ExonKey, error)
	LineNumber() int
	Close() error
}

// DetectFormat reports the format of the file at path from the first
// data line.
func DetectFormat(path string) (Format, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return sniff(r.Reader)
}

// Open opens path as an alignment reader. An empty format is detected
// from the file name and, failing that, from the content.
func Open(path string, format Format) (TranscriptReader, error) {
	r, err := fileio.Open(path)
	if err != nil {
		return nil, err
	}
	if format == "" {
		format = formatFromName(path)
	}
	if format == "" {
		if format, err = sniff(r.Reader); err != nil {
			r.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	tr, err := NewReader(r, format)
	if err != nil {
		r.Close()
		return nil, err
	}
	return &fileReader{TranscriptReader: tr, file: r}, nil
}

// NewReader reads alignments of the given format from r.
func NewReader(r io.Reader, format Format) (TranscriptReader, error) {
	switch format {
	case FormatPSL:
		p, err := psl.NewParserFromReader(r)
		if err != nil {
			return nil, err
		}
		return &pslReader{p: p}, nil
	case FormatBED:
		p, err := bed.NewParserFromReader(r)
		if err != nil {
			return nil, err
		}
		return &bedReader{p: p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type fileReader struct {
	TranscriptReader
	file *fileio.Reader
}

func (f *fileReader) Close() error {
	f.TranscriptReader.Close()
	return f.file.Close()
}

type pslReader struct {
	p *psl.Parser
}

func (r *pslReader) Next() ([]splice.ExonKey, error) {
	rec, err := r.p.Next()
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Exons(), nil
}

func (r *pslReader) LineNumber() int { return r.p.LineNumber() }
func (r *pslReader) Close() error    { return r.p.Close() }

type bedReader struct {
	p *bed.Parser
}

func (r *bedReader) Next() ([]splice.ExonKey, error) {
	rec, err := r.p.Next()
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.Exons(), nil
}

func (r *bedReader) LineNumber() int { return r.p.LineNumber() }
func (r *bedReader) Close() error    { return r.p.Close() }

// formatFromName detects the format from a .psl or .bed extension,
// ignoring a trailing .gz.
func formatFromName(path string) Format {
	lower := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(lower) {
	case ".psl":
		return FormatPSL
	case ".bed":
		return FormatBED
	default:
		return ""
	}
}

// sniff classifies the first data line visible in the reader's buffer
// without consuming it.
func sniff(r *bufio.Reader) (Format, error) {
	buf, err := r.Peek(r.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	for _, line := range strings.Split(string(buf), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") ||
			strings.HasPrefix(line, "browser") || strings.HasPrefix(line, "psLayout") ||
			strings.HasPrefix(line, "-") {
			continue
		}
		if f := detectLine(line); f != "" {
			return f, nil
		}
		cols := strings.Fields(line)
		if _, err := strconv.Atoi(cols[0]); err != nil && len(cols) != 12 {
			// Column titles of a psLayout header.
			continue
		}
		return "", fmt.Errorf("%w: first record has %d columns", ErrUnknownFormat, len(cols))
	}
	return "", fmt.Errorf("%w: no records found", ErrUnknownFormat)
}

// detectLine applies the column-count and coordinate checks for PSL
// (21 columns, qStart <= qEnd, strand in column 9) and BED12 (12
// columns, chromStart <= chromEnd, strand in column 6).
func detectLine(line string) Format {
	cols := strings.Fields(line)
	switch len(cols) {
	case psl.Columns:
		if lessEq(cols[11], cols[12]) && isStrand(cols[8]) {
			return FormatPSL
		}
	case 12:
		if lessEq(cols[1], cols[2]) && isStrand(cols[5]) {
			return FormatBED
		}
	}
	return ""
}

func lessEq(a, b string) bool {
	x, err := strconv.Atoi(a)
	if err != nil {
		return false
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return false
	}
	return x <= y
}

func isStrand(s string) bool {
	return s == "+" || s == "-" || s == "."
}
