// Package fileio opens plain or gzip-compressed text inputs.
package fileio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// Reader is a buffered reader over a possibly compressed file.
type Reader struct {
	*bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
}

// Open opens path for reading. Gzip input is detected from its magic
// bytes rather than the file name. A path of "-" reads standard input.
func Open(path string) (*Reader, error) {
	if path == "-" {
		return NewReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r.file = file
	return r, nil
}

// NewReader wraps r, decompressing it if it starts with the gzip magic
// number (0x1f, 0x8b).
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		return &Reader{Reader: bufio.NewReader(gz), gzipReader: gz}, nil
	}
	return &Reader{Reader: br}, nil
}

// Close releases the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
