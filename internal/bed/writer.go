package bed

import (
	"bufio"
	"io"
	"strings"
)

// Writer writes BED12 records.
type Writer struct {
	w *bufio.Writer
}

// NewWriter creates a new BED writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes a single record.
func (bw *Writer) Write(r Record) error {
	_, err := bw.w.WriteString(strings.Join(r.Fields(), "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (bw *Writer) Flush() error {
	return bw.w.Flush()
}
