package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/panbanda/cyclo/pkg/models"
)

// RecordWriter is the canonical records sink: one line per function,
// `<declarationLine> <name> <complexity>`, appended as functions are
// discovered. The sink is opened exactly once with its prior contents
// truncated, and Close releases it exactly once on every exit path, so
// two runs over the same input leave byte-identical files.
type RecordWriter struct {
	w      *bufio.Writer
	file   *os.File
	closed bool
}

// NewRecordWriter opens the sink at path, truncating any prior contents.
// A path of "-" (or empty) writes to standard output instead.
func NewRecordWriter(path string) (*RecordWriter, error) {
	if path == "" || path == "-" {
		return &RecordWriter{w: bufio.NewWriter(os.Stdout)}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record sink: %w", err)
	}
	return &RecordWriter{w: bufio.NewWriter(f), file: f}, nil
}

// NewRecordWriterTo wraps an existing writer. Used by tests and callers
// that manage the underlying handle themselves.
func NewRecordWriterTo(w io.Writer) *RecordWriter {
	return &RecordWriter{w: bufio.NewWriter(w)}
}

// Write appends one record line.
func (r *RecordWriter) Write(rec models.Record) error {
	if r.closed {
		return fmt.Errorf("record sink already closed")
	}
	_, err := fmt.Fprintf(r.w, "%d %s %d\n", rec.Line, rec.Name, rec.Complexity)
	return err
}

// Close flushes and releases the sink. Safe to call more than once; only
// the first call does anything, so defer-and-explicit-close both work.
func (r *RecordWriter) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.w.Flush()
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
