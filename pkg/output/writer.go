package output

import (
	"bufio"
	"io"
)

// LineWriter writes newline-terminated lines through a buffer.
// Callers must Flush before exiting, on success and failure alike.
type LineWriter struct {
	w         *bufio.Writer
	autoFlush bool
}

// NewLineWriter creates a LineWriter on w. With autoFlush set, every line
// is flushed as soon as it is written, for followed streams where readers
// downstream should not wait on a full buffer.
func NewLineWriter(w io.Writer, autoFlush bool) *LineWriter {
	return &LineWriter{
		w:         bufio.NewWriterSize(w, 64*1024),
		autoFlush: autoFlush,
	}
}

// WriteLine writes line followed by a newline.
func (l *LineWriter) WriteLine(line []byte) error {
	if _, err := l.w.Write(line); err != nil {
		return err
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	if l.autoFlush {
		return l.w.Flush()
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (l *LineWriter) Flush() error {
	return l.w.Flush()
}
