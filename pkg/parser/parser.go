package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// StdinName is the source name used for lines read from standard input.
const StdinName = "stdin"

// ReaderSource implements LineSource over any io.Reader.
// Lines may be of any length. A final line without a trailing newline is
// still returned, and a trailing carriage return is stripped.
type ReaderSource struct {
	name   string
	reader *bufio.Reader
	closer io.Closer

	lineNum int
	done    bool
}

// NewReaderSource creates a LineSource reading from r. The name is used in
// error messages and on each returned Line.
func NewReaderSource(name string, r io.Reader) *ReaderSource {
	return &ReaderSource{
		name:   name,
		reader: bufio.NewReaderSize(r, 64*1024),
	}
}

// OpenFile creates a LineSource that reads the file at path.
func OpenFile(path string) (*ReaderSource, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening input file %s: %w", path, err)
	}

	s := NewReaderSource(path, f)
	s.closer = f
	return s, nil
}

// Next returns the next line.
// Returns io.EOF when the reader has been exhausted.
func (s *ReaderSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	data, err := s.reader.ReadBytes('\n')
	if err != nil {
		if err != io.EOF {
			return nil, fmt.Errorf("reading %s: %w", s.name, err)
		}
		s.done = true
		if len(data) == 0 {
			return nil, io.EOF
		}
	}

	s.lineNum++
	return &Line{
		Raw:    trimEOL(data),
		Source: s.name,
		Num:    s.lineNum,
	}, nil
}

// Close releases resources.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

func trimEOL(data []byte) []byte {
	data = bytes.TrimSuffix(data, []byte{'\n'})
	return bytes.TrimSuffix(data, []byte{'\r'})
}
