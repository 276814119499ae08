package annotator

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the annotator wraps exactly one of
// these, so callers can classify it with errors.Is.
var (
	// ErrIO means the input could not be opened or read, or output could
	// not be written.
	ErrIO = errors.New("i/o failure")

	// ErrInvalidJSON means a line is not well-formed JSON.
	ErrInvalidJSON = errors.New("invalid JSON")

	// ErrInvalidTimestamp means the time field holds a string that is not
	// an RFC 3339 timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrSerialization means a record could not be rendered back to JSON.
	ErrSerialization = errors.New("serialization failure")
)

// LineError reports a failure while processing one input line.
type LineError struct {
	// Source is the input the line came from.
	Source string

	// Line is the 1-based line number, or 0 when no line was involved.
	Line int

	// Kind is one of the Err* sentinels.
	Kind error

	// Err is the underlying cause.
	Err error
}

func (e *LineError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s:%d: %s: %v", e.Source, e.Line, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *LineError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func newLineError(source string, line int, kind, err error) *LineError {
	return &LineError{Source: source, Line: line, Kind: kind, Err: err}
}
