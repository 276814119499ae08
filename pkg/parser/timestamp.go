package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/ccollicutt/logdelta/pkg/record"
)

// TimestampLayout is the only accepted timestamp encoding: RFC 3339 with
// optional fractional seconds and a mandatory UTC offset.
const TimestampLayout = time.RFC3339Nano

// ErrBadTimestamp is wrapped by every timestamp parse failure.
var ErrBadTimestamp = errors.New("invalid timestamp")

// ParseTimestamp parses an RFC 3339 timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrBadTimestamp, s, err)
	}
	return ts, nil
}

// TimestampExtractor reads and parses the timestamp field of a record.
type TimestampExtractor struct {
	field string
}

// NewTimestampExtractor creates a new timestamp extractor for the named field.
func NewTimestampExtractor(field string) *TimestampExtractor {
	return &TimestampExtractor{field: field}
}

// Field returns the name of the field the extractor reads.
func (e *TimestampExtractor) Field() string {
	return e.field
}

// Extract returns the record's timestamp.
// ok is false when the field is absent or does not hold a string; that is
// not an error. A string that is not a valid timestamp is an error.
func (e *TimestampExtractor) Extract(rec *record.Record) (ts time.Time, ok bool, err error) {
	value, ok, err := rec.String(e.field)
	if err != nil || !ok {
		return time.Time{}, false, err
	}

	ts, err = ParseTimestamp(value)
	if err != nil {
		return time.Time{}, false, err
	}
	return ts, true, nil
}
