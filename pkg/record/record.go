// Package record provides order-preserving access to a single NDJSON value.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/ast"
)

// ErrNotObject is returned when a field operation targets a value that is
// not a JSON object.
var ErrNotObject = errors.New("record is not a JSON object")

// Record is one parsed JSON value. Object keys keep their input order and
// untouched values are re-emitted as they were read, so numbers never lose
// precision on the way through.
type Record struct {
	node ast.Node

	// raw is the parsed input, returned by MarshalJSON until a field is set.
	raw   []byte
	dirty bool
}

// Parse parses a single line of JSON text. Trailing garbage, truncated
// values, invalid UTF-8 and empty input are all rejected.
func Parse(line []byte) (*Record, error) {
	if !utf8.Valid(line) {
		return nil, errors.New("line is not valid UTF-8")
	}
	if !sonic.Valid(line) {
		return nil, errors.New("not a valid JSON value")
	}

	node, err := sonic.GetFromString(string(line))
	if err != nil {
		return nil, err
	}

	return &Record{node: node, raw: line}, nil
}

// NewObject returns an empty JSON object record.
func NewObject() *Record {
	return &Record{node: ast.NewObject(nil), dirty: true}
}

// IsObject reports whether the record is a JSON object.
func (r *Record) IsObject() bool {
	return r.node.TypeSafe() == ast.V_OBJECT
}

// Has reports whether the record is an object containing the named field.
func (r *Record) Has(name string) bool {
	_, ok := r.field(name)
	return ok
}

// String returns the value of the named field when it holds a JSON string.
// ok is false when the record is not an object, the field is absent, or
// the field holds any other JSON type.
func (r *Record) String(name string) (value string, ok bool, err error) {
	n, found := r.field(name)
	if !found || n.TypeSafe() != ast.V_STRING {
		return "", false, nil
	}

	s, err := n.StrictString()
	if err != nil {
		return "", false, fmt.Errorf("reading field %q: %w", name, err)
	}
	return s, true, nil
}

// SetInt sets the named field to an integer. An existing field keeps its
// position and has its value replaced; a new field is appended. Duplicate
// keys are collapsed into the first occurrence.
func (r *Record) SetInt(name string, v int64) error {
	if !r.IsObject() {
		return ErrNotObject
	}

	value := ast.NewNumber(strconv.FormatInt(v, 10))
	if r.count(name) > 1 {
		if err := r.replaceAll(name, value); err != nil {
			return fmt.Errorf("setting field %q: %w", name, err)
		}
	} else if _, err := r.node.Set(name, value); err != nil {
		return fmt.Errorf("setting field %q: %w", name, err)
	}
	r.dirty = true
	return nil
}

// replaceAll rebuilds the object with a single name field holding value,
// placed where the first occurrence was.
func (r *Record) replaceAll(name string, value ast.Node) error {
	var (
		pairs  []ast.Pair
		placed bool
	)
	err := r.node.ForEach(func(path ast.Sequence, n *ast.Node) bool {
		key := *path.Key
		switch {
		case key != name:
			pairs = append(pairs, ast.NewPair(key, *n))
		case !placed:
			pairs = append(pairs, ast.NewPair(key, value))
			placed = true
		}
		return true
	})
	if err != nil {
		return err
	}

	r.node = ast.NewObject(pairs)
	return nil
}

// MarshalJSON renders the record as JSON. A record that was never modified
// is returned exactly as it was read.
func (r *Record) MarshalJSON() ([]byte, error) {
	if !r.dirty {
		return r.raw, nil
	}
	return r.node.MarshalJSON()
}

// field returns the named field. When a key repeats, the last occurrence
// wins.
func (r *Record) field(name string) (*ast.Node, bool) {
	if !r.IsObject() {
		return nil, false
	}

	var found *ast.Node
	err := r.node.ForEach(func(path ast.Sequence, n *ast.Node) bool {
		if path.Key != nil && *path.Key == name {
			found = n
		}
		return true
	})
	if err != nil || found == nil || !found.Exists() {
		return nil, false
	}
	return found, true
}

func (r *Record) count(name string) int {
	var c int
	_ = r.node.ForEach(func(path ast.Sequence, _ *ast.Node) bool {
		if path.Key != nil && *path.Key == name {
			c++
		}
		return true
	})
	return c
}
