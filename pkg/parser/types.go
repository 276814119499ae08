// Package parser provides NDJSON line sources and timestamp extraction.
package parser

// Line is a single raw input line with its position in the stream.
type Line struct {
	// Raw is the line content without the trailing newline.
	Raw []byte

	// Source names where the line came from (a file path or "stdin").
	Source string

	// Num is the 1-based line number within the source.
	Num int
}
