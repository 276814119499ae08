package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "logdelta: %d lines read, %d written, %d timestamped\n",
		report.Summary.LinesRead,
		report.Summary.LinesWritten,
		report.Summary.Timestamped)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	var b strings.Builder

	b.WriteString("=== logdelta summary ===\n")
	fmt.Fprintf(&b, "Lines read:    %d\n", report.Summary.LinesRead)
	fmt.Fprintf(&b, "Lines written: %d\n", report.Summary.LinesWritten)
	fmt.Fprintf(&b, "Timestamped:   %d\n", report.Summary.Timestamped)
	fmt.Fprintf(&b, "Inserted:      %d\n", report.Summary.Inserted)
	fmt.Fprintf(&b, "Injected:      %d\n", report.Summary.Injected)

	md := report.Metadata
	if md.FirstTimestamp != nil {
		fmt.Fprintf(&b, "First:         %s\n", md.FirstTimestamp.Format(time.RFC3339Nano))
		fmt.Fprintf(&b, "Last:          %s\n", md.LastTimestamp.Format(time.RFC3339Nano))
		fmt.Fprintf(&b, "Span:          %dms\n", md.SpanMillis)
	}

	if f.opts.Verbose {
		modes := "none"
		if len(md.Modes) > 0 {
			modes = strings.Join(md.Modes, ", ")
		}
		b.WriteString("---\n")
		fmt.Fprintf(&b, "Source:        %s\n", md.Source)
		fmt.Fprintf(&b, "Time field:    %s\n", md.TimeField)
		fmt.Fprintf(&b, "Modes:         %s\n", modes)
		fmt.Fprintf(&b, "Duration:      %s\n", md.Duration.Round(time.Millisecond))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
