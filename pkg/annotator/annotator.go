// Package annotator computes elapsed-time deltas between NDJSON log records
// and writes them back out, either injected into each record or as
// separate synthetic records.
package annotator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ccollicutt/logdelta/pkg/parser"
	"github.com/ccollicutt/logdelta/pkg/record"
)

// Field names written by the annotator.
const (
	FieldSincePrevious = "millis_since_previous_line"
	FieldSinceStart    = "millis_since_start"
)

// DefaultTimeField is the field read for timestamps when none is configured.
const DefaultTimeField = "time"

// Options selects the time field and the output modes. The four mode flags
// are independent; any combination, including none, is valid.
type Options struct {
	TimeField string

	// InsertSincePrevious emits a synthetic line carrying FieldSincePrevious.
	InsertSincePrevious bool
	// InsertSinceStart emits a synthetic line carrying FieldSinceStart.
	InsertSinceStart bool
	// InjectSincePrevious adds FieldSincePrevious to the record itself.
	InjectSincePrevious bool
	// InjectSinceStart adds FieldSinceStart to the record itself.
	InjectSinceStart bool
}

func (o Options) inserts() bool {
	return o.InsertSincePrevious || o.InsertSinceStart
}

// LineWriter receives output lines, one JSON document per call, without
// the trailing newline.
type LineWriter interface {
	WriteLine(line []byte) error
}

// Stats counts what happened during a run.
type Stats struct {
	LinesRead    int
	LinesWritten int
	Timestamped  int
	Inserted     int
	Injected     int

	// First and Last are the first and most recent valid timestamps; zero
	// when no record carried one.
	First time.Time
	Last  time.Time
}

// Annotator processes one NDJSON stream. It is not safe for concurrent use.
type Annotator struct {
	opts      Options
	extractor *parser.TimestampExtractor
	out       LineWriter
	logger    *slog.Logger

	state State
	stats Stats
}

// Option configures annotator behavior.
type Option func(*Annotator)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Annotator) {
		a.logger = l
	}
}

// New creates an annotator writing to out.
func New(opts Options, out LineWriter, options ...Option) *Annotator {
	if opts.TimeField == "" {
		opts.TimeField = DefaultTimeField
	}

	a := &Annotator{
		opts:      opts,
		extractor: parser.NewTimestampExtractor(opts.TimeField),
		out:       out,
		logger:    slog.Default(),
	}
	for _, o := range options {
		o(a)
	}
	return a
}

// Run processes every line of src in order and stops at the first error.
// Lines already written stay written. Context cancellation is returned
// as-is so callers can tell a requested stop from a failure.
func (a *Annotator) Run(ctx context.Context, src parser.LineSource) error {
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return newLineError("input", a.stats.LinesRead+1, ErrIO, err)
		}

		if err := a.Process(line); err != nil {
			return err
		}
	}

	a.logger.Debug("stream finished",
		"lines_read", a.stats.LinesRead,
		"lines_written", a.stats.LinesWritten,
		"timestamped", a.stats.Timestamped)
	return nil
}

// Process annotates a single line and writes its output: an optional
// synthetic delta line followed by the original record.
func (a *Annotator) Process(line *parser.Line) error {
	a.stats.LinesRead++

	rec, err := record.Parse(line.Raw)
	if err != nil {
		return newLineError(line.Source, line.Num, ErrInvalidJSON, err)
	}

	ts, ok, err := a.extractor.Extract(rec)
	if err != nil {
		if errors.Is(err, parser.ErrBadTimestamp) {
			return newLineError(line.Source, line.Num, ErrInvalidTimestamp, err)
		}
		return newLineError(line.Source, line.Num, ErrInvalidJSON, err)
	}

	if ok {
		if err := a.annotate(line, rec, ts); err != nil {
			return err
		}
	}

	return a.write(line, rec)
}

// annotate advances the stream state and applies inject and insert modes.
func (a *Annotator) annotate(line *parser.Line, rec *record.Record, ts time.Time) error {
	if a.stats.Timestamped == 0 {
		a.stats.First = ts
	}
	a.stats.Timestamped++
	a.stats.Last = ts

	delta, ok := a.state.Observe(ts)
	if !ok {
		return nil
	}

	if a.opts.InjectSincePrevious || a.opts.InjectSinceStart {
		if err := inject(rec, delta, a.opts.InjectSincePrevious, a.opts.InjectSinceStart); err != nil {
			return newLineError(line.Source, line.Num, ErrSerialization, err)
		}
		a.stats.Injected++
	}

	if a.opts.inserts() {
		synthetic := record.NewObject()
		if err := inject(synthetic, delta, a.opts.InsertSincePrevious, a.opts.InsertSinceStart); err != nil {
			return newLineError(line.Source, line.Num, ErrSerialization, err)
		}
		if err := a.write(line, synthetic); err != nil {
			return err
		}
		a.stats.Inserted++
	}

	return nil
}

func inject(rec *record.Record, d Delta, sincePrevious, sinceStart bool) error {
	if sincePrevious {
		if err := rec.SetInt(FieldSincePrevious, d.SincePrevious); err != nil {
			return err
		}
	}
	if sinceStart {
		if err := rec.SetInt(FieldSinceStart, d.SinceStart); err != nil {
			return err
		}
	}
	return nil
}

func (a *Annotator) write(line *parser.Line, rec *record.Record) error {
	data, err := rec.MarshalJSON()
	if err != nil {
		return newLineError(line.Source, line.Num, ErrSerialization, err)
	}
	if err := a.out.WriteLine(data); err != nil {
		return newLineError(line.Source, line.Num, ErrIO, err)
	}
	a.stats.LinesWritten++
	return nil
}

// State returns a copy of the current stream state.
func (a *Annotator) State() State {
	return a.state
}

// Stats returns the counters accumulated so far.
func (a *Annotator) Stats() Stats {
	return a.stats
}

// Options returns the options in effect, with defaults applied.
func (a *Annotator) Options() Options {
	return a.opts
}
