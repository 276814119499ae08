// Package output writes annotated NDJSON and renders run summaries.
package output

import (
	"time"

	"github.com/ccollicutt/logdelta/pkg/annotator"
)

// Report is the summary of one annotation run.
type Report struct {
	// Summary provides aggregate counters.
	Summary Summary `json:"summary"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counters.
type Summary struct {
	// LinesRead is the number of input lines processed.
	LinesRead int `json:"lines_read"`

	// LinesWritten counts output lines, synthetic ones included.
	LinesWritten int `json:"lines_written"`

	// Timestamped is the number of records carrying a valid timestamp.
	Timestamped int `json:"timestamped"`

	// Inserted is the number of synthetic delta lines emitted.
	Inserted int `json:"inserted"`

	// Injected is the number of records that had delta fields added.
	Injected int `json:"injected"`
}

// Metadata provides context about the run.
type Metadata struct {
	// Source is the input file path, or "stdin".
	Source string `json:"source"`

	// TimeField is the field timestamps were read from.
	TimeField string `json:"time_field"`

	// Modes lists the enabled output modes by flag name.
	Modes []string `json:"modes"`

	// FirstTimestamp and LastTimestamp bound the timestamps seen, if any.
	FirstTimestamp *time.Time `json:"first_timestamp,omitempty"`
	LastTimestamp  *time.Time `json:"last_timestamp,omitempty"`

	// SpanMillis is LastTimestamp minus FirstTimestamp.
	SpanMillis int64 `json:"span_millis"`

	// StartedAt is when processing began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long processing took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from the annotator's counters and options.
func NewReport(stats annotator.Stats, opts annotator.Options, source string, startedAt, finishedAt time.Time) *Report {
	report := &Report{
		Summary: Summary{
			LinesRead:    stats.LinesRead,
			LinesWritten: stats.LinesWritten,
			Timestamped:  stats.Timestamped,
			Inserted:     stats.Inserted,
			Injected:     stats.Injected,
		},
		Metadata: Metadata{
			Source:    source,
			TimeField: opts.TimeField,
			Modes:     Modes(opts),
			StartedAt: startedAt,
			Duration:  finishedAt.Sub(startedAt),
		},
	}

	if stats.Timestamped > 0 {
		first, last := stats.First, stats.Last
		report.Metadata.FirstTimestamp = &first
		report.Metadata.LastTimestamp = &last
		report.Metadata.SpanMillis = last.Sub(first).Milliseconds()
	}

	return report
}

// Modes returns the enabled modes by their command-line flag names.
func Modes(opts annotator.Options) []string {
	modes := []string{}
	if opts.InsertSincePrevious {
		modes = append(modes, "insert-millis-since-previous")
	}
	if opts.InsertSinceStart {
		modes = append(modes, "insert-millis-since-start")
	}
	if opts.InjectSincePrevious {
		modes = append(modes, "inject-millis-since-previous")
	}
	if opts.InjectSinceStart {
		modes = append(modes, "inject-millis-since-start")
	}
	return modes
}
