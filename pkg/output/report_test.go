package output

import (
	"testing"
	"time"

	"github.com/ccollicutt/logdelta/pkg/annotator"
)

func createTestReport() *Report {
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	stats := annotator.Stats{
		LinesRead:    10,
		LinesWritten: 14,
		Timestamped:  5,
		Inserted:     4,
		Injected:     0,
		First:        base,
		Last:         base.Add(2500 * time.Millisecond),
	}
	opts := annotator.Options{TimeField: "time", InsertSincePrevious: true}
	return NewReport(stats, opts, "app.ndjson", base, base.Add(3*time.Second))
}

func TestNewReport(t *testing.T) {
	report := createTestReport()

	if report.Summary.LinesRead != 10 {
		t.Errorf("LinesRead = %d, want 10", report.Summary.LinesRead)
	}
	if report.Summary.Inserted != 4 {
		t.Errorf("Inserted = %d, want 4", report.Summary.Inserted)
	}
	if report.Metadata.SpanMillis != 2500 {
		t.Errorf("SpanMillis = %d, want 2500", report.Metadata.SpanMillis)
	}
	if report.Metadata.Duration != 3*time.Second {
		t.Errorf("Duration = %s, want 3s", report.Metadata.Duration)
	}
	if report.Metadata.FirstTimestamp == nil || report.Metadata.LastTimestamp == nil {
		t.Fatal("timestamps should be set when records were timestamped")
	}
	if len(report.Metadata.Modes) != 1 || report.Metadata.Modes[0] != "insert-millis-since-previous" {
		t.Errorf("Modes = %v", report.Metadata.Modes)
	}
}

func TestNewReport_NoTimestamps(t *testing.T) {
	now := time.Now()
	report := NewReport(annotator.Stats{LinesRead: 3, LinesWritten: 3}, annotator.Options{TimeField: "time"}, "stdin", now, now)

	if report.Metadata.FirstTimestamp != nil || report.Metadata.LastTimestamp != nil {
		t.Error("timestamps should be nil when no record was timestamped")
	}
	if report.Metadata.SpanMillis != 0 {
		t.Errorf("SpanMillis = %d, want 0", report.Metadata.SpanMillis)
	}
	if report.Metadata.Modes == nil || len(report.Metadata.Modes) != 0 {
		t.Errorf("Modes = %#v, want empty non-nil slice", report.Metadata.Modes)
	}
}

func TestModes(t *testing.T) {
	opts := annotator.Options{
		InsertSincePrevious: true,
		InsertSinceStart:    true,
		InjectSincePrevious: true,
		InjectSinceStart:    true,
	}
	want := []string{
		"insert-millis-since-previous",
		"insert-millis-since-start",
		"inject-millis-since-previous",
		"inject-millis-since-start",
	}

	got := Modes(opts)
	if len(got) != len(want) {
		t.Fatalf("Modes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Modes()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
