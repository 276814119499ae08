package output

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if strings.Count(out, "\n") != 1 || !strings.HasSuffix(out, "\n") {
		t.Errorf("Output should be exactly one line, got %q", out)
	}

	var parsed Report
	if err := sonic.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.LinesRead != 10 {
		t.Errorf("LinesRead = %d, want 10", parsed.Summary.LinesRead)
	}
	if parsed.Metadata.Source != "app.ndjson" {
		t.Errorf("Source = %q, want app.ndjson", parsed.Metadata.Source)
	}
	if parsed.Metadata.SpanMillis != 2500 {
		t.Errorf("SpanMillis = %d, want 2500", parsed.Metadata.SpanMillis)
	}
	if !strings.Contains(out, `"lines_written":14`) {
		t.Errorf("Output should use snake_case keys: %s", out)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport()

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// Quiet mode should only output summary
	var parsed Summary
	if err := sonic.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.LinesWritten != 14 {
		t.Errorf("LinesWritten = %d, want 14", parsed.LinesWritten)
	}
	if strings.Contains(buf.String(), "metadata") {
		t.Error("Quiet output should not include metadata")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := NewFormatter(name, FormatOptions{})
		if err != nil {
			t.Fatalf("NewFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}

	_, err := NewFormatter("xml", FormatOptions{})
	if err == nil {
		t.Fatal("NewFormatter(xml) expected error")
	}
	if !strings.Contains(err.Error(), `"xml"`) {
		t.Errorf("error %q should name the format", err)
	}
}
