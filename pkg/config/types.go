// Package config provides configuration loading and validation for logdelta.
package config

// Config is the root configuration structure loaded from YAML. Every field
// mirrors a command-line flag; flags given on the command line win.
type Config struct {
	// TimeField is the record field holding the RFC 3339 timestamp.
	TimeField string `yaml:"time_field"`

	// Insert selects synthetic delta lines.
	Insert ModeConfig `yaml:"insert"`

	// Inject selects delta fields added to each record.
	Inject ModeConfig `yaml:"inject"`

	// Follow keeps reading the input file as it grows.
	Follow bool `yaml:"follow,omitempty"`

	// Summary is the run summary format written to stderr: "", text or json.
	Summary string `yaml:"summary,omitempty"`

	// LogLevel is the diagnostic log level: debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// ModeConfig toggles the two delta fields for one output mode.
type ModeConfig struct {
	// SincePrevious enables millis_since_previous_line.
	SincePrevious bool `yaml:"since_previous"`

	// SinceStart enables millis_since_start.
	SinceStart bool `yaml:"since_start"`
}

// Summary formats.
const (
	SummaryNone = ""
	SummaryText = "text"
	SummaryJSON = "json"
)
