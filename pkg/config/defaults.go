package config

// Default values for configuration.
const (
	DefaultTimeField = "time"
	DefaultLogLevel  = "warn"
)

// DefaultConfig returns a configuration with sensible defaults: read the
// "time" field and pass every record through unchanged.
func DefaultConfig() *Config {
	return &Config{
		TimeField: DefaultTimeField,
		LogLevel:  DefaultLogLevel,
	}
}
