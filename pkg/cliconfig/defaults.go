package cliconfig

// DefaultPretty is whether JSON output is indented.
const DefaultPretty = true

// DefaultLogLevel keeps the CLI quiet except for translation warnings.
const DefaultLogLevel = "warn"

// DefaultLogFormat is the log output format.
const DefaultLogFormat = "text"

// NewDefault creates a new CLIConfig with default values.
func NewDefault() *CLIConfig {
	cfg := &CLIConfig{
		Pretty:    DefaultPretty,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources:   make(map[string]string),
	}

	// Mark all as default source
	for _, key := range []string{"defaultTarget", "pretty", "logLevel", "logFormat", "verbose", "json"} {
		cfg.Sources[key] = SourceDefault
	}

	return cfg
}
