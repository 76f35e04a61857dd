// Package cliconfig provides configuration types and loading for the apiconv CLI.
package cliconfig

// CLIConfig represents the complete configuration for the apiconv CLI.
// Configuration values can come from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Local config file (.apiconvrc.yaml in current directory)
// 4. Global config file ($XDG_CONFIG_HOME/apiconv/config.yaml)
// 5. Default values (lowest priority)
type CLIConfig struct {
	// Conversion settings
	DefaultTarget string `yaml:"defaultTarget,omitempty" json:"defaultTarget,omitempty"`
	Pretty        bool   `yaml:"pretty" json:"pretty"`

	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// ConfigFile is an explicit config path. It replaces the local file lookup.
	ConfigFile string `yaml:"-" json:"configFile,omitempty"`

	// Output settings
	Verbose bool `yaml:"verbose" json:"verbose"`
	JSON    bool `yaml:"json" json:"json"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields holds the YAML keys present in a loaded file, so an explicit
	// false can override a true from a lower layer.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceFlag    = "flag"
)
