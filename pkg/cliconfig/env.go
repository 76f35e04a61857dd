package cliconfig

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvTarget    = "APICONV_TARGET"
	EnvPretty    = "APICONV_PRETTY"
	EnvLogLevel  = "APICONV_LOG_LEVEL"
	EnvLogFormat = "APICONV_LOG_FORMAT"
	EnvLogFile   = "APICONV_LOG_FILE"
	EnvConfig    = "APICONV_CONFIG"
	EnvVerbose   = "APICONV_VERBOSE"
)

// LoadEnvConfig loads configuration from environment variables.
// It only sets values that are present in the environment. Booleans that do
// not parse are ignored.
func LoadEnvConfig(cfg *CLIConfig) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvTarget); v != "" {
		cfg.DefaultTarget = v
		cfg.Sources["defaultTarget"] = SourceEnv
	}

	if v, ok := envBool(EnvPretty); ok {
		cfg.Pretty = v
		cfg.Sources["pretty"] = SourceEnv
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
		cfg.Sources["logFile"] = SourceEnv
	}

	if v := os.Getenv(EnvConfig); v != "" {
		cfg.ConfigFile = v
		cfg.Sources["configFile"] = SourceEnv
	}

	if v, ok := envBool(EnvVerbose); ok {
		cfg.Verbose = v
		cfg.Sources["verbose"] = SourceEnv
	}
}

// envBool reads a boolean environment variable. "yes" and "no" are accepted
// alongside the strconv.ParseBool spellings.
func envBool(name string) (bool, bool) {
	v := os.Getenv(name)
	switch v {
	case "":
		return false, false
	case "yes", "YES", "Yes":
		return true, true
	case "no", "NO", "No":
		return false, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
