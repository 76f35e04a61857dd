package cliconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// GlobalConfigDir is the directory for global config
	GlobalConfigDir = "apiconv"
)

// LocalConfigFileNames are the names to search for local config (in order).
var LocalConfigFileNames = []string{".apiconvrc.yaml", ".apiconvrc.yml"}

// GlobalConfigFileNames are the names to search for global config (in order).
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// FindLocalConfig searches for .apiconvrc.yaml or .apiconvrc.yml in the current directory.
func FindLocalConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return firstExisting(cwd, LocalConfigFileNames), nil
}

// FindGlobalConfig returns the path to the global config file.
// Returns empty string if not found.
func FindGlobalConfig() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		//nolint:nilerr // no config dir means no global config
		return "", nil
	}
	return firstExisting(filepath.Join(configDir, GlobalConfigDir), GlobalConfigFileNames), nil
}

// GlobalConfigPath returns where the global config file is written.
func GlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, GlobalConfigDir, GlobalConfigFileNames[0]), nil
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// yamlLine extracts the line number yaml.v3 puts in its error messages.
var yamlLine = regexp.MustCompile(`line (\d+): (.*)`)

// LoadConfigFile loads a CLIConfig from a YAML file. SetFields records the
// top-level keys present in the file.
func LoadConfigFile(path string) (*CLIConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (*CLIConfig, error) {
	cfg := CLIConfig{
		Sources:   make(map[string]string),
		SetFields: make(map[string]bool),
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, configError(path, err)
	}
	if len(root.Content) == 0 {
		return &cfg, nil
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, &ConfigError{Path: path, Line: doc.Line, Column: doc.Column, Message: "config must be a mapping"}
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		cfg.SetFields[doc.Content[i].Value] = true
	}
	if err := doc.Decode(&cfg); err != nil {
		return nil, configError(path, err)
	}
	return &cfg, nil
}

func configError(path string, err error) *ConfigError {
	msg := err.Error()
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) && len(typeErr.Errors) > 0 {
		msg = typeErr.Errors[0]
	}
	ce := &ConfigError{Path: path, Message: msg}
	if m := yamlLine.FindStringSubmatch(msg); m != nil {
		ce.Line, _ = strconv.Atoi(m[1])
		ce.Message = m[2]
	}
	return ce
}

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s (line %d, column %d): %s", e.Path, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s (line %d): %s", e.Path, e.Line, e.Message)
	default:
		return e.Path + ": " + e.Message
	}
}

// SaveConfigFile writes the file-backed settings of cfg as YAML, creating
// the parent directory when needed.
func SaveConfigFile(path string, cfg *CLIConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadAll loads configuration from all sources and merges them.
// Precedence: env > local config (or the explicit APICONV_CONFIG file) >
// global config > defaults. Flags are applied by the caller on top.
// Missing files are skipped; malformed ones are reported.
func LoadAll() (*CLIConfig, error) {
	return Load(os.Getenv(EnvConfig))
}

// Load is LoadAll with an explicit config file in place of the local lookup.
// An explicit file that does not exist is an error.
func Load(explicitPath string) (*CLIConfig, error) {
	// Start with defaults
	cfg := NewDefault()

	// Load global config
	if globalPath, err := FindGlobalConfig(); err == nil && globalPath != "" {
		globalCfg, err := LoadConfigFile(globalPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, globalCfg, SourceGlobal)
	}

	if explicitPath != "" {
		fileCfg, err := LoadConfigFile(explicitPath)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, &ConfigError{Path: explicitPath, Message: "config file not found"}
			}
			return nil, err
		}
		MergeConfig(cfg, fileCfg, SourceFile)
		cfg.ConfigFile = explicitPath
	} else if localPath, err := FindLocalConfig(); err == nil && localPath != "" {
		localCfg, err := LoadConfigFile(localPath)
		if err != nil {
			return nil, err
		}
		MergeConfig(cfg, localCfg, SourceLocal)
	}

	// Load environment variables
	LoadEnvConfig(cfg)

	return cfg, nil
}
