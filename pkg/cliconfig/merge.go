package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-empty values from source are applied.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.DefaultTarget != "" {
		target.DefaultTarget = source.DefaultTarget
		target.Sources["defaultTarget"] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
	if source.ConfigFile != "" {
		target.ConfigFile = source.ConfigFile
		target.Sources["configFile"] = sourceType
	}
	// An explicit false only shows up in SetFields. Configs built in code
	// without SetFields merge true values only.
	if boolIsSet(source, "pretty") {
		target.Pretty = source.Pretty
		target.Sources["pretty"] = sourceType
	}
	if boolIsSet(source, "verbose") {
		target.Verbose = source.Verbose
		target.Sources["verbose"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}
}

// boolIsSet reports whether a boolean field identified by its YAML key was
// explicitly set in the source config.
func boolIsSet(cfg *CLIConfig, yamlKey string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[yamlKey]
	}
	switch yamlKey {
	case "pretty":
		return cfg.Pretty
	case "verbose":
		return cfg.Verbose
	case "json":
		return cfg.JSON
	}
	return false
}
