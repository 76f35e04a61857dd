package cli

import "errors"

// Common CLI errors
var (
	ErrNoTarget = errors.New("target format is required - pass --to, set defaultTarget in config, or run in a terminal to choose")
)
