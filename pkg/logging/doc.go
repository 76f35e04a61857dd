// Package logging provides structured logging configuration for apiconv.
//
// This package wraps log/slog. The conversion packages never log; the command
// line builds one logger from configuration and flags and passes it down.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	})
//
//	logger.Debug("collection parsed", "format", "postman", "requests", 12)
//	logger.Warn("script needs review", "item", "Auth / Login")
//
// # Log Levels
//
// Four log levels are supported: debug, info, warn and error. Translation
// warnings are logged at warn, parse and convert summaries at debug.
//
// # Output Formats
//
//   - Text: human-readable, the default on a terminal
//   - JSON: one object per line, for piping into other tools
//
// # Log files
//
// Config.File adds a second JSON sink next to Output; both are fed through a
// MultiHandler. If no logger is wanted, use logging.Nop().
package logging
