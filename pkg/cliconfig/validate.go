package cliconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/apiconv/pkg/logging"
	"github.com/getmockd/apiconv/pkg/portability"
)

// Validate checks the configuration for values the CLI cannot use. All
// problems are reported together.
func (c *CLIConfig) Validate() error {
	var errs []error

	if c.DefaultTarget != "" {
		format, err := portability.ParseFormat(c.DefaultTarget)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("defaultTarget %q is not a known format", c.DefaultTarget))
		case !format.CanExport():
			errs = append(errs, fmt.Errorf("defaultTarget %q cannot be exported to", c.DefaultTarget))
		}
	}

	if _, err := logging.LookupLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("logLevel: %w", err))
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", string(logging.FormatText), string(logging.FormatJSON):
	default:
		errs = append(errs, fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat))
	}

	return errors.Join(errs...)
}
