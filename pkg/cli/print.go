package cli

import (
	"fmt"

	"github.com/getmockd/apiconv/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose (progress messages, hints) must go to stderr
// or be omitted entirely. textFn is called only in text mode.
func (a *app) printResult(data any, textFn func()) error {
	if a.jsonMode() {
		return output.JSON(a.out, data)
	}
	textFn()
	return nil
}

// status writes a progress line to stderr in text mode.
func (a *app) status(format string, args ...any) {
	if a.jsonMode() {
		return
	}
	_, _ = fmt.Fprintf(a.errOut, format+"\n", args...)
}
