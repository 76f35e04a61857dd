package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/portability"
)

// stdioPath selects stdin or stdout in place of a file path.
const stdioPath = "-"

// readInput reads path, or stdin when path is empty or "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "" || path == stdioPath {
		data, err := io.ReadAll(a.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or stdout when path is empty or "-".
func (a *app) writeOutput(path string, data []byte) error {
	if path == "" || path == stdioPath {
		_, err := a.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// loadCollection reads and parses a collection document.
func (a *app) loadCollection(path string, opts *portability.ImportOptions) (*portability.ImportResult, error) {
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	result, err := portability.Import(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", displayPath(path), err)
	}
	for _, w := range result.Warnings {
		a.logger.Warn(w, "input", displayPath(path))
	}
	a.logger.Debug("parsed collection",
		"input", displayPath(path),
		"format", result.Format,
		"name", result.Collection.Name,
		"requests", result.RequestCount,
		"folders", result.FolderCount,
		"variables", result.VariableCount,
	)
	return result, nil
}

// parseFormatFlag parses an optional format flag value.
func parseFormatFlag(name, value string) (portability.Format, error) {
	if value == "" {
		return portability.FormatUnknown, nil
	}
	f, err := portability.ParseFormat(value)
	if err != nil {
		return portability.FormatUnknown, fmt.Errorf("--%s: %w", name, err)
	}
	return f, nil
}

func displayPath(path string) string {
	if path == "" || path == stdioPath {
		return "stdin"
	}
	return path
}

// export renders c in target and logs the exporter's warnings.
func (a *app) export(c *collection.Collection, target portability.Format, compact bool) ([]byte, []string, error) {
	result, err := portability.Export(c, &portability.ExportOptions{Format: target, Compact: compact})
	if err != nil {
		return nil, nil, err
	}
	for _, w := range result.Warnings {
		a.logger.Warn(w, "target", target)
	}
	a.logger.Debug("exported collection", "target", target, "bytes", len(result.Data))
	if result.Warnings == nil {
		return result.Data, []string{}, nil
	}
	return result.Data, result.Warnings, nil
}

// outputFlags select where and how a modified collection is written.
type outputFlags struct {
	to      string
	output  string
	compact bool
}

func (o *outputFlags) register(f *pflag.FlagSet) {
	f.StringVarP(&o.to, "to", "t", "", "Output format (default: the input's format)")
	f.StringVarP(&o.output, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&o.compact, "compact", false, "Write JSON without indentation")
}

// resolve fills in compact from config and the target from the input format.
func (o *outputFlags) resolve(a *app, cmd *cobra.Command, source portability.Format) (portability.Format, error) {
	if !cmd.Flags().Changed("compact") {
		o.compact = !a.cfg.Pretty
	}
	target, err := parseFormatFlag("to", o.to)
	if err != nil {
		return portability.FormatUnknown, err
	}
	if target == portability.FormatUnknown {
		target = source
	}
	return target, nil
}

// CollectionReport is the --json output of commands that rewrite a collection.
type CollectionReport struct {
	// Count is the number of changed fields or variables.
	Count    int                `json:"count"`
	Target   portability.Format `json:"target"`
	Output   string             `json:"output,omitempty"`
	DryRun   bool               `json:"dryRun,omitempty"`
	Warnings []string           `json:"warnings"`
	// Document holds the rewritten collection when no --output file is given.
	Document string `json:"document,omitempty"`
}

// writeCollection exports c and writes it per o. summary is printed to
// stderr in text mode.
func (a *app) writeCollection(c *collection.Collection, target portability.Format, o outputFlags, count int, summary string) error {
	data, warnings, err := a.export(c, target, o.compact)
	if err != nil {
		return err
	}
	report := CollectionReport{Count: count, Target: target, Output: o.output, Warnings: warnings}
	if a.jsonMode() && o.output == "" {
		report.Document = string(data)
		return a.printResult(report, nil)
	}
	if err := a.writeOutput(o.output, data); err != nil {
		return err
	}
	return a.printResult(report, func() { a.status("%s", summary) })
}
