package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/portability"
)

type convertOptions struct {
	to      string
	from    string
	name    string
	output  string
	compact bool
}

// ConvertReport is the --json output of convert.
type ConvertReport struct {
	Input     string             `json:"input"`
	Output    string             `json:"output,omitempty"`
	Source    portability.Format `json:"source"`
	Target    portability.Format `json:"target"`
	Name      string             `json:"name"`
	Requests  int                `json:"requests"`
	Folders   int                `json:"folders"`
	Variables int                `json:"variables"`
	Warnings  []string           `json:"warnings"`
	// Document holds the converted output when no --output file is given.
	Document string `json:"document,omitempty"`
}

func (a *app) convertCmd() *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a collection to another format",
		Long: `Convert a Postman, Insomnia or Thunder Client collection to another
tool's format, or extract its variables as .env, CSV or JSON.

The source format is detected from the document structure. Without --to the
configured defaultTarget is used; failing that, an interactive terminal is
asked to pick one.

Examples:
  # Postman to Insomnia
  apiconv convert collection.json --to insomnia -o insomnia.json

  # Pipe through stdin
  cat thunder.json | apiconv convert --to postman

  # Variables only
  apiconv convert collection.json --to env -o .env`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			if !cmd.Flags().Changed("compact") {
				opts.compact = !a.cfg.Pretty
			}
			return a.runConvert(input, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.to, "to", "t", "", "Target format: postman, insomnia, thunderclient, env, csv, json")
	f.StringVarP(&opts.from, "from", "f", "", "Source format (detected if omitted)")
	f.StringVar(&opts.name, "name", "", "Override the collection name")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&opts.compact, "compact", false, "Write JSON without indentation")
	return cmd
}

func (a *app) runConvert(input string, opts convertOptions) error {
	from, err := parseFormatFlag("from", opts.from)
	if err != nil {
		return err
	}

	imported, err := a.loadCollection(input, &portability.ImportOptions{Name: opts.name, Format: from})
	if err != nil {
		return err
	}

	target, err := a.resolveTarget(opts.to, imported.Format)
	if err != nil {
		return err
	}

	data, exportWarnings, err := a.export(imported.Collection, target, opts.compact)
	if err != nil {
		return err
	}
	warnings := append(append([]string{}, imported.Warnings...), exportWarnings...)

	report := ConvertReport{
		Input:     displayPath(input),
		Output:    opts.output,
		Source:    imported.Format,
		Target:    target,
		Name:      imported.Collection.Name,
		Requests:  imported.RequestCount,
		Folders:   imported.FolderCount,
		Variables: imported.VariableCount,
		Warnings:  warnings,
	}

	if a.jsonMode() {
		if opts.output != "" {
			if err := a.writeOutput(opts.output, data); err != nil {
				return err
			}
		} else {
			report.Document = string(data)
		}
		return a.printResult(report, nil)
	}

	if err := a.writeOutput(opts.output, data); err != nil {
		return err
	}
	a.status("Converted %q from %s to %s: %d requests, %d folders, %d variables",
		report.Name, imported.Format.DisplayName(), target.DisplayName(),
		report.Requests, report.Folders, report.Variables)
	if len(warnings) > 0 {
		a.status("%d warning(s); scripts may need manual review", len(warnings))
	}
	return nil
}

// resolveTarget picks the conversion target: the flag, then the configured
// default, then an interactive prompt.
func (a *app) resolveTarget(flag string, source portability.Format) (portability.Format, error) {
	if flag != "" {
		return parseFormatFlag("to", flag)
	}
	if a.cfg.DefaultTarget != "" {
		target, err := portability.ParseFormat(a.cfg.DefaultTarget)
		if err != nil {
			return portability.FormatUnknown, fmt.Errorf("defaultTarget: %w", err)
		}
		return target, nil
	}
	if !a.jsonMode() && a.isTerminal() {
		return a.selectTarget(source)
	}
	return portability.FormatUnknown, ErrNoTarget
}
