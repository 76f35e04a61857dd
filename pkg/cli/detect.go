package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/cli/internal/output"
	"github.com/getmockd/apiconv/pkg/portability"
)

// DetectResult describes one document inspected by detect.
type DetectResult struct {
	File      string             `json:"file"`
	Format    portability.Format `json:"format,omitempty"`
	Name      string             `json:"name,omitempty"`
	Requests  int                `json:"requests"`
	Folders   int                `json:"folders"`
	Variables int                `json:"variables"`
	Error     string             `json:"error,omitempty"`
}

func (a *app) detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file...]",
		Short: "Identify the format of collection documents",
		Long: `Identify which tool exported each document and summarize its contents.
Reads stdin when no file is given.

Examples:
  apiconv detect exports/*.json
  apiconv detect collection.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{stdioPath}
			}
			return a.runDetect(args)
		},
	}
}

func (a *app) runDetect(paths []string) error {
	results := make([]DetectResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		r := a.detectOne(path)
		if r.Error != "" {
			failed++
		}
		results = append(results, r)
	}

	err := a.printResult(results, func() {
		tw := output.Table(a.out)
		fmt.Fprintln(tw, "FILE\tFORMAT\tNAME\tREQUESTS\tFOLDERS\tVARIABLES")
		for _, r := range results {
			if r.Error != "" {
				fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\n", r.File)
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
				r.File, r.Format.DisplayName(), output.Truncate(r.Name, 40), r.Requests, r.Folders, r.Variables)
		}
		_ = tw.Flush()
		for _, r := range results {
			if r.Error != "" {
				output.Warn(a.errOut, "%s: %s", r.File, r.Error)
			}
		}
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d document(s) could not be recognized", failed, len(paths))
	}
	return nil
}

func (a *app) detectOne(path string) DetectResult {
	r := DetectResult{File: displayPath(path)}
	data, err := a.readInput(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	format, err := portability.DetectFormat(data)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Format = format

	imported, err := portability.Import(data, &portability.ImportOptions{Format: format})
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Name = imported.Collection.Name
	r.Requests = imported.RequestCount
	r.Folders = imported.FolderCount
	r.Variables = imported.VariableCount
	return r
}
