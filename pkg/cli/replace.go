package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/bulk"
)

type replaceOptions struct {
	matchFlags
	outputFlags
	dryRun bool
}

func (a *app) replaceCmd() *cobra.Command {
	var opts replaceOptions
	cmd := &cobra.Command{
		Use:   "replace <file> <find> <replacement>",
		Short: "Find and replace across a collection",
		Long: `Replace text in variable keys and values, request URLs, headers and
bodies, then write the collection back out. The output keeps the input's
format unless --to is given.

In --regex mode the replacement may reference groups as $1 or ${name}.

Examples:
  apiconv replace collection.json staging.example.com prod.example.com -o prod.json
  apiconv replace collection.json 'v1/(\w+)' 'v2/$1' --regex --scope requests`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runReplace(cmd, args[0], args[1], args[2], opts)
		},
	}
	f := cmd.Flags()
	opts.matchFlags.register(f)
	opts.outputFlags.register(f)
	f.BoolVar(&opts.dryRun, "dry-run", false, "Only count replacements")
	return cmd
}

func (a *app) runReplace(cmd *cobra.Command, path, find, replacement string, opts replaceOptions) error {
	scope, err := opts.parseScope()
	if err != nil {
		return err
	}
	imported, err := a.loadCollection(path, nil)
	if err != nil {
		return err
	}
	target, err := opts.resolve(a, cmd, imported.Format)
	if err != nil {
		return err
	}

	replaced, err := bulk.Replace(imported.Collection, bulk.ReplaceOptions{
		Find:          find,
		Replace:       replacement,
		Scope:         scope,
		CaseSensitive: opts.caseSensitive,
		Regex:         opts.regex,
		PathGlob:      opts.path,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("replaced", "count", replaced.Count, "scope", scope)

	if opts.dryRun {
		report := CollectionReport{Count: replaced.Count, Target: target, DryRun: true, Warnings: []string{}}
		return a.printResult(report, func() {
			a.status("Would replace %d occurrence(s)", replaced.Count)
		})
	}
	return a.writeCollection(replaced.Collection, target, opts.outputFlags, replaced.Count,
		fmt.Sprintf("Replaced %d occurrence(s)", replaced.Count))
}
