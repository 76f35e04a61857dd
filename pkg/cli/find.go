package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/apiconv/pkg/bulk"
	"github.com/getmockd/apiconv/pkg/cli/internal/output"
)

// matchFlags are the matcher settings shared by find and replace.
type matchFlags struct {
	scope         string
	regex         bool
	caseSensitive bool
	path          string
}

func (m *matchFlags) register(f *pflag.FlagSet) {
	f.StringVar(&m.scope, "scope", "all", "Where to look: all, variables, requests")
	f.BoolVarP(&m.regex, "regex", "E", false, "Treat the term as a regular expression")
	f.BoolVarP(&m.caseSensitive, "case-sensitive", "s", false, "Match case exactly")
	f.StringVar(&m.path, "path", "", `Only requests whose "Folder/Request" path matches this glob (e.g. "Users/**")`)
}

func (m *matchFlags) parseScope() (bulk.Scope, error) {
	scope, err := bulk.ParseScope(m.scope)
	if err != nil {
		return "", fmt.Errorf("--scope: %w", err)
	}
	return scope, nil
}

func (a *app) findCmd() *cobra.Command {
	var mf matchFlags
	cmd := &cobra.Command{
		Use:   "find <file> <term>",
		Short: "Search variables and requests in a collection",
		Long: `Search variable keys and values, request URLs, headers and bodies.
Use "-" as the file to read stdin.

Examples:
  apiconv find collection.json api.example.com
  apiconv find collection.json 'v[0-9]+' --regex --scope requests
  apiconv find collection.json token --path "Auth/**"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFind(args[0], args[1], mf)
		},
	}
	mf.register(cmd.Flags())
	return cmd
}

func (a *app) runFind(path, term string, mf matchFlags) error {
	scope, err := mf.parseScope()
	if err != nil {
		return err
	}
	imported, err := a.loadCollection(path, nil)
	if err != nil {
		return err
	}

	results, err := bulk.Find(imported.Collection, bulk.SearchOptions{
		Term:          term,
		Scope:         scope,
		CaseSensitive: mf.caseSensitive,
		Regex:         mf.regex,
		PathGlob:      mf.path,
	})
	if err != nil {
		return err
	}
	if results == nil {
		results = []bulk.SearchResult{}
	}

	return a.printResult(results, func() {
		if len(results) == 0 {
			a.status("No matches for %q", term)
			return
		}
		tw := output.Table(a.out)
		fmt.Fprintln(tw, "LOCATION\tFIELD\tKEY\tMATCHES\tVALUE")
		total := 0
		for _, r := range results {
			total += r.Matches
			key := r.Key
			if key == "" {
				key = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				r.Location, r.Field, output.Truncate(key, 30), r.Matches, output.Truncate(r.Value, 60))
		}
		_ = tw.Flush()
		a.status("%d match(es) in %d field(s)", total, len(results))
	})
}
