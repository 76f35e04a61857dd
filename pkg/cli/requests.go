package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/bulk"
	"github.com/getmockd/apiconv/pkg/cli/internal/output"
	"github.com/getmockd/apiconv/pkg/collection"
)

// RequestSummary is one row of requests list.
type RequestSummary struct {
	ID     string `json:"id"`
	Path   string `json:"path"`
	Method string `json:"method"`
	URL    string `json:"url"`
	// Headers counts enabled headers only.
	Headers int `json:"headers"`
}

func (a *app) requestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List and remove the requests of a collection",
	}
	cmd.AddCommand(
		a.requestsListCmd(),
		a.requestsDeleteCmd(),
	)
	return cmd
}

func (a *app) requestsListCmd() *cobra.Command {
	var glob string
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List the requests of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			rows, err := summarizeRequests(imported.Collection, glob)
			if err != nil {
				return err
			}
			return a.printResult(rows, func() {
				if len(rows) == 0 {
					a.status("No requests")
					return
				}
				tw := output.Table(a.out)
				fmt.Fprintln(tw, "ID\tMETHOD\tPATH\tURL\tHEADERS")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
						r.ID, r.Method, output.Truncate(r.Path, 50), output.Truncate(r.URL, 60), r.Headers)
				}
				_ = tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&glob, "path", "", `Only requests whose "Folder/Request" path matches this glob`)
	return cmd
}

func (a *app) requestsDeleteCmd() *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:   "delete <file> <request>...",
		Short: "Remove requests by id or path",
		Long: `Remove requests from a collection. Each request argument is a request id
or a glob over "Folder/Request" paths, as accepted by --path. Folders are kept
even when they end up empty. Every argument must select at least one request.

Examples:
  apiconv requests delete collection.json Auth/Logout -o collection.json
  apiconv requests delete collection.json 'Legacy/**' --to insomnia`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			target, err := of.resolve(a, cmd, imported.Format)
			if err != nil {
				return err
			}
			var ids []string
			for _, sel := range args[1:] {
				matched, err := bulk.RequestIDs(imported.Collection, sel)
				if err != nil {
					return err
				}
				if len(matched) == 0 {
					return fmt.Errorf("no request matches %q", sel)
				}
				ids = append(ids, matched...)
			}
			pruned, removed := bulk.DeleteRequests(imported.Collection, ids)
			a.logger.Debug("deleted requests", "count", removed)
			return a.writeCollection(pruned, target, of, removed,
				fmt.Sprintf("Removed %d request(s)", removed))
		},
	}
	of.register(cmd.Flags())
	return cmd
}

// summarizeRequests lists the requests of c in walk order, limited to those
// selected by glob when it is non-empty.
func summarizeRequests(c *collection.Collection, glob string) ([]RequestSummary, error) {
	keep := map[string]bool{}
	if glob != "" {
		ids, err := bulk.RequestIDs(c, glob)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			keep[id] = true
		}
	}
	rows := []RequestSummary{}
	collection.Walk(c, func(path []string, _ *collection.Folder, r *collection.Request) bool {
		if r == nil || (glob != "" && !keep[r.ID]) {
			return true
		}
		rows = append(rows, RequestSummary{
			ID:      r.ID,
			Path:    requestPath(path, r.Name),
			Method:  r.Method,
			URL:     r.URL,
			Headers: len(r.EnabledHeaders()),
		})
		return true
	})
	return rows, nil
}

func requestPath(path []string, name string) string {
	return strings.Join(append(append([]string(nil), path...), name), collection.PathSeparator)
}
