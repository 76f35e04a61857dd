package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/bulk"
	"github.com/getmockd/apiconv/pkg/cli/internal/output"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/varfile"
)

func (a *app) varsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vars",
		Short: "List, export, import and edit collection variables",
	}
	cmd.AddCommand(
		a.varsListCmd(),
		a.varsExportCmd(),
		a.varsImportCmd(),
		a.varsSetCmd(),
		a.varsDeleteCmd(),
	)
	return cmd
}

func (a *app) varsListCmd() *cobra.Command {
	var showSecrets bool
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List the variables of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			vars := imported.Collection.Variables
			if vars == nil {
				vars = []collection.Variable{}
			}
			return a.printResult(vars, func() {
				if len(vars) == 0 {
					a.status("No variables")
					return
				}
				tw := output.Table(a.out)
				fmt.Fprintln(tw, "KEY\tVALUE\tTYPE\tENABLED\tDESCRIPTION")
				for _, v := range vars {
					value := v.Value
					if v.Type == collection.VariableSecret && !showSecrets {
						value = "********"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
						v.Key, output.Truncate(value, 40), output.Title(string(v.Type)), v.Enabled, output.Truncate(v.Description, 40))
				}
				_ = tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secret values")
	return cmd
}

func (a *app) varsExportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a collection's variables as .env, CSV or JSON",
		Long: `Write a collection's variables to a variable file. CSV and JSON keep every
variable with all fields; .env keeps enabled variables only.

The format is taken from --format, then from the --output extension, and
defaults to env.

Examples:
  apiconv vars export collection.json -o vars.csv
  apiconv vars export collection.json --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vf, err := variableFormat(format, out)
			if err != nil {
				return err
			}
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			data, err := bulk.ExportVariables(imported.Collection, vf)
			if err != nil {
				return err
			}
			if err := a.writeOutput(out, data); err != nil {
				return err
			}
			if out != "" {
				n := len(imported.Collection.Variables)
				if vf == varfile.FormatEnv {
					n = len(imported.Collection.EnabledVariables())
				}
				a.status("Exported %d variable(s) to %s", n, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "Variable format: env, csv, json")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) varsImportCmd() *cobra.Command {
	var (
		format  string
		replace bool
		of      outputFlags
	)
	cmd := &cobra.Command{
		Use:   "import <collection> <variables>",
		Short: "Merge a variable file into a collection",
		Long: `Read variables from a .env, CSV or JSON file and merge them into a
collection. Variables with an existing key are updated in place; new keys are
appended. With --replace the collection's variables are swapped out entirely.

Examples:
  apiconv vars import collection.json prod.env -o collection.prod.json
  apiconv vars import collection.json vars.csv --replace`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vf, err := variableFormat(format, args[1])
			if err != nil {
				return err
			}
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			target, err := of.resolve(a, cmd, imported.Format)
			if err != nil {
				return err
			}
			data, err := a.readInput(args[1])
			if err != nil {
				return err
			}
			vars, err := bulk.ImportVariables(data, vf)
			if err != nil {
				return err
			}
			merged := bulk.MergeVariables(imported.Collection, vars, replace)
			return a.writeCollection(merged, target, of, len(vars),
				fmt.Sprintf("Imported %d variable(s); collection now has %d", len(vars), len(merged.Variables)))
		},
	}
	f := cmd.Flags()
	f.StringVar(&format, "format", "", "Variable file format (default: from the file extension)")
	f.BoolVar(&replace, "replace", false, "Replace all existing variables")
	of.register(f)
	return cmd
}

func (a *app) varsSetCmd() *cobra.Command {
	var (
		value, rename, typ, description string
		enabled                         string
		of                              outputFlags
	)
	cmd := &cobra.Command{
		Use:   "set <file> <key>",
		Short: "Change fields of a variable",
		Long: `Change the value, key, type, description or enabled state of an existing
variable. Only the flags given are applied.

Examples:
  apiconv vars set collection.json token --value abc123 --type secret
  apiconv vars set collection.json baseUrl --rename host --enabled=false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			imported, err := a.loadCollection(args[0], nil)
			if err != nil {
				return err
			}
			target, err := of.resolve(a, cmd, imported.Format)
			if err != nil {
				return err
			}

			ids := variableIDs(imported.Collection, args[1])
			if len(ids) == 0 {
				return fmt.Errorf("variable %q not found", args[1])
			}

			flags := cmd.Flags()
			update := bulk.VariableUpdate{}
			if flags.Changed("value") {
				update.Value = &value
			}
			if flags.Changed("rename") {
				update.Key = &rename
			}
			if flags.Changed("type") {
				t := collection.ParseVariableType(typ)
				update.Type = &t
			}
			if flags.Changed("description") {
				update.Description = &description
			}
			if flags.Changed("enabled") {
				b, err := strconv.ParseBool(enabled)
				if err != nil {
					return fmt.Errorf("--enabled: %w", err)
				}
				update.Enabled = &b
			}

			updates := make([]bulk.VariableUpdate, 0, len(ids))
			for _, id := range ids {
				u := update
				u.ID = id
				updates = append(updates, u)
			}
			edited := bulk.BulkEditVariables(imported.Collection, updates)
			return a.writeCollection(edited, target, of, len(ids),
				fmt.Sprintf("Updated %d variable(s)", len(ids)))
		},
	}
	f := cmd.Flags()
	f.StringVar(&value, "value", "", "New value")
	f.StringVar(&rename, "rename", "", "New key")
	f.StringVar(&typ, "type", "", "Variable type: default, secret")
	f.StringVar(&description, "description", "", "New description")
	f.StringVar(&enabled, "enabled", "", "Enable (true) or disable (false) the variable")
	of.register(f)
	return cmd
}

func (a *app) varsDeleteCmd() *cobra.Command {
	var of outputFlags
	cmd := &cobra.Command{
		Use:   "delete <file> <key>...",
		Short: "Remove variables by key",
		Args:  cobra.MinimumNArgs(2),
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
			for _, key := range args[1:] {
				ids = append(ids, variableIDs(imported.Collection, key)...)
			}
			pruned, removed := bulk.DeleteVariables(imported.Collection, ids)
			return a.writeCollection(pruned, target, of, removed,
				fmt.Sprintf("Removed %d variable(s)", removed))
		},
	}
	of.register(cmd.Flags())
	return cmd
}

// variableIDs returns the ids of every variable named key.
func variableIDs(c *collection.Collection, key string) []string {
	var ids []string
	for _, v := range c.Variables {
		if v.Key == key {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// variableFormat resolves a variable file format from an explicit name or a
// file path's extension. Neither given means env.
func variableFormat(name, path string) (varfile.Format, error) {
	if name != "" {
		return varfile.ParseFormat(name)
	}
	if path == "" || path == stdioPath {
		return varfile.FormatEnv, nil
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".env") || filepath.Ext(base) == "" {
		return varfile.FormatEnv, nil
	}
	f, err := varfile.ParseFormat(filepath.Ext(base))
	if err != nil {
		return "", fmt.Errorf("cannot tell the variable format of %s; pass --format", path)
	}
	return f, nil
}
