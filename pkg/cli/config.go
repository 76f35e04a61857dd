package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/cli/internal/output"
	"github.com/getmockd/apiconv/pkg/cliconfig"
)

// ConfigEntry is one resolved setting as shown by config show.
type ConfigEntry struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// ConfigPaths lists the config files apiconv reads.
type ConfigPaths struct {
	Global   string `json:"global,omitempty"`
	Local    string `json:"local,omitempty"`
	Explicit string `json:"explicit,omitempty"`
}

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create apiconv configuration",
	}
	cmd.AddCommand(a.configShowCmd(), a.configPathCmd(), a.configInitCmd())
	return cmd
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display the resolved configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := configEntries(a.cfg)
			return a.printResult(entries, func() {
				tw := output.Table(a.out)
				fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
				for _, e := range entries {
					value := e.Value
					if value == "" {
						value = "-"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, value, output.Title(e.Source))
				}
				_ = tw.Flush()
			})
		},
	}
}

func configEntries(cfg *cliconfig.CLIConfig) []ConfigEntry {
	values := []struct{ key, value string }{
		{"defaultTarget", cfg.DefaultTarget},
		{"pretty", strconv.FormatBool(cfg.Pretty)},
		{"logLevel", cfg.LogLevel},
		{"logFormat", cfg.LogFormat},
		{"logFile", cfg.LogFile},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
		{"json", strconv.FormatBool(cfg.JSON)},
	}
	entries := make([]ConfigEntry, 0, len(values)+1)
	for _, v := range values {
		source := cfg.Sources[v.key]
		if source == "" {
			source = cliconfig.SourceDefault
		}
		entries = append(entries, ConfigEntry{Key: v.key, Value: v.value, Source: source})
	}
	if cfg.ConfigFile != "" {
		entries = append(entries, ConfigEntry{Key: "configFile", Value: cfg.ConfigFile, Source: cfg.Sources["configFile"]})
	}
	return entries
}

func (a *app) configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show which config files are read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var paths ConfigPaths
			paths.Global, _ = cliconfig.FindGlobalConfig()
			paths.Local, _ = cliconfig.FindLocalConfig()
			paths.Explicit = a.cfg.ConfigFile
			return a.printResult(paths, func() {
				tw := output.Table(a.out)
				for _, row := range []struct{ name, path string }{
					{"global", paths.Global},
					{"local", paths.Local},
					{"explicit", paths.Explicit},
				} {
					if row.path == "" {
						row.path = "(none)"
					}
					fmt.Fprintf(tw, "%s\t%s\n", output.Title(row.name), row.path)
				}
				_ = tw.Flush()
			})
		},
	}
}

func (a *app) configInitCmd() *cobra.Command {
	var (
		global bool
		force  bool
		target string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Long: `Write a config file with the default settings. The file goes to
.apiconvrc.yaml in the current directory, or with --global to
$XDG_CONFIG_HOME/apiconv/config.yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := cliconfig.LocalConfigFileNames[0]
			if global {
				p, err := cliconfig.GlobalConfigPath()
				if err != nil {
					return fmt.Errorf("cannot determine config directory: %w", err)
				}
				path = p
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := cliconfig.NewDefault()
			cfg.DefaultTarget = target
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cliconfig.SaveConfigFile(path, cfg); err != nil {
				return err
			}
			abs, _ := filepath.Abs(path)
			return a.printResult(map[string]string{"path": abs}, func() {
				a.status("Wrote %s", path)
			})
		},
	}
	f := cmd.Flags()
	f.BoolVar(&global, "global", false, "Write the global config instead of a local one")
	f.BoolVar(&force, "force", false, "Overwrite an existing file")
	f.StringVar(&target, "target", "", "defaultTarget to write")
	return cmd
}
