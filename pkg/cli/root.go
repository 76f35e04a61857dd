package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/apiconv/pkg/cliconfig"
	"github.com/getmockd/apiconv/pkg/logging"
	"github.com/getmockd/apiconv/pkg/portability"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags available to all subcommands.
type rootFlags struct {
	configFile string
	logLevel   string
	logFormat  string
	logFile    string
	jsonOutput bool
	verbose    bool
}

// app carries the streams and resolved settings shared by every command.
type app struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	flags  rootFlags
	cfg    *cliconfig.CLIConfig
	logger *slog.Logger

	logCloser io.Closer

	// isTerminal reports whether prompts can be shown on in.
	isTerminal func() bool
	// selectTarget asks the user for a conversion target.
	selectTarget func(source portability.Format) (portability.Format, error)
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:           in,
		out:          out,
		errOut:       errOut,
		cfg:          cliconfig.NewDefault(),
		logger:       logging.Nop(),
		selectTarget: promptTarget,
	}
	a.isTerminal = func() bool { return isTerminal(a.in) }
	return a
}

// Run builds the command tree, runs it against the process streams and
// returns the process exit code. This is called by main.main().
func Run() int {
	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// execute runs args through a fresh command tree.
func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	err := root.Execute()
	if a.logCloser != nil {
		if cerr := a.logCloser.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close log file: %w", cerr)
		}
		a.logCloser = nil
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "apiconv",
		Short: "apiconv converts API collections between Postman, Insomnia and Thunder Client",
		Long: `apiconv reads API test collections exported by Postman, Insomnia and
Thunder Client, and writes them back out in any of those formats or as a
variable file (.env, CSV, JSON). Scripts are translated between the tools'
scripting dialects where possible; anything left for manual review is
reported as a warning.

Configuration can be provided via flags, environment variables (APICONV_*),
a local .apiconvrc.yaml, or the global $XDG_CONFIG_HOME/apiconv/config.yaml.`,
		SilenceUsage:      true,
		SilenceErrors:     true, // errors are reported by Run
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup(cmd) },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "Config file path (replaces the local .apiconvrc.yaml lookup)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "Log format: text, json")
	pf.StringVar(&a.flags.logFile, "log-file", "", "Also write logs as JSON to this file")
	pf.BoolVar(&a.flags.jsonOutput, "json", false, "Output command results in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log debug details")

	root.AddCommand(
		a.convertCmd(),
		a.detectCmd(),
		a.findCmd(),
		a.replaceCmd(),
		a.requestsCmd(),
		a.varsCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root
}

// setup resolves the layered configuration, applies flags on top and builds
// the logger.
func (a *app) setup(cmd *cobra.Command) error {
	explicit := a.flags.configFile
	if explicit == "" {
		explicit = os.Getenv(cliconfig.EnvConfig)
	}
	cfg, err := cliconfig.Load(explicit)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
		cfg.Sources["logLevel"] = cliconfig.SourceFlag
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.flags.logFormat
		cfg.Sources["logFormat"] = cliconfig.SourceFlag
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.flags.logFile
		cfg.Sources["logFile"] = cliconfig.SourceFlag
	}
	if flags.Changed("json") {
		cfg.JSON = a.flags.jsonOutput
		cfg.Sources["json"] = cliconfig.SourceFlag
	}
	if flags.Changed("verbose") {
		cfg.Verbose = a.flags.verbose
		cfg.Sources["verbose"] = cliconfig.SourceFlag
	}
	if flags.Changed("config") {
		cfg.Sources["configFile"] = cliconfig.SourceFlag
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	return a.setupLogger()
}

func (a *app) setupLogger() error {
	level := logging.ParseLevel(a.cfg.LogLevel)
	if a.cfg.Verbose && a.cfg.Sources["logLevel"] == cliconfig.SourceDefault {
		level = logging.LevelDebug
	}
	lc := logging.Config{
		Level:  level,
		Format: logging.ParseFormat(a.cfg.LogFormat),
		Output: a.errOut,
	}
	if a.cfg.LogFile != "" {
		f, err := os.OpenFile(a.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logCloser = f
		lc.File = f
	}
	a.logger = logging.New(lc)
	return nil
}

// jsonMode reports whether results are written as JSON.
func (a *app) jsonMode() bool {
	return a.cfg != nil && a.cfg.JSON
}

// isTerminal checks if r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
