package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"flowp/internal/autorun"
	"flowp/internal/config"
	"flowp/internal/runner"
	"flowp/pkg/logging"
)

// Options wires a spec command to its environment. Zero values fall back
// to the process defaults.
type Options struct {
	Registry  *runner.Registry
	Stdout    io.Writer
	Stderr    io.Writer
	Dir       string
	LookupEnv func(string) (string, bool)

	// SelfCommand returns the argv re-running this program in autorun mode.
	SelfCommand func(forwarded []string) ([]string, error)
}

func (o Options) registry() *runner.Registry {
	if o.Registry == nil {
		return runner.DefaultRegistry
	}
	return o.Registry
}

func (o Options) stdout() io.Writer {
	if o.Stdout == nil {
		return os.Stdout
	}
	return o.Stdout
}

func (o Options) stderr() io.Writer {
	if o.Stderr == nil {
		return os.Stderr
	}
	return o.Stderr
}

// NewSpecCommand creates the command run by a spec binary: it executes the
// behaviors registered in opts.Registry.
func NewSpecCommand(opts Options) *cobra.Command {
	flags := &CommandFlags{}
	cmd := &cobra.Command{
		Use:   filepath.Base(os.Args[0]),
		Short: "Run the behaviors registered by this program",
		Long: `Runs every behavior registered by the spec sources of this program
and reports the results as a tree, as dots or as JSON.

Configuration is read from .flowp.yaml, .env and FLOWP_* environment
variables; flags override all of them.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpecs(cmd, flags, opts)
		},
	}
	AddCommonFlags(cmd, flags)
	return cmd
}

// Main runs the spec command with args and returns the exit code.
func Main(args []string, opts Options) int {
	cmd := NewSpecCommand(opts)
	cmd.SetArgs(args)
	cmd.SetOut(opts.stdout())
	cmd.SetErr(opts.stderr())

	err := cmd.ExecuteContext(context.Background())
	if shouldPrint(err) {
		fmt.Fprintln(opts.stderr(), FormatError(err))
	}
	return ExitCode(err)
}

// LoadConfig resolves the configuration of a run from the config file,
// dotenv, the environment and the flags set on the command line, then
// initializes logging from it.
func LoadConfig(fs *pflag.FlagSet, flags *CommandFlags, opts Options) (config.FlowpConfig, error) {
	cfg, err := config.Load(config.LoadOptions{
		Dir:        opts.Dir,
		ConfigFile: flags.Config,
		LookupEnv:  opts.LookupEnv,
	})
	if err != nil {
		return cfg, err
	}
	ApplyFlags(fs, flags, &cfg)
	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logging.InitForCLI(level, opts.stderr())
	return cfg, nil
}

func runSpecs(cmd *cobra.Command, flags *CommandFlags, opts Options) error {
	cfg, err := LoadConfig(cmd.Flags(), flags, opts)
	if err != nil {
		return err
	}

	if cfg.Autorun.Enabled && !flags.List {
		selfCommand := opts.SelfCommand
		if selfCommand == nil {
			selfCommand = SelfCommand
		}
		argv, err := selfCommand(ForwardedArgs(cmd.Flags()))
		if err != nil {
			return err
		}
		return RunAutorun(cmd.Context(), cfg, argv, opts)
	}

	stream := runner.NewColorStream(opts.stdout(), cfg.Colors)
	reporter := runner.NewReporter(runner.Format(cfg.Format), stream, cfg.ReportPath)
	r := runner.New(opts.registry(), cfg.Sources, reporter, stream)

	if flags.List {
		d, err := r.Discover()
		if err != nil {
			return err
		}
		RenderTestList(opts.stdout(), d.TestCases(), cfg.Colors)
		return nil
	}

	results, err := r.Run(cmd.Context())
	if err != nil {
		return err
	}
	if !results.WasSuccessful() {
		return &TestsFailedError{
			Failed:  results.Count(runner.ResultFailed),
			Errored: results.Count(runner.ResultError),
		}
	}
	return nil
}

// RunAutorun supervises argv with an autorun loop configured by cfg.
func RunAutorun(ctx context.Context, cfg config.FlowpConfig, argv []string, opts Options) error {
	loopOpts := autorun.FromConfig(cfg.Autorun, argv)
	loopOpts.Dir = opts.Dir
	loopOpts.Stdout = opts.stdout()
	loopOpts.Stderr = opts.stderr()
	loopOpts.Spinner = isTerminal(loopOpts.Stderr)

	loop, err := autorun.New(loopOpts)
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}

// SelfCommand rebuilds and runs the main package of this program through
// `go run`, so changed sources are picked up. Binaries without module
// information re-run the executable as is.
func SelfCommand(forwarded []string) ([]string, error) {
	if info, ok := debug.ReadBuildInfo(); ok && info.Path != "" && info.Path != "command-line-arguments" {
		return append([]string{"go", "run", info.Path}, forwarded...), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	logging.Warn("CLI", "No module information in %s: changes will not be rebuilt", exe)
	return append([]string{exe}, forwarded...), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
