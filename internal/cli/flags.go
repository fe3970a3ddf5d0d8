package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"flowp/internal/config"
)

// CommandFlags holds the flag values shared by the spec binary and
// `flowp run`. Only flags set on the command line override configuration.
type CommandFlags struct {
	NoColors bool
	Autorun  bool
	Interval time.Duration
	Format   string
	Sources  []string
	Config   string
	Report   string
	Debug    bool
	List     bool
}

// flags that only concern the process supervising an autorun loop
var supervisorFlags = map[string]bool{
	"autorun":  true,
	"interval": true,
}

// AddCommonFlags registers the run flags on cmd.
func AddCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	fs := cmd.Flags()
	fs.BoolVar(&flags.NoColors, "nocolors", false, "Disable colored output")
	fs.BoolVarP(&flags.Autorun, "autorun", "a", false, "Re-run the specs whenever a watched file changes")
	fs.DurationVar(&flags.Interval, "interval", config.DefaultInterval, "Pause between autorun cycles")
	fs.StringVar(&flags.Format, "format", config.DefaultFormat, "Output format: tree, dots or json")
	fs.StringArrayVar(&flags.Sources, "sources", []string{config.DefaultSourcePattern}, "Spec source pattern (doublestar syntax), repeatable")
	fs.StringVar(&flags.Config, "config", "", "Configuration file (default: ./"+config.ConfigFileName+")")
	fs.StringVar(&flags.Report, "report", "", "Directory receiving a JSON report of the run")
	fs.BoolVar(&flags.Debug, "debug", false, "Log diagnostics to stderr")
	fs.BoolVar(&flags.List, "list", false, "List the discovered tests without running them")
}

// ApplyFlags copies the flags set on the command line into cfg.
func ApplyFlags(fs *pflag.FlagSet, flags *CommandFlags, cfg *config.FlowpConfig) {
	if fs.Changed("nocolors") && flags.NoColors {
		cfg.Colors = false
	}
	if fs.Changed("autorun") {
		cfg.Autorun.Enabled = flags.Autorun
	}
	if fs.Changed("interval") {
		cfg.Autorun.Interval = flags.Interval
	}
	if fs.Changed("format") {
		cfg.Format = flags.Format
	}
	if fs.Changed("sources") {
		cfg.Sources = flags.Sources
	}
	if fs.Changed("report") {
		cfg.ReportPath = flags.Report
	}
	if fs.Changed("debug") && flags.Debug {
		cfg.LogLevel = "debug"
	}
}

// ForwardedArgs renders the flags set on the command line back into
// arguments for a child run, leaving out the autorun flags so the child
// runs exactly once.
func ForwardedArgs(fs *pflag.FlagSet) []string {
	var args []string
	fs.Visit(func(f *pflag.Flag) {
		if supervisorFlags[f.Name] {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, value := range sv.GetSlice() {
				args = append(args, fmt.Sprintf("--%s=%s", f.Name, value))
			}
			return
		}
		args = append(args, fmt.Sprintf("--%s=%s", f.Name, f.Value.String()))
	})
	return args
}
