package cmd

import (
	"os"
	"os/exec"

	"flowp/internal/cli"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// newRunCmd creates the command building and running a spec package.
func newRunCmd() *cobra.Command {
	flags := &cli.CommandFlags{}
	cmd := &cobra.Command{
		Use:   "run [package]",
		Short: "Build and run a spec package",
		Long: `Build the spec package (default: the current directory) with go run
and execute its behaviors. The run flags are passed on to the spec program.

With --autorun the package is rebuilt and run again whenever a watched
file changes, until interrupted.`,
		Example: `  flowp run ./examples/login
  flowp run --format dots --sources 'spec_login*.go'
  flowp run -a`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, flags, args)
		},
	}
	cli.AddCommonFlags(cmd, flags)
	return cmd
}

func runPackage(cmd *cobra.Command, flags *cli.CommandFlags, args []string) error {
	opts := cli.Options{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	cfg, err := cli.LoadConfig(cmd.Flags(), flags, opts)
	if err != nil {
		return err
	}

	argv := packageCommand(args, cmd.Flags())
	if cfg.Autorun.Enabled && !flags.List {
		return cli.RunAutorun(cmd.Context(), cfg, argv, opts)
	}

	child := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = opts.Stdout
	child.Stderr = opts.Stderr
	return child.Run()
}

// packageCommand returns the go run invocation of the spec package.
func packageCommand(args []string, fs *pflag.FlagSet) []string {
	pkg := "."
	if len(args) == 1 {
		pkg = args[0]
	}
	return append([]string{"go", "run", pkg}, cli.ForwardedArgs(fs)...)
}
