package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"flowp/internal/cli"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the flowp application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flowp",
	Short: "Run behavior specs written with flowp",
	Long: `flowp runs behavior specs: Go programs whose spec sources describe
behaviors with the behave package. It builds a spec package, reports its
results as a colored tree and can re-run it whenever a source file changes.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute, which knows which ones the spec program already reported.
	SilenceErrors: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "flowp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		if shouldReport(err) {
			fmt.Fprintln(os.Stderr, cli.FormatError(err))
		}
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// A spec program that ran reports its own outcome, so its status is kept.
func getExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return cli.ExitCode(err)
}

func shouldReport(err error) bool {
	var exitErr *exec.ExitError
	return !errors.As(err, &exitErr)
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())
}
