// Package cli implements the command line of flowp spec programs.
//
// A spec program is a main package whose spec sources register behaviors
// and whose main function calls behave.Main, which in turn calls Main here.
// The `flowp run` command of the flowp binary shares the same flags and
// configuration handling.
//
// # Flags
//
//	--nocolors        disable colored output
//	--autorun, -a     re-run the specs whenever a watched file changes
//	--interval        pause between autorun cycles
//	--format          tree, dots or json
//	--sources         spec source pattern, doublestar syntax, repeatable
//	--config          configuration file (default ./.flowp.yaml)
//	--report          directory receiving a JSON report of the run
//	--debug           log diagnostics to stderr
//	--list            list the discovered tests without running them
//
// Only flags given on the command line override the configuration loaded
// by the config package.
//
// # Exit codes
//
// Main returns ExitCodeSuccess when no test failed or errored,
// ExitCodeConfiguration when the configuration is invalid (no test runs)
// and ExitCodeFailure otherwise.
package cli
