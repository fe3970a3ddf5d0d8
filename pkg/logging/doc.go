// Package logging provides the structured, subsystem-tagged logger used by the
// flowp runner, its command line tools and the file watcher.
//
// The package is a thin layer over Go's slog package. Every entry carries a
// subsystem name so that diagnostics from discovery, configuration loading,
// the watcher and the autorun loop can be told apart.
//
// # Log Levels
//   - **Debug**: discovery details, watcher events, config resolution
//   - **Info**: lifecycle messages (autorun cycles, configuration files found)
//   - **Warn**: recoverable problems (teardown panics after a failure)
//   - **Error**: failures of the tooling itself
//
// Logs are diagnostics for the operator and always go to the configured
// writer (stderr by default), never to the test report on stdout.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelDebug, os.Stderr)
//
//	logging.Info("Autorun", "Re-running %s", command)
//	logging.Debug("Discovery", "Loaded %d behaviors from %s", n, source)
//	logging.Error("Watcher", err, "Filesystem watcher error")
//
// When InitForCLI has not been called, Warn and Error entries are still
// written to stderr and lower levels are dropped.
//
// # Hooks
//
// AddHook registers an observer that receives every entry passing the level
// filter. Tests use it to assert on diagnostics without parsing text output.
package logging
