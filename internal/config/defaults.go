package config

import "time"

const (
	// DefaultFormat is the output format used when none is configured
	DefaultFormat = "tree"

	// DefaultSourcePattern selects the spec sources of a package
	DefaultSourcePattern = "spec_*.go"

	// DefaultWatchPattern selects the files watched in autorun mode
	DefaultWatchPattern = "**/*.go"

	// DefaultLogLevel keeps diagnostics quiet unless something goes wrong
	DefaultLogLevel = "warn"

	// DefaultInterval is the pause between autorun cycles
	DefaultInterval = time.Second

	// DefaultDebounce collapses bursts of file events
	DefaultDebounce = 200 * time.Millisecond
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() FlowpConfig {
	return FlowpConfig{
		Colors:   true,
		Format:   DefaultFormat,
		Sources:  []string{DefaultSourcePattern},
		LogLevel: DefaultLogLevel,
		Autorun: AutorunConfig{
			Interval: DefaultInterval,
			Debounce: DefaultDebounce,
			Patterns: []string{DefaultWatchPattern},
		},
	}
}
