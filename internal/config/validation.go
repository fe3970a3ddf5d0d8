package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"flowp/internal/runner"
	"flowp/pkg/logging"
)

// Validate checks cfg and returns every problem as ConfigurationErrors.
func Validate(cfg FlowpConfig) error {
	var errs ConfigurationErrors

	if !isKnownFormat(cfg.Format) {
		errs.Add("format", cfg.Format, "must be one of: %s", strings.Join(formatNames(), ", "))
	}

	if len(cfg.Sources) == 0 {
		errs.Add("sources", cfg.Sources, "at least one source pattern is required")
	}
	for _, p := range cfg.Sources {
		if !doublestar.ValidatePattern(p) {
			errs.Add("sources", p, "invalid pattern %q", p)
		}
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs.Add("log_level", cfg.LogLevel, "must be one of: debug, info, warn, error")
	}

	if cfg.Autorun.Interval < 0 {
		errs.Add("autorun.interval", cfg.Autorun.Interval, "must not be negative")
	}
	if cfg.Autorun.Debounce < 0 {
		errs.Add("autorun.debounce", cfg.Autorun.Debounce, "must not be negative")
	}
	if cfg.Autorun.Enabled && len(cfg.Autorun.Patterns) == 0 {
		errs.Add("autorun.patterns", cfg.Autorun.Patterns, "at least one watch pattern is required")
	}
	for _, p := range cfg.Autorun.Patterns {
		if !doublestar.ValidatePattern(p) {
			errs.Add("autorun.patterns", p, "invalid pattern %q", p)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func isKnownFormat(format string) bool {
	for _, f := range runner.Formats {
		if string(f) == format {
			return true
		}
	}
	return false
}

func formatNames() []string {
	names := make([]string, len(runner.Formats))
	for i, f := range runner.Formats {
		names[i] = string(f)
	}
	return names
}
