package config

import "time"

// FlowpConfig is the top-level configuration structure for a flowp run.
type FlowpConfig struct {
	Colors     bool          `yaml:"colors"`                // Emit ANSI colors (default: true)
	Format     string        `yaml:"format"`                // Output format: tree, dots or json (default: tree)
	Sources    []string      `yaml:"sources"`               // Spec source patterns (default: spec_*.go)
	ReportPath string        `yaml:"report_path,omitempty"` // Directory receiving a JSON report of every run
	LogLevel   string        `yaml:"log_level"`             // Diagnostics level (default: warn)
	EnvFile    string        `yaml:"env_file,omitempty"`    // Dotenv file loaded before reading FLOWP_* variables
	Autorun    AutorunConfig `yaml:"autorun"`
}

// AutorunConfig controls re-running specs when files change.
type AutorunConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"` // Pause between cycles (default: 1s)
	Debounce time.Duration `yaml:"debounce"` // Quiet period collapsing a burst of changes (default: 200ms)
	Patterns []string      `yaml:"patterns"` // Watched files, doublestar syntax (default: **/*.go)
	Command  []string      `yaml:"command,omitempty"`
}
