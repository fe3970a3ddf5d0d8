// Package config provides configuration management for flowp.
//
// Settings are resolved in layers, each overriding the previous one:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. the .flowp.yaml file of the working directory, or the file given with --config
//  3. a dotenv file (.env, or env_file from the config file)
//  4. FLOWP_* environment variables
//  5. command line flags, applied by the cli package
//
// Validate then checks the merged result. Every problem is reported as a
// ConfigurationError; the run aborts with exit status 2 before any test runs.
//
// # Configuration File
//
//	colors: true          # ANSI colors (NO_COLOR or FLOWP_COLORS=false disable them)
//	format: tree          # tree, dots or json
//	sources:              # spec source patterns, doublestar syntax
//	  - "spec_*.go"
//	report_path: reports  # also save a JSON report of every run here
//	log_level: warn       # debug, info, warn or error
//	autorun:
//	  enabled: false
//	  interval: 1s        # pause between cycles
//	  debounce: 200ms     # quiet period collapsing a burst of changes
//	  patterns:
//	    - "**/*.go"
//	  command: ["go", "run", "./specs"]
//
// # Environment
//
// FLOWP_COLORS, FLOWP_FORMAT, FLOWP_SOURCES (comma separated),
// FLOWP_REPORT_PATH, FLOWP_LOG_LEVEL, FLOWP_AUTORUN, FLOWP_AUTORUN_INTERVAL,
// FLOWP_AUTORUN_DEBOUNCE, FLOWP_AUTORUN_PATTERNS and FLOWP_AUTORUN_COMMAND.
package config
