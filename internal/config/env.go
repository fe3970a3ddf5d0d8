package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"flowp/pkg/logging"
)

// EnvPrefix prefixes every environment variable read by flowp.
const EnvPrefix = "FLOWP_"

// readDotenv parses a dotenv file without touching the process environment.
func readDotenv(path string, required bool) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, &ConfigurationError{Field: "env_file", Value: path, Message: fmt.Sprintf("cannot load dotenv file: %v", err)}
	}
	logging.Debug("ConfigLoader", "Loaded %d variables from %s", len(values), path)
	return values, nil
}

// chainLookup prefers the process environment over dotenv values, as
// godotenv.Load would.
func chainLookup(lookup func(string) (string, bool), dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// ApplyEnv overrides cfg with FLOWP_* variables. NO_COLOR disables colors.
func ApplyEnv(cfg *FlowpConfig, lookup func(string) (string, bool)) error {
	var errs ConfigurationErrors

	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}
	parseBool := func(name string, target *bool) {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs.Add(EnvPrefix+name, v, "must be a boolean")
				return
			}
			*target = b
		}
	}
	parseDuration := func(name string, target *time.Duration) {
		if v, ok := get(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs.Add(EnvPrefix+name, v, "must be a duration such as 500ms or 2s")
				return
			}
			*target = d
		}
	}
	parseList := func(name string, target *[]string) {
		if v, ok := get(name); ok {
			*target = splitList(v)
		}
	}

	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		cfg.Colors = false
	}
	parseBool("COLORS", &cfg.Colors)
	if v, ok := get("FORMAT"); ok {
		cfg.Format = v
	}
	parseList("SOURCES", &cfg.Sources)
	if v, ok := get("REPORT_PATH"); ok {
		cfg.ReportPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	parseBool("AUTORUN", &cfg.Autorun.Enabled)
	parseDuration("AUTORUN_INTERVAL", &cfg.Autorun.Interval)
	parseDuration("AUTORUN_DEBOUNCE", &cfg.Autorun.Debounce)
	parseList("AUTORUN_PATTERNS", &cfg.Autorun.Patterns)
	if v, ok := get("AUTORUN_COMMAND"); ok {
		cfg.Autorun.Command = strings.Fields(v)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
