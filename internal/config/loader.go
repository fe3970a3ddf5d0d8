package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"flowp/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is looked up in the working directory
	ConfigFileName = ".flowp.yaml"

	// DefaultEnvFile is the dotenv file loaded when present
	DefaultEnvFile = ".env"
)

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// Dir is searched for .flowp.yaml and .env. Defaults to the working directory.
	Dir string
	// ConfigFile names an explicit config file, which must exist.
	ConfigFile string
	// LookupEnv reads the process environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration from defaults, the config file, the dotenv
// file and FLOWP_* environment variables, later sources overriding earlier
// ones. Command line flags are applied by the caller before Validate.
func Load(opts LoadOptions) (FlowpConfig, error) {
	cfg := GetDefaultConfig()

	path := opts.ConfigFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(opts.Dir, ConfigFileName)
	}
	if err := LoadFile(path, explicit, &cfg); err != nil {
		return FlowpConfig{}, err
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	envFile := cfg.EnvFile
	if envFile == "" {
		envFile = filepath.Join(opts.Dir, DefaultEnvFile)
	}
	dotenv, err := readDotenv(envFile, cfg.EnvFile != "")
	if err != nil {
		return FlowpConfig{}, err
	}

	if err := ApplyEnv(&cfg, chainLookup(lookup, dotenv)); err != nil {
		return FlowpConfig{}, err
	}
	return cfg, nil
}

// LoadFile merges the YAML file at path into cfg. A missing file is only an
// error when required is set.
func LoadFile(path string, required bool, cfg *FlowpConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			logging.Debug("ConfigLoader", "No %s found at %s, using defaults", ConfigFileName, path)
			return nil
		}
		return &ConfigurationError{FilePath: path, Message: fmt.Sprintf("cannot read config file: %v", err)}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return &ConfigurationError{FilePath: path, Message: fmt.Sprintf("malformed YAML: %v", err)}
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return nil
}
