package config

import (
	"os"

	"github.com/fitsync/fitsync/internal/errors"
	"gopkg.in/yaml.v3"
)

// Load reads the configuration file at path. A missing file is not an error:
// the job is expected to run with defaults and env secrets alone, so an
// empty path or absent file yields the default configuration. An explicit
// path that cannot be read still fails.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.ErrConfigNotFound{Path: path}
		}
		return nil, err
	}

	return Parse(substituteEnvVars(content))
}

// LoadOptional behaves like Load but treats a missing default file as "use
// defaults" rather than an error.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if _, ok := err.(*errors.ErrConfigNotFound); ok {
			return Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Parse parses configuration from a byte slice and validates it.
func Parse(data []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &errors.ErrConfigParse{Err: err}
	}

	if err := config.Validate(); err != nil {
		return nil, &errors.ErrConfigValidation{Err: err}
	}

	return &config, nil
}

func substituteEnvVars(content []byte) []byte {
	return []byte(os.ExpandEnv(string(content)))
}
