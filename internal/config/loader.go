package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"testweaver/pkg/logging"
)

const (
	userConfigDir  = ".config/testweaver"
	configFileName = "config.yaml"
)

// DefaultPath returns the per-user configuration directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// Load reads config.yaml from the given directory. A missing file is not
// an error: defaults are returned. Environment variables override the
// secrets so they never have to live in the file.
func Load(configPath string) (Config, error) {
	config := Default()

	configFilePath := filepath.Join(configPath, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			applyEnvOverrides(&config)
			return config, nil
		}
		return Config{}, fmt.Errorf("error reading config from %s: %w", configFilePath, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)

	applyEnvOverrides(&config)
	return config, nil
}

// applyEnvOverrides lets credentials come from the environment.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TESTWEAVER_JIRA_TOKEN"); v != "" {
		config.Jira.APIToken = v
	}
	if v := os.Getenv("TESTWEAVER_JIRA_EMAIL"); v != "" {
		config.Jira.Email = v
	}
	if v := os.Getenv("TESTWEAVER_JIRA_URL"); v != "" {
		config.Jira.BaseURL = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && config.LLM.APIKey == "" {
		config.LLM.APIKey = v
	}
}
