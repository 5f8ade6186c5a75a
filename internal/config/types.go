// Package config loads the application configuration from YAML with
// sensible defaults for everything that is not set.
package config

import (
	"testweaver/internal/browser"
	"testweaver/internal/jira"
	"testweaver/internal/llm"
)

// Config is the top-level configuration.
type Config struct {
	Jira    jira.Config    `yaml:"jira"`
	Browser browser.Config `yaml:"browser"`
	LLM     llm.Config     `yaml:"llm"`
	Output  OutputConfig   `yaml:"output"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	// ScriptDir is the generated Playwright project root
	ScriptDir string `yaml:"scriptDir,omitempty"`
	// ReportDir is where run reports land
	ReportDir string `yaml:"reportDir,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Browser: browser.Config{
			Headless:      true,
			ScreenshotDir: "screenshots",
		},
		LLM: llm.Config{
			Model: "gpt-4o-mini",
		},
		Output: OutputConfig{
			ScriptDir: "generated",
			ReportDir: "reports",
		},
	}
}
