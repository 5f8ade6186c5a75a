package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	config, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, config.Browser.Headless)
	assert.Equal(t, "screenshots", config.Browser.ScreenshotDir)
	assert.Equal(t, "generated", config.Output.ScriptDir)
	assert.Equal(t, "reports", config.Output.ReportDir)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
jira:
  baseURL: https://company.atlassian.net
  email: qa@example.com
browser:
  headless: false
output:
  reportDir: out/reports
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	config, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://company.atlassian.net", config.Jira.BaseURL)
	assert.False(t, config.Browser.Headless)
	assert.Equal(t, "out/reports", config.Output.ReportDir)
	// untouched values keep their defaults
	assert.Equal(t, "generated", config.Output.ScriptDir)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("jira: ["), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TESTWEAVER_JIRA_TOKEN", "secret-token")
	t.Setenv("TESTWEAVER_JIRA_EMAIL", "env@example.com")

	config, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "secret-token", config.Jira.APIToken)
	assert.Equal(t, "env@example.com", config.Jira.Email)
}
