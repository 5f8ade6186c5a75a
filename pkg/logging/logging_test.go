package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestCLILoggingRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("Test", "debug message %d", 1)
	assert.Empty(t, buf.String(), "debug should be suppressed at info level")

	Info("Test", "info message")
	assert.Contains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "subsystem=Test")
}

func TestErrorIncludesWrappedError(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelError, &buf)

	Error("Dispatch", assert.AnError, "dispatch failed for %s", "browser_click")

	out := buf.String()
	assert.Contains(t, out, "dispatch failed for browser_click")
	assert.True(t, strings.Contains(out, "error="), "error attribute should be present")
}
