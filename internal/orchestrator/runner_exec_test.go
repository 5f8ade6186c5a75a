package orchestrator

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	skipOnWindows(t)
	runner := NewExecRunner(KindAPI, t.TempDir())

	result, err := runner.Run(context.Background(), Suite{
		Name:    "api-smoke",
		Kind:    KindAPI,
		Command: []string{"sh", "-c", "echo all good"},
	})
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Contains(t, result.Output, "all good")
}

func TestExecRunnerNonZeroExitFails(t *testing.T) {
	skipOnWindows(t)
	runner := NewExecRunner(KindIntegration, t.TempDir())

	result, err := runner.Run(context.Background(), Suite{
		Name:    "failing",
		Kind:    KindIntegration,
		Command: []string{"sh", "-c", "echo boom >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Contains(t, result.Error, "code 3")
	assert.Contains(t, result.Output, "boom")
}

func TestExecRunnerPassesEnv(t *testing.T) {
	skipOnWindows(t)
	runner := NewExecRunner(KindAPI, t.TempDir())

	result, err := runner.Run(context.Background(), Suite{
		Name:    "env",
		Kind:    KindAPI,
		Command: []string{"sh", "-c", "echo stage=$STAGE"},
		Env:     map[string]string{"STAGE": "qa"},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Output, "stage=qa")
}

func TestExecRunnerCancelledContext(t *testing.T) {
	skipOnWindows(t)
	runner := NewExecRunner(KindAPI, t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runner.Run(ctx, Suite{
		Name:    "hanging",
		Kind:    KindAPI,
		Command: []string{"sleep", "10"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecRunnerMissingCommand(t *testing.T) {
	runner := NewExecRunner(KindAPI, t.TempDir())

	_, err := runner.Run(context.Background(), Suite{Name: "empty", Kind: KindAPI})
	require.Error(t, err)
}

func TestExecRunnerTruncatesOutput(t *testing.T) {
	skipOnWindows(t)
	runner := NewExecRunner(KindAPI, t.TempDir())
	runner.OutputLimit = 10

	result, err := runner.Run(context.Background(), Suite{
		Name:    "chatty",
		Kind:    KindAPI,
		Command: []string{"sh", "-c", "echo 0123456789abcdef"},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Output, "output truncated")
}
