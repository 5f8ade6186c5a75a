package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"testweaver/pkg/logging"
)

// ExecRunner runs api and integration suites by executing their external
// commands, e.g. a newman collection or a pytest module. The process
// exit code decides success.
type ExecRunner struct {
	kind Kind
	// WorkDir is the working directory for launched commands
	WorkDir string
	// OutputLimit caps captured combined output; zero means 64 KiB
	OutputLimit int
}

// NewExecRunner creates a runner for the given command-backed kind.
func NewExecRunner(kind Kind, workDir string) *ExecRunner {
	return &ExecRunner{kind: kind, WorkDir: workDir}
}

// Kind returns the kind this runner was created for.
func (r *ExecRunner) Kind() Kind {
	return r.kind
}

// Run launches the suite command and waits for it. Cancellation kills
// the process. A non-zero exit is a completed-but-failed suite, not a
// runner error.
func (r *ExecRunner) Run(ctx context.Context, suite Suite) (*SuiteResult, error) {
	if len(suite.Command) == 0 {
		return nil, fmt.Errorf("suite %s has no command", suite.Name)
	}

	cmd := exec.CommandContext(ctx, suite.Command[0], suite.Command[1:]...)
	cmd.Dir = r.WorkDir
	cmd.Env = os.Environ()
	for key, value := range suite.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	logging.Debug("Orchestrator", "Suite %s running command %v", suite.Name, suite.Command)
	err := cmd.Run()

	if ctx.Err() != nil {
		return nil, fmt.Errorf("suite %s command interrupted: %w", suite.Name, ctx.Err())
	}

	result := &SuiteResult{
		State:  StateCompleted,
		Output: r.truncate(output.String()),
	}
	switch {
	case err == nil:
		result.Succeeded = true
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Error = fmt.Sprintf("command exited with code %d", exitErr.ExitCode())
		} else {
			return nil, fmt.Errorf("suite %s command failed to start: %w", suite.Name, err)
		}
	}
	return result, nil
}

func (r *ExecRunner) truncate(s string) string {
	limit := r.OutputLimit
	if limit == 0 {
		limit = 64 << 10
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "\n... output truncated"
}
