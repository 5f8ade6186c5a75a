package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"testweaver/internal/classify"
	"testweaver/internal/engine"
	"testweaver/internal/synth"
	"testweaver/internal/ticket"
	"testweaver/internal/trace"
	"testweaver/pkg/logging"
)

// WebRunner executes web suites: it resolves the suite's instructions,
// runs them through the execution engine and synthesizes a Playwright
// spec from the trace.
type WebRunner struct {
	engine    *engine.Engine
	fetcher   ticket.Fetcher
	generator *synth.Generator
}

// NewWebRunner creates a web runner. The fetcher may be nil when every
// suite carries inline steps; the generator may be nil to skip script
// synthesis.
func NewWebRunner(eng *engine.Engine, fetcher ticket.Fetcher, generator *synth.Generator) *WebRunner {
	return &WebRunner{engine: eng, fetcher: fetcher, generator: generator}
}

// Kind returns KindWeb.
func (r *WebRunner) Kind() Kind {
	return KindWeb
}

// Run executes the suite's browser flow. The suite succeeds when the
// trace contains no failed actions.
func (r *WebRunner) Run(ctx context.Context, suite Suite) (*SuiteResult, error) {
	instructions, err := r.resolveInstructions(ctx, suite)
	if err != nil {
		return nil, err
	}

	intents := classify.ClassifyAll(instructions)
	startURL := suite.StartURL
	if startURL == "" {
		startURL = ticket.FirstURL(instructions)
	}

	tr, err := r.engine.Run(ctx, intents, engine.Options{
		TicketKey:        suite.Ticket,
		StartURL:         startURL,
		ScreenshotPrefix: slugPrefix(suite.Name),
	})
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{
		State:     StateCompleted,
		Succeeded: !tr.HasFailures(),
	}
	if tr.HasFailures() {
		result.Error = firstFailureDetail(tr)
	}

	if r.generator != nil {
		output, err := r.generator.Write(tr, synth.RenderOptions{TestName: suite.Name})
		if err != nil {
			// the run itself is still valid evidence, keep its result
			logging.Error("Orchestrator", err, "Failed to synthesize script for suite %s", suite.Name)
			result.Error = joinErrors(result.Error, fmt.Sprintf("script synthesis failed: %v", err))
		} else {
			result.Output = output.SpecPath
		}
	}
	return result, nil
}

// resolveInstructions prefers inline steps and falls back to fetching
// and parsing the suite's ticket.
func (r *WebRunner) resolveInstructions(ctx context.Context, suite Suite) ([]ticket.Instruction, error) {
	if len(suite.Steps) > 0 {
		return ticket.Parse(strings.Join(suite.Steps, "\n")), nil
	}

	if r.fetcher == nil {
		return nil, fmt.Errorf("suite %s references ticket %s but no fetcher is configured", suite.Name, suite.Ticket)
	}

	description := r.fetcher.FetchDescription(ctx, suite.Ticket)
	if ticket.FetchFailed(description) {
		return nil, fmt.Errorf("failed to fetch ticket %s: %s", suite.Ticket, description)
	}
	return ticket.Parse(description), nil
}

func firstFailureDetail(tr *trace.Trace) string {
	for _, record := range tr.Records() {
		if record.Status == trace.StatusFailure {
			return fmt.Sprintf("action %d (%s): %s", record.Index+1, record.Tool, record.Detail)
		}
	}
	return ""
}

func joinErrors(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}

// slugPrefix derives a screenshot prefix from a suite name.
func slugPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
