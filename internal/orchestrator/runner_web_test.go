package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testweaver/internal/engine"
	"testweaver/internal/synth"
	"testweaver/internal/tools"
)

// stubFetcher returns canned ticket descriptions.
type stubFetcher struct {
	descriptions map[string]string
}

func (s *stubFetcher) FetchDescription(ctx context.Context, key string) string {
	if description, ok := s.descriptions[key]; ok {
		return description
	}
	return "Error: ticket " + key + " not found"
}

func newWebEngine(t *testing.T, selectorOK bool) *engine.Engine {
	t.Helper()
	registry := tools.NewRegistry()

	ok := func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
		return tools.Text("ok"), nil
	}
	for _, name := range []string{engine.ToolNavigate, engine.ToolClick, engine.ToolFill, engine.ToolScreenshot} {
		require.NoError(t, registry.Register(tools.Descriptor{Name: name}, ok))
	}
	selector := func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
		if !selectorOK {
			return tools.Failure(tools.FailureTargetUnresolved, "no match"), nil
		}
		return tools.Text("#target"), nil
	}
	require.NoError(t, registry.Register(tools.Descriptor{Name: engine.ToolInferSelector}, selector))

	return engine.New(tools.NewDispatcher(registry))
}

func TestWebRunnerInlineStepsSucceed(t *testing.T) {
	runner := NewWebRunner(newWebEngine(t, true), nil, synth.NewGenerator(t.TempDir()))

	suite := Suite{
		Name: "login flow",
		Kind: KindWeb,
		Steps: []string{
			"Navigate to https://example.com/login",
			"Click on Sign in",
			"Check for the dashboard",
		},
	}

	result, err := runner.Run(context.Background(), suite)
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.FileExists(t, result.Output)
}

func TestWebRunnerTicketFlow(t *testing.T) {
	fetcher := &stubFetcher{descriptions: map[string]string{
		"PROJ-42": "Navigate to https://example.com\r\nClick on Sign in",
	}}
	runner := NewWebRunner(newWebEngine(t, true), fetcher, nil)

	result, err := runner.Run(context.Background(), Suite{Name: "ticket flow", Kind: KindWeb, Ticket: "PROJ-42"})
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Empty(t, result.Output)
}

func TestWebRunnerFetchFailure(t *testing.T) {
	runner := NewWebRunner(newWebEngine(t, true), &stubFetcher{}, nil)

	_, err := runner.Run(context.Background(), Suite{Name: "missing", Kind: KindWeb, Ticket: "PROJ-404"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch ticket PROJ-404")
}

func TestWebRunnerUnresolvedTargetFailsSuite(t *testing.T) {
	runner := NewWebRunner(newWebEngine(t, false), nil, nil)

	suite := Suite{
		Name:  "broken",
		Kind:  KindWeb,
		Steps: []string{"Navigate to https://example.com", "Click on the ghost button"},
	}

	result, err := runner.Run(context.Background(), suite)
	require.NoError(t, err)
	assert.False(t, result.Succeeded)
	assert.Contains(t, result.Error, "target not resolved")
}

func TestWebRunnerWithoutFetcherNeedsSteps(t *testing.T) {
	runner := NewWebRunner(newWebEngine(t, true), nil, nil)

	_, err := runner.Run(context.Background(), Suite{Name: "no steps", Kind: KindWeb, Ticket: "PROJ-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fetcher is configured")
}
