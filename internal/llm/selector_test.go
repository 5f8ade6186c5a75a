package llm

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"testweaver/internal/tools"
)

// fakeAPI scripts model answers and counts calls.
type fakeAPI struct {
	mu     sync.Mutex
	answer string
	err    error
	calls  int
}

func (f *fakeAPI) complete(ctx context.Context, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = f.calls + 1
	return f.answer, f.err
}

func newFakeInferrer(answer string) (*Inferrer, *fakeAPI) {
	api := &fakeAPI{answer: answer}
	return &Inferrer{api: api, cache: make(map[string]string)}, api
}

func TestInferSelector(t *testing.T) {
	inferrer, _ := newFakeInferrer("button[type='submit']")

	selector, err := inferrer.InferSelector(context.Background(), "submit button", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "button[type='submit']", selector)
}

func TestInferSelectorCleansFencedAnswer(t *testing.T) {
	inferrer, _ := newFakeInferrer("```css\n#login-form .submit\n```")

	selector, err := inferrer.InferSelector(context.Background(), "submit button", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "#login-form .submit", selector)
}

func TestInferSelectorNoMatch(t *testing.T) {
	inferrer, _ := newFakeInferrer("NONE")

	_, err := inferrer.InferSelector(context.Background(), "ghost button", "<html></html>")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSelector)
}

func TestInferSelectorEmptyDescription(t *testing.T) {
	inferrer, _ := newFakeInferrer("#x")

	_, err := inferrer.InferSelector(context.Background(), "   ", "<html></html>")
	require.Error(t, err)
}

func TestInferSelectorCachesAnswers(t *testing.T) {
	inferrer, api := newFakeInferrer("#cached")

	for i := 0; i < 3; i++ {
		selector, err := inferrer.InferSelector(context.Background(), "login button", "<html>same</html>")
		require.NoError(t, err)
		assert.Equal(t, "#cached", selector)
	}
	assert.Equal(t, 1, api.calls)
}

func TestInferSelectorDistinctPagesAreNotConflated(t *testing.T) {
	inferrer, api := newFakeInferrer("#a")

	_, err := inferrer.InferSelector(context.Background(), "login button", "<html>page one</html>")
	require.NoError(t, err)
	_, err = inferrer.InferSelector(context.Background(), "login button", "<html>page two</html>")
	require.NoError(t, err)

	assert.Equal(t, 2, api.calls)
}

func TestRegisterToolSuccess(t *testing.T) {
	inferrer, _ := newFakeInferrer("#target")
	registry := tools.NewRegistry()
	content := func(ctx context.Context) (string, error) { return "<html></html>", nil }
	require.NoError(t, RegisterTool(registry, inferrer, content))

	dispatcher := tools.NewDispatcher(registry)
	result, err := dispatcher.Dispatch(context.Background(), tools.Call{
		Name: "infer_selector",
		Args: map[string]interface{}{"description": "the target"},
	})
	require.NoError(t, err)
	selector, ok := result.TextPayload()
	require.True(t, ok)
	assert.Equal(t, "#target", selector)
}

func TestRegisterToolNoMatchIsFailureResult(t *testing.T) {
	inferrer, _ := newFakeInferrer("NONE")
	registry := tools.NewRegistry()
	content := func(ctx context.Context) (string, error) { return "<html></html>", nil }
	require.NoError(t, RegisterTool(registry, inferrer, content))

	dispatcher := tools.NewDispatcher(registry)
	result, err := dispatcher.Dispatch(context.Background(), tools.Call{
		Name: "infer_selector",
		Args: map[string]interface{}{"description": "ghost"},
	})
	require.NoError(t, err)
	require.False(t, result.OK)
	assert.Equal(t, tools.FailureTargetUnresolved, result.Kind)
}

func TestRegisterToolContentFailure(t *testing.T) {
	inferrer, api := newFakeInferrer("#x")
	registry := tools.NewRegistry()
	content := func(ctx context.Context) (string, error) { return "", errors.New("browser not launched") }
	require.NoError(t, RegisterTool(registry, inferrer, content))

	dispatcher := tools.NewDispatcher(registry)
	result, err := dispatcher.Dispatch(context.Background(), tools.Call{
		Name: "infer_selector",
		Args: map[string]interface{}{"description": "anything"},
	})
	require.NoError(t, err)
	require.False(t, result.OK)
	assert.Contains(t, result.Message, "could not read page content")
	assert.Equal(t, 0, api.calls)
}
