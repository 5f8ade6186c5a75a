package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*Registry, *Dispatcher) {
	t.Helper()
	registry := NewRegistry()
	return registry, NewDispatcher(registry)
}

func TestDispatchInvokesHandler(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	require.NoError(t, registry.Register(pingDescriptor(), pingHandler))

	result, err := dispatcher.Dispatch(context.Background(), Call{Name: "ping"})
	require.NoError(t, err)
	require.True(t, result.OK)
	text, ok := result.TextPayload()
	require.True(t, ok)
	assert.Equal(t, "pong", text)
}

func TestDispatchUnknownTool(t *testing.T) {
	_, dispatcher := newTestDispatcher(t)

	result, err := dispatcher.Dispatch(context.Background(), Call{Name: "pong"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnknownTool)
	assert.Contains(t, err.Error(), "pong")
}

func TestDispatchMissingRequiredParam(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	descriptor := Descriptor{
		Name: "browser_navigate",
		Params: []ParamSpec{
			{Name: "url", Type: TypeString, Required: true},
		},
	}
	require.NoError(t, registry.Register(descriptor, pingHandler))

	_, err := dispatcher.Dispatch(context.Background(), Call{Name: "browser_navigate"})
	require.Error(t, err)

	var invalidArg *InvalidArgumentError
	require.ErrorAs(t, err, &invalidArg)
	assert.Equal(t, "browser_navigate", invalidArg.Tool)
	assert.Equal(t, "url", invalidArg.Param)
}

func TestDispatchWrongArgumentType(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	descriptor := Descriptor{
		Name: "browser_navigate",
		Params: []ParamSpec{
			{Name: "url", Type: TypeString, Required: true},
		},
	}
	require.NoError(t, registry.Register(descriptor, pingHandler))

	_, err := dispatcher.Dispatch(context.Background(), Call{
		Name: "browser_navigate",
		Args: map[string]interface{}{"url": 42},
	})
	require.Error(t, err)

	var invalidArg *InvalidArgumentError
	require.ErrorAs(t, err, &invalidArg)
	assert.Contains(t, invalidArg.Reason, "expected string")
}

func TestDispatchOptionalParamMayBeOmitted(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	descriptor := Descriptor{
		Name: "browser_screenshot",
		Params: []ParamSpec{
			{Name: "name", Type: TypeString},
		},
	}
	require.NoError(t, registry.Register(descriptor, pingHandler))

	result, err := dispatcher.Dispatch(context.Background(), Call{Name: "browser_screenshot"})
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestDispatchHandlerFailureResult(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	descriptor := Descriptor{Name: "browser_click"}
	handler := func(ctx context.Context, args map[string]interface{}) (*Result, error) {
		return Failure(FailureTargetUnresolved, "no selector matched"), nil
	}
	require.NoError(t, registry.Register(descriptor, handler))

	result, err := dispatcher.Dispatch(context.Background(), Call{Name: "browser_click"})
	require.NoError(t, err)
	require.False(t, result.OK)
	assert.Equal(t, FailureTargetUnresolved, result.Kind)
	assert.Equal(t, "no selector matched", result.Message)
}

func TestDispatchHandlerTransportError(t *testing.T) {
	registry, dispatcher := newTestDispatcher(t)

	sentinel := errors.New("connection reset")
	handler := func(ctx context.Context, args map[string]interface{}) (*Result, error) {
		return nil, sentinel
	}
	require.NoError(t, registry.Register(Descriptor{Name: "flaky"}, handler))

	_, err := dispatcher.Dispatch(context.Background(), Call{Name: "flaky"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}
