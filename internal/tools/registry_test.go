package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pingDescriptor() Descriptor {
	return Descriptor{
		Name:        "ping",
		Description: "Responds with pong",
	}
}

func pingHandler(ctx context.Context, args map[string]interface{}) (*Result, error) {
	return Text("pong"), nil
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(pingDescriptor(), pingHandler)
	require.NoError(t, err)

	descriptor, handler, ok := registry.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, "ping", descriptor.Name)
	assert.NotNil(t, handler)
	assert.True(t, registry.Has("ping"))
	assert.Equal(t, 1, registry.Count())
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(pingDescriptor(), pingHandler))

	err := registry.Register(pingDescriptor(), pingHandler)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)

	// the original binding must survive the failed registration
	_, handler, ok := registry.Lookup("ping")
	require.True(t, ok)
	result, err := handler(context.Background(), nil)
	require.NoError(t, err)
	text, ok := result.TextPayload()
	require.True(t, ok)
	assert.Equal(t, "pong", text)
}

func TestRegistryListPreservesRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, registry.Register(Descriptor{Name: name}, pingHandler))
	}
	// rejected duplicate must not disturb the order
	require.Error(t, registry.Register(Descriptor{Name: "alpha"}, pingHandler))

	descriptors := registry.List()
	require.Len(t, descriptors, 3)
	assert.Equal(t, "zeta", descriptors[0].Name)
	assert.Equal(t, "alpha", descriptors[1].Name)
	assert.Equal(t, "mid", descriptors[2].Name)
}

func TestRequiredParams(t *testing.T) {
	descriptor := Descriptor{
		Name: "browser_fill",
		Params: []ParamSpec{
			{Name: "selector", Type: TypeString, Required: true},
			{Name: "value", Type: TypeString, Required: true},
			{Name: "timeout", Type: TypeNumber},
		},
	}

	assert.Equal(t, []string{"selector", "value"}, descriptor.RequiredParams())
}
