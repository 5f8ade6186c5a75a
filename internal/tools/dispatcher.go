package tools

import (
	"context"
	"fmt"

	"testweaver/pkg/logging"
)

// Dispatcher validates and routes tool calls against a registry.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Dispatch validates the call against the tool's declared schema and
// invokes its handler. It returns ErrUnknownTool for unregistered names
// and InvalidArgumentError when a required parameter is missing or an
// argument has the wrong type. Handler failures are reported through the
// Result, not the error.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (*Result, error) {
	descriptor, handler, ok := d.registry.Lookup(call.Name)
	if !ok {
		return nil, NewUnknownToolError(call.Name)
	}

	if err := validateArgs(descriptor, call.Args); err != nil {
		return nil, err
	}

	logging.Debug("Dispatch", "Invoking tool %s with %d argument(s)", call.Name, len(call.Args))

	result, err := handler(ctx, call.Args)
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", call.Name, err)
	}
	if !result.OK {
		logging.Debug("Dispatch", "Tool %s reported failure: %s", call.Name, result.Message)
	}
	return result, nil
}

// validateArgs checks required presence and wire types for every declared
// parameter. Undeclared arguments are passed through untouched.
func validateArgs(descriptor Descriptor, args map[string]interface{}) error {
	for _, param := range descriptor.Params {
		value, present := args[param.Name]
		if !present {
			if param.Required {
				return &InvalidArgumentError{
					Tool:   descriptor.Name,
					Param:  param.Name,
					Reason: "required parameter missing",
				}
			}
			continue
		}
		if !typeMatches(param.Type, value) {
			return &InvalidArgumentError{
				Tool:   descriptor.Name,
				Param:  param.Name,
				Reason: fmt.Sprintf("expected %s, got %T", param.Type, value),
			}
		}
	}
	return nil
}

func typeMatches(t ParamType, value interface{}) bool {
	switch t {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		switch value.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := value.(bool)
		return ok
	case TypeObject:
		_, ok := value.(map[string]interface{})
		return ok
	case TypeArray:
		_, ok := value.([]interface{})
		return ok
	}
	return true
}
