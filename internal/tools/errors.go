package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTool is returned when registering a tool name that
	// already exists in the registry.
	ErrDuplicateTool = errors.New("tool already registered")

	// ErrUnknownTool is returned when dispatching a call to a name that
	// is not registered.
	ErrUnknownTool = errors.New("unknown tool")
)

// InvalidArgumentError reports a call whose arguments do not satisfy the
// tool's declared parameter schema.
type InvalidArgumentError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument for tool %s: parameter %s: %s", e.Tool, e.Param, e.Reason)
}

// NewUnknownToolError wraps ErrUnknownTool with the offending name.
func NewUnknownToolError(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTool, name)
}

// NewDuplicateToolError wraps ErrDuplicateTool with the conflicting name.
func NewDuplicateToolError(name string) error {
	return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
}
