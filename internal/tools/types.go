package tools

import (
	"context"
	"fmt"
)

// ParamType enumerates the wire types a tool parameter may declare.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// ParamSpec declares a single named parameter of a tool.
type ParamSpec struct {
	// Name is the argument key callers must use
	Name string
	// Type is the expected wire type of the argument value
	Type ParamType
	// Required marks the parameter as mandatory; dispatch rejects calls
	// that omit it
	Required bool
	// Description explains the parameter for tool listings
	Description string
}

// Descriptor describes a named capability exposed through the dispatcher.
// Descriptors are immutable after registration.
type Descriptor struct {
	// Name is the unique tool identifier
	Name string
	// Description is the human-readable tool summary
	Description string
	// Params is the declared parameter schema
	Params []ParamSpec
}

// RequiredParams returns the names of all required parameters.
func (d Descriptor) RequiredParams() []string {
	var names []string
	for _, p := range d.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

// Call is a single tool invocation: the tool name plus its argument map.
// A Call is never mutated after dispatch.
type Call struct {
	Name string
	Args map[string]interface{}
}

// Handler executes a tool call against its backing collaborator.
// Handlers return a Result for expected outcomes (including collaborator
// failures) and an error only for transport-level problems.
type Handler func(ctx context.Context, args map[string]interface{}) (*Result, error)

// FailureKind categorizes a failed tool result.
type FailureKind string

const (
	// FailureExecution indicates the collaborator reported an error
	FailureExecution FailureKind = "tool_execution_error"
	// FailureTargetUnresolved indicates selector inference could not
	// produce a concrete target
	FailureTargetUnresolved FailureKind = "target_unresolved"
)

// Result is the outcome of a dispatched tool call: either a success
// carrying an opaque payload, or a failure carrying a kind and message.
// The dispatcher never interprets payloads.
type Result struct {
	OK      bool
	Payload interface{}
	Kind    FailureKind
	Message string
}

// Text returns a successful Result with a plain-text payload.
func Text(payload string) *Result {
	return &Result{OK: true, Payload: payload}
}

// Success returns a successful Result with an arbitrary payload.
func Success(payload interface{}) *Result {
	return &Result{OK: true, Payload: payload}
}

// Failure returns a failed Result with the given kind and message.
func Failure(kind FailureKind, message string) *Result {
	return &Result{OK: false, Kind: kind, Message: message}
}

// Failuref returns a failed Result with a formatted message.
func Failuref(kind FailureKind, format string, args ...interface{}) *Result {
	return &Result{OK: false, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TextPayload returns the payload as a string when it is one.
func (r *Result) TextPayload() (string, bool) {
	s, ok := r.Payload.(string)
	return s, ok
}
