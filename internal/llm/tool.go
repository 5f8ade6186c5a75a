package llm

import (
	"context"
	"errors"

	"testweaver/internal/tools"
)

// SelectorInferrer resolves element descriptions to CSS selectors.
type SelectorInferrer interface {
	InferSelector(ctx context.Context, description, pageContent string) (string, error)
}

// PageContentFunc supplies the HTML of the page currently under test.
type PageContentFunc func(ctx context.Context) (string, error)

// RegisterTool binds selector inference to the registry. An unmatched
// description comes back as a target_unresolved failure result, not an
// error, so execution can continue past it.
func RegisterTool(registry *tools.Registry, inferrer SelectorInferrer, pageContent PageContentFunc) error {
	descriptor := tools.Descriptor{
		Name:        "infer_selector",
		Description: "Resolve a human element description to a CSS selector using the current page content",
		Params: []tools.ParamSpec{
			{Name: "description", Type: tools.TypeString, Required: true, Description: "What the element is, in plain words"},
		},
	}

	handler := func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
		description, _ := args["description"].(string)

		html, err := pageContent(ctx)
		if err != nil {
			return tools.Failuref(tools.FailureTargetUnresolved, "could not read page content: %v", err), nil
		}

		selector, err := inferrer.InferSelector(ctx, description, html)
		if errors.Is(err, ErrNoSelector) {
			return tools.Failuref(tools.FailureTargetUnresolved, "no element matched %q", description), nil
		}
		if err != nil {
			return nil, err
		}
		return tools.Text(selector), nil
	}

	return registry.Register(descriptor, handler)
}
