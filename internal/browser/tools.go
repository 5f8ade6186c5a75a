package browser

import (
	"context"

	"testweaver/internal/tools"
)

// RegisterTools binds the browser operations to the registry under the
// names the execution engine dispatches.
func RegisterTools(registry *tools.Registry, driver Driver) error {
	entries := []struct {
		descriptor tools.Descriptor
		handler    tools.Handler
	}{
		{
			descriptor: tools.Descriptor{
				Name:        "browser_navigate",
				Description: "Navigate the browser to a URL and wait for the page to load",
				Params: []tools.ParamSpec{
					{Name: "url", Type: tools.TypeString, Required: true, Description: "Absolute URL to open"},
				},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
				url, _ := args["url"].(string)
				if err := driver.Navigate(ctx, url); err != nil {
					return tools.Failuref(tools.FailureExecution, "navigation failed: %v", err), nil
				}
				return tools.Text("navigated to " + url), nil
			},
		},
		{
			descriptor: tools.Descriptor{
				Name:        "browser_click",
				Description: "Click the first element matching a selector",
				Params: []tools.ParamSpec{
					{Name: "selector", Type: tools.TypeString, Required: true, Description: "CSS selector of the element"},
				},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
				selector, _ := args["selector"].(string)
				if err := driver.Click(ctx, selector); err != nil {
					return tools.Failuref(tools.FailureExecution, "click failed: %v", err), nil
				}
				return tools.Text("clicked " + selector), nil
			},
		},
		{
			descriptor: tools.Descriptor{
				Name:        "browser_fill",
				Description: "Type a value into the first element matching a selector",
				Params: []tools.ParamSpec{
					{Name: "selector", Type: tools.TypeString, Required: true, Description: "CSS selector of the input"},
					{Name: "value", Type: tools.TypeString, Required: true, Description: "Text to type"},
				},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
				selector, _ := args["selector"].(string)
				value, _ := args["value"].(string)
				if err := driver.Fill(ctx, selector, value); err != nil {
					return tools.Failuref(tools.FailureExecution, "fill failed: %v", err), nil
				}
				return tools.Text("filled " + selector), nil
			},
		},
		{
			descriptor: tools.Descriptor{
				Name:        "browser_screenshot",
				Description: "Capture a full-page screenshot",
				Params: []tools.ParamSpec{
					{Name: "name", Type: tools.TypeString, Required: true, Description: "File name without extension"},
					{Name: "selector", Type: tools.TypeString, Description: "Selector the capture documents, if any"},
				},
			},
			handler: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
				name, _ := args["name"].(string)
				path, err := driver.Screenshot(ctx, name)
				if err != nil {
					return tools.Failuref(tools.FailureExecution, "screenshot failed: %v", err), nil
				}
				return tools.Text(path), nil
			},
		},
		{
			descriptor: tools.Descriptor{
				Name:        "page_content",
				Description: "Return the HTML of the current page",
			},
			handler: func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
				html, err := driver.PageContent(ctx)
				if err != nil {
					return tools.Failuref(tools.FailureExecution, "content read failed: %v", err), nil
				}
				return tools.Text(html), nil
			},
		},
	}

	for _, entry := range entries {
		if err := registry.Register(entry.descriptor, entry.handler); err != nil {
			return err
		}
	}
	return nil
}
