package jira

import (
	"context"

	"testweaver/internal/ticket"
	"testweaver/internal/tools"
)

// RegisterTool binds ticket fetching to the registry. The tool always
// succeeds at the transport level; fetch problems come back as failure
// results carrying the human-readable message.
func RegisterTool(registry *tools.Registry, fetcher ticket.Fetcher) error {
	descriptor := tools.Descriptor{
		Name:        "fetch_ticket",
		Description: "Fetch the description text of a ticket by key",
		Params: []tools.ParamSpec{
			{Name: "key", Type: tools.TypeString, Required: true, Description: "Ticket key, e.g. PROJ-42"},
		},
	}

	handler := func(ctx context.Context, args map[string]interface{}) (*tools.Result, error) {
		key, _ := args["key"].(string)
		description := fetcher.FetchDescription(ctx, key)
		if ticket.FetchFailed(description) {
			return tools.Failure(tools.FailureExecution, description), nil
		}
		return tools.Text(description), nil
	}

	return registry.Register(descriptor, handler)
}
