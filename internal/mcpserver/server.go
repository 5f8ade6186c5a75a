// Package mcpserver exposes the tool registry over the Model Context
// Protocol so MCP clients can drive the same tools the execution engine
// uses.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"testweaver/internal/tools"
	"testweaver/pkg/logging"
)

// Server wraps the registry in an MCP server on stdio transport.
type Server struct {
	dispatcher *tools.Dispatcher
	mcpServer  *server.MCPServer
}

// New creates an MCP server exposing every tool in the registry.
func New(name, version string, registry *tools.Registry) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
	)

	s := &Server{
		dispatcher: tools.NewDispatcher(registry),
		mcpServer:  mcpServer,
	}

	for _, descriptor := range registry.List() {
		mcpServer.AddTool(convertDescriptor(descriptor), s.createToolHandler(descriptor.Name))
	}
	logging.Info("MCPServer", "Registered %d tool(s)", registry.Count())
	return s
}

// convertDescriptor maps a registry descriptor onto an MCP tool schema.
func convertDescriptor(descriptor tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(descriptor.Description)}
	for _, param := range descriptor.Params {
		var propOpts []mcp.PropertyOption
		if param.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if param.Description != "" {
			propOpts = append(propOpts, mcp.Description(param.Description))
		}
		switch param.Type {
		case tools.TypeNumber:
			opts = append(opts, mcp.WithNumber(param.Name, propOpts...))
		case tools.TypeBoolean:
			opts = append(opts, mcp.WithBoolean(param.Name, propOpts...))
		case tools.TypeObject:
			opts = append(opts, mcp.WithObject(param.Name, propOpts...))
		case tools.TypeArray:
			opts = append(opts, mcp.WithArray(param.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(param.Name, propOpts...))
		}
	}
	return mcp.NewTool(descriptor.Name, opts...)
}

// createToolHandler adapts a dispatched tool to the MCP handler shape.
// Failed results become MCP error results, not protocol errors, so the
// client sees them as tool outcomes.
func (s *Server) createToolHandler(toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.dispatcher.Dispatch(ctx, tools.Call{
			Name: toolName,
			Args: request.GetArguments(),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !result.OK {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s", result.Kind, result.Message)), nil
		}
		return mcp.NewToolResultText(payloadText(result.Payload)), nil
	}
}

func payloadText(payload interface{}) string {
	switch value := payload.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		if data, err := json.Marshal(value); err == nil {
			return string(data)
		}
		return fmt.Sprintf("%v", value)
	}
}

// ServeStdio blocks serving the MCP protocol on stdin and stdout. All
// logging must go to stderr while serving.
func (s *Server) ServeStdio() error {
	logging.Info("MCPServer", "Serving on stdio transport")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("mcp server stopped: %w", err)
	}
	return nil
}
