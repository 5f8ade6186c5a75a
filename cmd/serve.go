package cmd

import (
	"github.com/spf13/cobra"

	"testweaver/internal/mcpserver"
)

// serveCmd exposes the tool registry over the Model Context Protocol.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tools over MCP on stdio",
	Long: `Serve starts a Model Context Protocol server on stdin/stdout exposing
the same tools the run command uses: browser control, selector
inference, ticket fetching and script generation. Point an MCP client
at the testweaver binary with this subcommand to drive tests
interactively.

All logging goes to stderr; stdout carries the protocol.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApplication(true)
	if err != nil {
		return err
	}
	defer app.close()

	server := mcpserver.New("testweaver", GetVersion(), app.registry)
	return server.ServeStdio()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
