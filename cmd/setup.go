package cmd

import (
	"fmt"
	"os"

	"testweaver/internal/browser"
	"testweaver/internal/config"
	"testweaver/internal/jira"
	"testweaver/internal/llm"
	"testweaver/internal/synth"
	"testweaver/internal/ticket"
	"testweaver/internal/tools"
	"testweaver/pkg/logging"
)

// application bundles the wired collaborators every command works with.
type application struct {
	config   config.Config
	registry *tools.Registry
	session  *browser.Session
	fetcher  ticket.Fetcher
}

// loadConfig resolves the configuration directory and loads it.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// newApplication wires the full tool registry: browser tools, selector
// inference, ticket fetching and dry script generation.
func newApplication(stdioMode bool) (*application, error) {
	level := logging.LevelInfo
	if debug {
		level = logging.LevelDebug
	}
	if stdioMode {
		// stdout carries the MCP protocol, logs must not touch it
		logging.InitForStdio(level)
	} else {
		logging.InitForCLI(level, os.Stdout)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	registry := tools.NewRegistry()
	session := browser.NewSession(cfg.Browser)
	if err := browser.RegisterTools(registry, session); err != nil {
		return nil, fmt.Errorf("failed to register browser tools: %w", err)
	}

	inferrer := llm.NewInferrer(cfg.LLM)
	if err := llm.RegisterTool(registry, inferrer, session.PageContent); err != nil {
		return nil, fmt.Errorf("failed to register selector inference: %w", err)
	}

	fetcher := jira.NewClient(cfg.Jira)
	if err := jira.RegisterTool(registry, fetcher); err != nil {
		return nil, fmt.Errorf("failed to register ticket fetching: %w", err)
	}

	if err := synth.RegisterTool(registry, synth.NewGenerator(cfg.Output.ScriptDir)); err != nil {
		return nil, fmt.Errorf("failed to register script generation: %w", err)
	}

	return &application{
		config:   cfg,
		registry: registry,
		session:  session,
		fetcher:  fetcher,
	}, nil
}

// close releases the browser if it was launched.
func (a *application) close() {
	if err := a.session.Close(); err != nil {
		logging.Warn("CLI", "Failed to close browser: %v", err)
	}
}
