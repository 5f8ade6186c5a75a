// Package jira fetches ticket descriptions from a Jira-compatible REST
// API. Fetch results are always strings: failures come back as readable
// error messages so they can be surfaced directly to the caller.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"testweaver/pkg/logging"
)

// Config holds connection settings for a Jira instance.
type Config struct {
	// BaseURL is the instance root, e.g. https://company.atlassian.net
	BaseURL string `yaml:"baseURL"`
	// Email is the account used for basic auth
	Email string `yaml:"email"`
	// APIToken is the API token paired with Email
	APIToken string `yaml:"apiToken"`
	// Timeout bounds a single fetch; zero means 30s
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// Client retrieves ticket descriptions. It implements ticket.Fetcher.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a Jira client from config.
func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		http:   &http.Client{Timeout: timeout},
	}
}

// issueResponse is the subset of the issue API payload we read.
type issueResponse struct {
	Fields struct {
		Description string `json:"description"`
		Summary     string `json:"summary"`
	} `json:"fields"`
}

// FetchDescription returns the ticket's description text, or an error
// message starting with "Error" when the ticket cannot be retrieved.
// It never returns a Go error; callers use ticket.FetchFailed to tell
// the two apart.
func (c *Client) FetchDescription(ctx context.Context, key string) string {
	if c.config.BaseURL == "" {
		return "Error: Jira base URL is not configured"
	}

	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s?fields=description,summary",
		c.config.BaseURL, url.PathEscape(key))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Sprintf("Error building request for %s: %v", key, err)
	}
	req.SetBasicAuth(c.config.Email, c.config.APIToken)
	req.Header.Set("Accept", "application/json")

	logging.Debug("Jira", "Fetching ticket %s", key)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching ticket %s: %v", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return fmt.Sprintf("Error: ticket %s not found", key)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("Error: not authorized to read ticket %s (status %d)", key, resp.StatusCode)
	default:
		return fmt.Sprintf("Error fetching ticket %s: unexpected status %d", key, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Sprintf("Error reading response for ticket %s: %v", key, err)
	}

	var issue issueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return fmt.Sprintf("Error decoding response for ticket %s: %v", key, err)
	}

	if issue.Fields.Description == "" {
		return fmt.Sprintf("Error: ticket %s has no description", key)
	}

	logging.Debug("Jira", "Fetched ticket %s (%d bytes of description)", key, len(issue.Fields.Description))
	return issue.Fields.Description
}
