// Package llm infers CSS selectors from human element descriptions by
// showing a language model the current page content.
package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/singleflight"

	"testweaver/pkg/logging"
)

// noMatchMarker is what the model answers when nothing on the page fits.
const noMatchMarker = "NONE"

// maxPageContent caps how much HTML is sent with a single inference.
const maxPageContent = 60_000

const systemPrompt = `You turn element descriptions into CSS selectors.
You are given the HTML of a web page and a description of one element on it.
Reply with exactly one CSS selector that uniquely matches the described element.
Prefer stable attributes: id, name, data-testid, aria-label, type.
Reply with the selector only, no explanation and no code fences.
If no element on the page matches the description, reply with exactly ` + noMatchMarker + `.`

// Config holds model connection settings.
type Config struct {
	// APIKey authenticates against the completion API
	APIKey string `yaml:"apiKey"`
	// Model is the completion model name
	Model string `yaml:"model"`
	// BaseURL overrides the API endpoint for compatible providers
	BaseURL string `yaml:"baseURL,omitempty"`
}

// ErrNoSelector is returned when the model finds no matching element.
var ErrNoSelector = fmt.Errorf("no selector matched the description")

// completionAPI is the slice of the SDK the inferrer uses; tests
// substitute a fake.
type completionAPI interface {
	complete(ctx context.Context, system, user string) (string, error)
}

// Inferrer resolves element descriptions to selectors. Identical
// in-flight descriptions are deduplicated and answers are cached for
// the lifetime of the inferrer, so one run never pays twice for the
// same phrase.
type Inferrer struct {
	api    completionAPI
	flight singleflight.Group

	mu    sync.Mutex
	cache map[string]string
}

// NewInferrer creates an inferrer backed by the OpenAI-compatible API.
func NewInferrer(config Config) *Inferrer {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &Inferrer{
		api:   &openaiAPI{client: &client, model: config.Model},
		cache: make(map[string]string),
	}
}

// InferSelector returns a CSS selector for the described element, or
// ErrNoSelector when the model reports no match.
func (inf *Inferrer) InferSelector(ctx context.Context, description, pageContent string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", fmt.Errorf("empty element description")
	}

	if len(pageContent) > maxPageContent {
		pageContent = pageContent[:maxPageContent]
	}
	key := description + "\x00" + fingerprint(pageContent)

	inf.mu.Lock()
	if cached, ok := inf.cache[key]; ok {
		inf.mu.Unlock()
		return cached, nil
	}
	inf.mu.Unlock()

	value, err, _ := inf.flight.Do(key, func() (interface{}, error) {
		user := fmt.Sprintf("Page HTML:\n%s\n\nElement description: %s", pageContent, description)
		answer, err := inf.api.complete(ctx, systemPrompt, user)
		if err != nil {
			return nil, fmt.Errorf("selector inference failed: %w", err)
		}

		selector := cleanAnswer(answer)
		if selector == "" || strings.EqualFold(selector, noMatchMarker) {
			return nil, ErrNoSelector
		}
		logging.Debug("LLM", "Resolved %q to selector %q", description, selector)
		return selector, nil
	})
	if err != nil {
		return "", err
	}

	selector := value.(string)
	inf.mu.Lock()
	if inf.cache == nil {
		inf.cache = make(map[string]string)
	}
	inf.cache[key] = selector
	inf.mu.Unlock()
	return selector, nil
}

// cleanAnswer strips code fences, quotes and surrounding noise the model
// sometimes adds despite the prompt.
func cleanAnswer(answer string) string {
	selector := strings.TrimSpace(answer)
	selector = strings.TrimPrefix(selector, "```css")
	selector = strings.TrimPrefix(selector, "```")
	selector = strings.TrimSuffix(selector, "```")
	selector = strings.Trim(selector, "`\"' \n\t")
	// keep only the first line if the model wrote several
	if idx := strings.IndexByte(selector, '\n'); idx >= 0 {
		selector = strings.TrimSpace(selector[:idx])
	}
	return selector
}

// fingerprint keys the flight group without holding full page copies.
func fingerprint(content string) string {
	if len(content) <= 64 {
		return content
	}
	return fmt.Sprintf("%d:%s:%s", len(content), content[:32], content[len(content)-32:])
}

// openaiAPI adapts the SDK to completionAPI.
type openaiAPI struct {
	client *openai.Client
	model  string
}

func (a *openaiAPI) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Opt[float64](0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
