// Package engine executes classified intents against the tool dispatcher
// and records everything it does in an append-only trace.
package engine

import (
	"context"
	"fmt"
	"strings"

	"testweaver/internal/classify"
	"testweaver/internal/tools"
	"testweaver/internal/trace"
	"testweaver/pkg/logging"
)

// Tool names the engine dispatches. They must be registered before a run.
const (
	ToolNavigate      = "browser_navigate"
	ToolClick         = "browser_click"
	ToolFill          = "browser_fill"
	ToolScreenshot    = "browser_screenshot"
	ToolInferSelector = "infer_selector"
)

// Options configures a single run.
type Options struct {
	// TicketKey labels the trace with its originating ticket
	TicketKey string
	// StartURL is opened before the first instruction unless one of the
	// instructions already navigates to it
	StartURL string
	// ScreenshotPrefix names captured screenshots; defaults to "run"
	ScreenshotPrefix string
}

// Engine runs intents sequentially. A failed action is recorded and the
// run continues with the next intent; only context cancellation aborts
// a run early.
type Engine struct {
	dispatcher *tools.Dispatcher
}

// New creates an engine over the given dispatcher.
func New(dispatcher *tools.Dispatcher) *Engine {
	return &Engine{dispatcher: dispatcher}
}

// Run executes the intents in order and returns the trace. The returned
// error is non-nil only when the context was cancelled; action failures
// live in the trace.
func (e *Engine) Run(ctx context.Context, intents []classify.Intent, opts Options) (*trace.Trace, error) {
	tr := trace.New(opts.TicketKey)
	prefix := opts.ScreenshotPrefix
	if prefix == "" {
		prefix = "run"
	}

	logging.Info("Engine", "Starting run %s with %d instruction(s)", tr.RunID, len(intents))

	if opts.StartURL != "" && !navigatesTo(intents, opts.StartURL) {
		tr.StartURL = opts.StartURL
		e.dispatch(ctx, tr, classify.Intent{Kind: classify.KindNavigate, URL: opts.StartURL}, ToolNavigate,
			map[string]interface{}{"url": opts.StartURL}, true)
	}

	for i, intent := range intents {
		if err := ctx.Err(); err != nil {
			return tr, fmt.Errorf("run %s aborted: %w", tr.RunID, err)
		}
		e.executeIntent(ctx, tr, intent, fmt.Sprintf("%s_step_%02d", prefix, i+1))
	}

	// final capture so every run ends with evidence of the page state
	e.dispatch(ctx, tr, classify.Intent{Kind: classify.KindScreenshot}, ToolScreenshot,
		map[string]interface{}{"name": prefix + "_final"}, true)

	logging.Info("Engine", "Run %s finished: %d success, %d failure, %d skipped",
		tr.RunID, tr.CountByStatus(trace.StatusSuccess), tr.CountByStatus(trace.StatusFailure),
		tr.CountByStatus(trace.StatusSkipped))
	return tr, nil
}

// navigatesTo reports whether any intent already opens the URL, so the
// run does not visit it twice.
func navigatesTo(intents []classify.Intent, url string) bool {
	for _, intent := range intents {
		if intent.Kind == classify.KindNavigate && intent.URL == url {
			return true
		}
	}
	return false
}

func (e *Engine) executeIntent(ctx context.Context, tr *trace.Trace, intent classify.Intent, screenshotName string) {
	switch intent.Kind {
	case classify.KindNavigate:
		if tr.StartURL == "" {
			tr.StartURL = intent.URL
		}
		e.dispatch(ctx, tr, intent, ToolNavigate, map[string]interface{}{"url": intent.URL}, false)

	case classify.KindClick:
		selector, ok := e.resolveSelector(ctx, tr, intent)
		if !ok {
			return
		}
		e.dispatch(ctx, tr, intent, ToolClick, map[string]interface{}{"selector": selector}, false)

	case classify.KindFill:
		selector, ok := e.resolveSelector(ctx, tr, intent)
		if !ok {
			return
		}
		e.dispatch(ctx, tr, intent, ToolFill,
			map[string]interface{}{"selector": selector, "value": intent.Value}, false)

	case classify.KindScreenshot:
		e.dispatch(ctx, tr, intent, ToolScreenshot, map[string]interface{}{"name": screenshotName}, false)

	case classify.KindVerify:
		selector, ok := e.resolveSelector(ctx, tr, intent)
		if !ok {
			return
		}
		// capture the page as verification evidence alongside the
		// resolved selector the synthesizer will assert on
		e.dispatch(ctx, tr, intent, ToolScreenshot,
			map[string]interface{}{"name": screenshotName + "_verify", "selector": selector}, false)

	default:
		record := tr.Append(trace.Record{
			Intent: intent,
			Status: trace.StatusSkipped,
			Detail: "no classification rule matched",
		})
		logging.Debug("Engine", "Skipped instruction %d: %q", record.Index, intent.Source)
	}
}

// resolveSelector asks the selector inference tool to turn a target
// description into a concrete selector. On failure it records the miss
// and tells the caller to move on.
func (e *Engine) resolveSelector(ctx context.Context, tr *trace.Trace, intent classify.Intent) (string, bool) {
	result, err := e.dispatcher.Dispatch(ctx, tools.Call{
		Name: ToolInferSelector,
		Args: map[string]interface{}{"description": intent.Target},
	})
	if err != nil {
		e.recordUnresolved(tr, intent, err.Error())
		return "", false
	}
	if !result.OK {
		e.recordUnresolved(tr, intent, result.Message)
		return "", false
	}

	selector, ok := result.TextPayload()
	selector = strings.TrimSpace(selector)
	if !ok || selector == "" {
		e.recordUnresolved(tr, intent, "inference returned no selector")
		return "", false
	}
	return selector, true
}

func (e *Engine) recordUnresolved(tr *trace.Trace, intent classify.Intent, detail string) {
	record := tr.Append(trace.Record{
		Intent: intent,
		Tool:   ToolInferSelector,
		Status: trace.StatusFailure,
		Detail: fmt.Sprintf("target not resolved: %s", detail),
	})
	logging.Warn("Engine", "Could not resolve target %q (record %d): %s", intent.Target, record.Index, detail)
}

// dispatch invokes a tool and appends the outcome to the trace.
func (e *Engine) dispatch(ctx context.Context, tr *trace.Trace, intent classify.Intent, tool string, args map[string]interface{}, synthetic bool) {
	record := trace.Record{
		Intent:    intent,
		Tool:      tool,
		Args:      args,
		Synthetic: synthetic,
	}

	result, err := e.dispatcher.Dispatch(ctx, tools.Call{Name: tool, Args: args})
	switch {
	case err != nil:
		record.Status = trace.StatusFailure
		record.Detail = err.Error()
	case !result.OK:
		record.Status = trace.StatusFailure
		record.Detail = result.Message
	default:
		record.Status = trace.StatusSuccess
	}

	stored := tr.Append(record)
	if stored.Status == trace.StatusFailure {
		logging.Warn("Engine", "Action %d (%s) failed: %s", stored.Index, tool, stored.Detail)
	}
}
