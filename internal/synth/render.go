// Package synth turns execution traces into Playwright TypeScript specs.
// Rendering is deterministic: the same trace and clock always produce the
// same script text.
package synth

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"

	"testweaver/internal/classify"
	"testweaver/internal/engine"
	"testweaver/internal/trace"
)

// RenderOptions controls script rendering.
type RenderOptions struct {
	// TestName is the Playwright test title; defaults to the ticket key
	// or the run ID when no ticket is set
	TestName string
	// Now supplies the generation timestamp; defaults to time.Now
	Now func() time.Time
}

// step is one rendered line of the generated test body.
type step struct {
	// Code is the TypeScript statement; empty for comment-only steps
	Code string
	// Comment explains a failed or skipped action
	Comment string
}

type scriptModel struct {
	TestName    string
	RunID       string
	TicketKey   string
	GeneratedAt string
	Steps       []step
}

var scriptTemplate = template.Must(template.New("spec").Funcs(sprig.TxtFuncMap()).Parse(
	`// Generated from run {{ .RunID }}{{ if .TicketKey }} (ticket {{ .TicketKey }}){{ end }} at {{ .GeneratedAt }}
import { test, expect } from '@playwright/test';

test({{ .TestName | squote }}, async ({ page }) => {
{{- range .Steps }}
{{- if .Comment }}
  // {{ .Comment }}
{{- end }}
{{- if .Code }}
  {{ .Code }}
{{- end }}
{{- end }}
});
`))

// Render produces the spec text for a trace.
func Render(tr *trace.Trace, opts RenderOptions) (string, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	name := opts.TestName
	if name == "" {
		name = tr.TicketKey
	}
	if name == "" {
		name = "run " + tr.RunID
	}

	model := scriptModel{
		TestName:    name,
		RunID:       tr.RunID,
		TicketKey:   tr.TicketKey,
		GeneratedAt: now().UTC().Format(time.RFC3339),
	}
	for _, record := range tr.Records() {
		rendered := renderStep(record)
		if record.Synthetic && rendered.Comment == "" {
			rendered.Comment = "added automatically, not from a ticket instruction"
		}
		model.Steps = append(model.Steps, rendered)
	}

	var out strings.Builder
	if err := scriptTemplate.Execute(&out, model); err != nil {
		return "", fmt.Errorf("failed to render script: %w", err)
	}
	return out.String(), nil
}

// renderStep maps one trace record to a script line. Failed and skipped
// actions become comments so the generated spec still tells the whole
// story of the run.
func renderStep(record trace.Record) step {
	switch record.Status {
	case trace.StatusSkipped:
		return step{Comment: fmt.Sprintf("step %d skipped: %s", record.Index+1, record.Intent.Source)}
	case trace.StatusFailure:
		return step{Comment: fmt.Sprintf("step %d failed (%s): %s", record.Index+1, record.Tool, record.Detail)}
	}

	switch record.Tool {
	case engine.ToolNavigate:
		return step{Code: fmt.Sprintf("await page.goto(%s, { waitUntil: 'networkidle' });",
			tsString(argString(record, "url")))}
	case engine.ToolClick:
		selector := tsString(argString(record, "selector"))
		return step{Code: fmt.Sprintf("await page.waitForSelector(%s, { state: 'visible' });\n  await page.click(%s);",
			selector, selector)}
	case engine.ToolFill:
		selector := tsString(argString(record, "selector"))
		return step{Code: fmt.Sprintf("await page.waitForSelector(%s, { state: 'visible' });\n  await page.fill(%s, %s);",
			selector, selector, tsString(argString(record, "value")))}
	case engine.ToolScreenshot:
		return renderScreenshot(record)
	}
	return step{Comment: fmt.Sprintf("step %d used unmapped tool %s", record.Index+1, record.Tool)}
}

// renderScreenshot emits a visibility assertion first when the capture
// was verification evidence for a resolved selector.
func renderScreenshot(record trace.Record) step {
	name := argString(record, "name")
	capture := fmt.Sprintf("await page.screenshot({ path: %s, fullPage: true });",
		tsString("screenshots/"+name+".png"))

	if record.Intent.Kind == classify.KindVerify {
		if selector := argString(record, "selector"); selector != "" {
			assertion := fmt.Sprintf("await expect(page.locator(%s)).toBeVisible();", tsString(selector))
			return step{Code: assertion + "\n  " + capture}
		}
	}
	return step{Code: capture}
}

func argString(record trace.Record, key string) string {
	value, _ := record.Args[key].(string)
	return value
}

// tsString quotes a value as a single-quoted TypeScript string literal.
func tsString(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "'", `\'`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	return "'" + escaped + "'"
}
