package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"testweaver/internal/orchestrator"
	"testweaver/pkg/logging"
)

// Writer persists run reports into a directory.
type Writer struct {
	// Dir is the report output directory, created on demand
	Dir string
}

// NewWriter creates a report writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteHTML renders the run as a standalone HTML page. The filename
// embeds the start time and run ID so successive runs never collide.
func (w *Writer) WriteHTML(result *orchestrator.RunResult) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(w.Dir, w.fileName(result, "html"))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := htmlTemplate.Execute(file, htmlModel(result)); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	logging.Info("Report", "Wrote HTML report %s", path)
	return path, nil
}

// WriteJSON persists the raw run result for machine consumption.
func (w *Writer) WriteJSON(result *orchestrator.RunResult) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run result: %w", err)
	}

	path := filepath.Join(w.Dir, w.fileName(result, "json"))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	logging.Info("Report", "Wrote JSON report %s", path)
	return path, nil
}

func (w *Writer) fileName(result *orchestrator.RunResult, ext string) string {
	return fmt.Sprintf("run_%s_%s.%s",
		result.StartedAt.UTC().Format("20060102_150405"), result.RunID, ext)
}

type htmlView struct {
	RunID     string
	Overall   orchestrator.OverallStatus
	StartedAt string
	Duration  string
	Passed    int
	Total     int
	Suites    []htmlSuite
}

type htmlSuite struct {
	Name     string
	Kind     orchestrator.Kind
	State    orchestrator.State
	Verdict  string
	Class    string
	Duration string
	Detail   string
}

func htmlModel(result *orchestrator.RunResult) htmlView {
	view := htmlView{
		RunID:     result.RunID,
		Overall:   result.Overall,
		StartedAt: result.StartedAt.UTC().Format(time.RFC3339),
		Duration:  result.Duration.Round(time.Millisecond).String(),
		Total:     len(result.Suites),
	}
	for _, suite := range result.Suites {
		entry := htmlSuite{
			Name:     suite.Name,
			Kind:     suite.Kind,
			State:    suite.State,
			Duration: suite.Duration.Round(time.Millisecond).String(),
			Detail:   suite.Error,
		}
		if entry.Detail == "" {
			entry.Detail = suite.Output
		}
		switch {
		case suite.Passed():
			view.Passed++
			entry.Verdict, entry.Class = "PASS", "pass"
		case suite.State == orchestrator.StateTimedOut:
			entry.Verdict, entry.Class = "TIMEOUT", "warn"
		case suite.State == orchestrator.StateErrored:
			entry.Verdict, entry.Class = "ERROR", "fail"
		default:
			entry.Verdict, entry.Class = "FAIL", "fail"
		}
		view.Suites = append(view.Suites, entry)
	}
	return view
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Test Run {{ .RunID }}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.5em 0.8em; text-align: left; }
th { background: #f4f4f4; }
.pass { color: #1a7f37; font-weight: bold; }
.fail { color: #c0392b; font-weight: bold; }
.warn { color: #b7791f; font-weight: bold; }
.summary { margin: 1em 0; }
</style>
</head>
<body>
<h1>Test Run Report</h1>
<div class="summary">
<p>Run <code>{{ .RunID }}</code> started {{ .StartedAt }}, took {{ .Duration }}.</p>
<p>Overall: <strong class="{{ if eq .Overall "success" }}pass{{ else if eq .Overall "partial_success" }}warn{{ else }}fail{{ end }}">{{ .Overall }}</strong>
({{ .Passed }}/{{ .Total }} suites passed)</p>
</div>
<table>
<tr><th>Suite</th><th>Kind</th><th>State</th><th>Result</th><th>Duration</th><th>Detail</th></tr>
{{ range .Suites }}
<tr>
<td>{{ .Name }}</td>
<td>{{ .Kind }}</td>
<td>{{ .State }}</td>
<td class="{{ .Class }}">{{ .Verdict }}</td>
<td>{{ .Duration }}</td>
<td>{{ .Detail }}</td>
</tr>
{{ end }}
</table>
</body>
</html>
`))
