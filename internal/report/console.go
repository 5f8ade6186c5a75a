// Package report renders orchestrated run results for humans (console
// table, HTML page) and machines (JSON).
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"testweaver/internal/orchestrator"
)

// WriteConsole renders the run as a table followed by the overall
// verdict.
func WriteConsole(w io.Writer, result *orchestrator.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Suite", "Kind", "State", "Result", "Duration", "Detail"})

	for _, suite := range result.Suites {
		detail := suite.Error
		if detail == "" {
			detail = suite.Output
		}
		t.AppendRow(table.Row{
			suite.Name,
			suite.Kind,
			suite.State,
			verdictCell(suite),
			suite.Duration.Round(time.Millisecond),
			text.Snip(detail, 60, "..."),
		})
	}
	t.Render()

	fmt.Fprintf(w, "\nRun %s finished in %s: %s\n",
		result.RunID, result.Duration.Round(time.Millisecond), statusLabel(result.Overall))
}

func verdictCell(suite orchestrator.SuiteResult) string {
	switch {
	case suite.Passed():
		return text.FgGreen.Sprint("PASS")
	case suite.State == orchestrator.StateTimedOut:
		return text.FgYellow.Sprint("TIMEOUT")
	case suite.State == orchestrator.StateErrored:
		return text.FgRed.Sprint("ERROR")
	default:
		return text.FgRed.Sprint("FAIL")
	}
}

func statusLabel(status orchestrator.OverallStatus) string {
	switch status {
	case orchestrator.OverallSuccess:
		return text.FgGreen.Sprint("success")
	case orchestrator.OverallPartial:
		return text.FgYellow.Sprint("partial success")
	default:
		return text.FgRed.Sprint("failure")
	}
}
