package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"testweaver/internal/classify"
	"testweaver/internal/engine"
	"testweaver/internal/synth"
	"testweaver/internal/ticket"
	"testweaver/internal/tools"
	"testweaver/internal/trace"
)

var (
	runTicket    string
	runStepsFile string
	runStartURL  string
	runName      string
	runNoScript  bool
)

// runCmd executes a single ticket's instructions in the browser and
// synthesizes a Playwright spec from the result.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a ticket's test instructions and generate a Playwright spec",
	Long: `Run fetches a ticket (or reads an instruction file), classifies each
instruction line, executes the resulting actions in a real browser and
writes a Playwright spec replaying exactly what happened.

Failed actions do not stop the run: they are recorded and appear as
comments in the generated spec.

Examples:
  testweaver run --ticket PROJ-42
  testweaver run --steps-file ./login.txt --name "login flow"
  testweaver run --ticket PROJ-42 --start-url https://staging.example.com`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if runTicket == "" && runStepsFile == "" {
			return fmt.Errorf("either --ticket or --steps-file is required")
		}
		return nil
	},
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	app, err := newApplication(false)
	if err != nil {
		return err
	}
	defer app.close()

	description, err := resolveDescription(cmd, app)
	if err != nil {
		return err
	}

	instructions := ticket.Parse(description)
	if len(instructions) == 0 {
		return fmt.Errorf("no instructions found")
	}
	intents := classify.ClassifyAll(instructions)

	startURL := runStartURL
	if startURL == "" {
		startURL = ticket.FirstURL(instructions)
	}

	eng := engine.New(tools.NewDispatcher(app.registry))
	tr, err := eng.Run(cmd.Context(), intents, engine.Options{
		TicketKey: runTicket,
		StartURL:  startURL,
	})
	if err != nil {
		return err
	}

	printTrace(cmd, tr)

	if !runNoScript {
		generator := synth.NewGenerator(app.config.Output.ScriptDir)
		output, err := generator.Write(tr, synth.RenderOptions{TestName: scriptName(tr)})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nSpec written to %s\n", output.SpecPath)
		for _, created := range output.Created {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", created)
		}
	}

	if tr.HasFailures() {
		return &testsFailedError{message: fmt.Sprintf("%d action(s) failed", tr.CountByStatus(trace.StatusFailure))}
	}
	return nil
}

func resolveDescription(cmd *cobra.Command, app *application) (string, error) {
	if runStepsFile != "" {
		data, err := os.ReadFile(runStepsFile)
		if err != nil {
			return "", fmt.Errorf("failed to read steps file: %w", err)
		}
		return string(data), nil
	}

	description := app.fetcher.FetchDescription(cmd.Context(), runTicket)
	if ticket.FetchFailed(description) {
		return "", fmt.Errorf("failed to fetch ticket %s: %s", runTicket, description)
	}
	return description, nil
}

func scriptName(tr *trace.Trace) string {
	if runName != "" {
		return runName
	}
	if tr.TicketKey != "" {
		return tr.TicketKey
	}
	return "run"
}

// printTrace renders the executed actions as a table.
func printTrace(cmd *cobra.Command, tr *trace.Trace) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Instruction", "Tool", "Status", "Detail"})

	for _, record := range tr.Records() {
		source := record.Intent.Source
		if source == "" && record.Synthetic {
			source = "(added by run)"
		}
		t.AppendRow(table.Row{
			record.Index + 1,
			text.Snip(source, 50, "..."),
			record.Tool,
			statusCell(record.Status),
			text.Snip(record.Detail, 40, "..."),
		})
	}
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\nRun %s: %d succeeded, %d failed, %d skipped (started %s)\n",
		tr.RunID,
		tr.CountByStatus(trace.StatusSuccess),
		tr.CountByStatus(trace.StatusFailure),
		tr.CountByStatus(trace.StatusSkipped),
		tr.StartedAt.Format(time.RFC3339))
}

func statusCell(status trace.Status) string {
	switch status {
	case trace.StatusSuccess:
		return text.FgGreen.Sprint("ok")
	case trace.StatusFailure:
		return text.FgRed.Sprint("failed")
	default:
		return text.FgYellow.Sprint("skipped")
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runTicket, "ticket", "", "Ticket key to fetch instructions from")
	runCmd.Flags().StringVar(&runStepsFile, "steps-file", "", "File with instruction lines instead of a ticket")
	runCmd.Flags().StringVar(&runStartURL, "start-url", "", "URL to open before the first instruction")
	runCmd.Flags().StringVar(&runName, "name", "", "Test name for the generated spec")
	runCmd.Flags().BoolVar(&runNoScript, "no-script", false, "Skip Playwright spec generation")
	runCmd.MarkFlagsMutuallyExclusive("ticket", "steps-file")
}
