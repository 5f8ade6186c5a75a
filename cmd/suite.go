package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"testweaver/internal/engine"
	"testweaver/internal/orchestrator"
	"testweaver/internal/report"
	"testweaver/internal/synth"
	"testweaver/internal/tools"
)

var (
	suitePath        string
	suiteNames       []string
	suiteTag         string
	suiteParallel    bool
	suiteMaxParallel int
	suiteTimeout     time.Duration
	suiteWorkDir     string
	suiteJSONReport  bool
)

// suiteCmd orchestrates whole test suites across kinds.
var suiteCmd = &cobra.Command{
	Use:   "suite",
	Short: "Run test suites defined in YAML and aggregate their results",
	Long: `Suite loads suite definitions from a YAML file or directory and runs
them through their kind runners: web suites execute ticket instructions
in a browser, api, integration and performance suites run their
external commands.

Suites run sequentially by default; --parallel runs them concurrently.
A --timeout bounds the whole run and marks unfinished suites as timed
out. The run result is the three-way aggregate over all suites:
success, failure or partial_success.

Examples:
  testweaver suite --path ./suites
  testweaver suite --path ./suites --parallel --timeout 10m
  testweaver suite --path ./suites/smoke.yaml --suite login-flow --suite api-smoke
  testweaver suite --path ./suites --tag smoke --parallel --max-parallel 4`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if suitePath == "" {
			return fmt.Errorf("--path is required")
		}
		if suiteMaxParallel < 0 || suiteMaxParallel > 50 {
			return fmt.Errorf("--max-parallel must be between 0 and 50, got %d", suiteMaxParallel)
		}
		return nil
	},
	RunE: runSuite,
}

func runSuite(cmd *cobra.Command, args []string) error {
	app, err := newApplication(false)
	if err != nil {
		return err
	}
	defer app.close()

	suites, err := orchestrator.LoadSuites(suitePath)
	if err != nil {
		return err
	}
	suites = orchestrator.FilterSuites(suites, suiteNames, suiteTag)
	if len(suites) == 0 {
		return fmt.Errorf("no suites matched the selection")
	}

	eng := engine.New(tools.NewDispatcher(app.registry))
	generator := synth.NewGenerator(app.config.Output.ScriptDir)

	orch, err := orchestrator.New(
		orchestrator.NewWebRunner(eng, app.fetcher, generator),
		orchestrator.NewExecRunner(orchestrator.KindAPI, suiteWorkDir),
		orchestrator.NewExecRunner(orchestrator.KindIntegration, suiteWorkDir),
		orchestrator.NewExecRunner(orchestrator.KindPerformance, suiteWorkDir),
	)
	if err != nil {
		return err
	}

	result, err := orch.Run(cmd.Context(), suites, orchestrator.Options{
		Parallel:    suiteParallel,
		MaxParallel: suiteMaxParallel,
		Timeout:     suiteTimeout,
	})
	if err != nil {
		return err
	}

	report.WriteConsole(cmd.OutOrStdout(), result)

	writer := report.NewWriter(app.config.Output.ReportDir)
	htmlPath, err := writer.WriteHTML(result)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "HTML report: %s\n", htmlPath)

	if suiteJSONReport {
		jsonPath, err := writer.WriteJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "JSON report: %s\n", jsonPath)
	}

	if result.Overall != orchestrator.OverallSuccess {
		return &testsFailedError{message: fmt.Sprintf("run finished with status %s", result.Overall)}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(suiteCmd)

	suiteCmd.Flags().StringVar(&suitePath, "path", "", "Suite YAML file or directory")
	suiteCmd.Flags().StringArrayVar(&suiteNames, "suite", nil, "Run only the named suite (repeatable)")
	suiteCmd.Flags().StringVar(&suiteTag, "tag", "", "Run only suites carrying this tag")
	suiteCmd.Flags().BoolVar(&suiteParallel, "parallel", false, "Run suites concurrently")
	suiteCmd.Flags().IntVar(&suiteMaxParallel, "max-parallel", 0, "Bound concurrency when --parallel is set (0 = unbounded)")
	suiteCmd.Flags().DurationVar(&suiteTimeout, "timeout", 0, "Deadline for the whole run (0 = none)")
	suiteCmd.Flags().StringVar(&suiteWorkDir, "work-dir", "", "Working directory for suite commands")
	suiteCmd.Flags().BoolVar(&suiteJSONReport, "json-report", false, "Also write a JSON report")
}
