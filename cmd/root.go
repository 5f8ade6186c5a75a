package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeTestsFailed indicates the run finished but not every suite passed.
	ExitCodeTestsFailed = 2
)

var (
	configPath string
	debug      bool
)

// rootCmd represents the base command for the testweaver application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "testweaver",
	Short: "Turn tickets into executed browser tests and Playwright specs",
	Long: `testweaver reads test instructions from tickets, executes them in a
real browser, and synthesizes runnable Playwright specs from what
actually happened. It can also orchestrate whole suites of web, API and
integration tests and aggregate their results into one report.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "testweaver version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if _, ok := err.(*testsFailedError); ok {
		return ExitCodeTestsFailed
	}
	return ExitCodeError
}

// testsFailedError signals that the run itself worked but suites failed.
type testsFailedError struct {
	message string
}

func (e *testsFailedError) Error() string {
	return e.message
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", "",
		"Configuration directory (default is $HOME/.config/testweaver)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
}
