// Package orchestrator coordinates test suites of different kinds,
// running them in parallel or sequentially under a shared deadline and
// aggregating their outcomes into a single run result.
package orchestrator

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "90s" or "2m".
type Duration time.Duration

// UnmarshalYAML parses Go duration syntax.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in Go syntax.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// String renders the duration in Go syntax.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// Kind identifies how a suite is executed.
type Kind string

const (
	// KindWeb runs browser flows derived from tickets or inline steps
	KindWeb Kind = "web"
	// KindAPI runs an external API test command
	KindAPI Kind = "api"
	// KindIntegration runs an external integration test command
	KindIntegration Kind = "integration"
	// KindPerformance runs an external load test command
	KindPerformance Kind = "performance"
)

// ValidKinds lists every supported suite kind.
var ValidKinds = []Kind{KindWeb, KindAPI, KindIntegration, KindPerformance}

// Suite describes one runnable test suite.
type Suite struct {
	// Name uniquely identifies the suite within a run
	Name string `yaml:"name"`
	// Kind selects the runner
	Kind Kind `yaml:"kind"`
	// Description is optional documentation
	Description string `yaml:"description,omitempty"`
	// Tags supports suite filtering
	Tags []string `yaml:"tags,omitempty"`

	// Ticket is the ticket key a web suite derives its steps from
	Ticket string `yaml:"ticket,omitempty"`
	// Steps are inline instruction lines, an alternative to Ticket
	Steps []string `yaml:"steps,omitempty"`
	// StartURL overrides the URL a web run opens first
	StartURL string `yaml:"startURL,omitempty"`

	// Command is the external command an api, integration or
	// performance suite runs
	Command []string `yaml:"command,omitempty"`
	// Env adds environment variables for the external command
	Env map[string]string `yaml:"env,omitempty"`

	// Timeout bounds this suite alone; zero inherits the run timeout
	Timeout Duration `yaml:"timeout,omitempty"`
}

// Validate checks that the suite is well formed for its kind.
func (s Suite) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("suite has no name")
	}
	switch s.Kind {
	case KindWeb:
		if s.Ticket == "" && len(s.Steps) == 0 {
			return fmt.Errorf("web suite %s needs a ticket or inline steps", s.Name)
		}
	case KindAPI, KindIntegration, KindPerformance:
		if len(s.Command) == 0 {
			return fmt.Errorf("%s suite %s needs a command", s.Kind, s.Name)
		}
	default:
		return fmt.Errorf("suite %s has unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// HasTag reports whether the suite carries the given tag.
func (s Suite) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// State tracks a suite through its lifecycle.
type State string

const (
	// StatePending means the suite has not started
	StatePending State = "pending"
	// StateRunning means the suite is executing
	StateRunning State = "running"
	// StateCompleted means the runner finished, pass or fail
	StateCompleted State = "completed"
	// StateTimedOut means the run deadline expired first
	StateTimedOut State = "timed_out"
	// StateErrored means the runner itself failed
	StateErrored State = "errored"
)

// SuiteResult is the outcome of one suite execution.
type SuiteResult struct {
	Name  string `yaml:"name" json:"name"`
	Kind  Kind   `yaml:"kind" json:"kind"`
	State State  `yaml:"state" json:"state"`
	// Succeeded is meaningful only in StateCompleted
	Succeeded bool `yaml:"succeeded" json:"succeeded"`
	// Error carries the failure, timeout or runner error message
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
	// Output is runner-specific detail, e.g. command output or a
	// generated script path
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	StartedAt time.Time     `yaml:"startedAt" json:"startedAt"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
}

// Passed reports whether the suite completed successfully.
func (r SuiteResult) Passed() bool {
	return r.State == StateCompleted && r.Succeeded
}
