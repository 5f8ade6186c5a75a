package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"testweaver/pkg/logging"
)

// Runner executes suites of one kind. Runners must honor context
// cancellation; the orchestrator cancels the shared context when the run
// deadline expires.
type Runner interface {
	// Kind returns the suite kind this runner handles
	Kind() Kind
	// Run executes the suite. A failing suite is a (result, nil) with
	// Succeeded false; the error return is for runner breakage.
	Run(ctx context.Context, suite Suite) (*SuiteResult, error)
}

// Options configures a run.
type Options struct {
	// Parallel runs all suites concurrently instead of in order
	Parallel bool
	// MaxParallel bounds concurrency when Parallel is set; zero means
	// unbounded
	MaxParallel int
	// Timeout bounds the whole run; zero means no deadline
	Timeout time.Duration
}

// RunResult is the aggregated outcome of one orchestrated run.
type RunResult struct {
	// RunID uniquely identifies the run
	RunID string `yaml:"runId" json:"runId"`
	// Overall is the three-way aggregation over suite outcomes
	Overall OverallStatus `yaml:"overall" json:"overall"`
	Suites  []SuiteResult `yaml:"suites" json:"suites"`

	StartedAt time.Time     `yaml:"startedAt" json:"startedAt"`
	Duration  time.Duration `yaml:"duration" json:"duration"`
}

// Orchestrator routes suites to kind runners and aggregates results.
type Orchestrator struct {
	runners map[Kind]Runner
}

// New creates an orchestrator with the given runners. Two runners for
// the same kind is a configuration bug and fails.
func New(runners ...Runner) (*Orchestrator, error) {
	byKind := make(map[Kind]Runner, len(runners))
	for _, runner := range runners {
		if _, dup := byKind[runner.Kind()]; dup {
			return nil, fmt.Errorf("duplicate runner for kind %s", runner.Kind())
		}
		byKind[runner.Kind()] = runner
	}
	return &Orchestrator{runners: byKind}, nil
}

// Run executes the suites per the options and returns the aggregated
// result. The error return is reserved for setup problems; suite
// failures and timeouts are reported inside the result.
func (o *Orchestrator) Run(ctx context.Context, suites []Suite, opts Options) (*RunResult, error) {
	for _, suite := range suites {
		if _, ok := o.runners[suite.Kind]; !ok {
			return nil, fmt.Errorf("no runner registered for kind %s (suite %s)", suite.Kind, suite.Name)
		}
	}

	result := &RunResult{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
	logging.Info("Orchestrator", "Run %s: %d suite(s), parallel=%t, timeout=%s",
		result.RunID, len(suites), opts.Parallel, opts.Timeout)

	if opts.Parallel {
		result.Suites = o.runParallel(ctx, suites, opts)
	} else {
		result.Suites = o.runSequential(ctx, suites, opts)
	}

	result.Duration = time.Since(result.StartedAt)
	result.Overall = Aggregate(result.Suites)
	logging.Info("Orchestrator", "Run %s finished in %s: %s",
		result.RunID, result.Duration.Round(time.Millisecond), result.Overall)
	return result, nil
}

// runParallel starts one goroutine per suite. Each goroutine writes only
// its own slot and closes its own done channel. On timeout the shared
// context is cancelled and every slot whose channel is still open is
// reported as timed out; its slot is never read, so a runner that
// ignores cancellation cannot race the result collection.
func (o *Orchestrator) runParallel(ctx context.Context, suites []Suite, opts Options) []SuiteResult {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	slots := make([]SuiteResult, len(suites))
	done := make([]chan struct{}, len(suites))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var sem chan struct{}
	if opts.MaxParallel > 0 {
		sem = make(chan struct{}, opts.MaxParallel)
	}

	for i, suite := range suites {
		go func(i int, suite Suite) {
			defer close(done[i])
			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-runCtx.Done():
					slots[i] = timedOutResult(suite)
					return
				}
			}
			slots[i] = o.runOne(runCtx, suite)
		}(i, suite)
	}

	waitAll := make(chan struct{})
	go func() {
		for _, d := range done {
			<-d
		}
		close(waitAll)
	}()

	var deadline <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case <-waitAll:
	case <-deadline:
		logging.Warn("Orchestrator", "Run deadline of %s expired, cancelling remaining suites", opts.Timeout)
		cancel()
	case <-ctx.Done():
		cancel()
	}

	results := make([]SuiteResult, len(suites))
	for i, suite := range suites {
		select {
		case <-done[i]:
			results[i] = slots[i]
		default:
			results[i] = timedOutResult(suite)
		}
	}
	return results
}

// runSequential executes suites in order under a single shared deadline.
// Once the deadline expires, remaining suites are marked timed out
// without being started.
func (o *Orchestrator) runSequential(ctx context.Context, suites []Suite, opts Options) []SuiteResult {
	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	results := make([]SuiteResult, 0, len(suites))
	for _, suite := range suites {
		if runCtx.Err() != nil {
			results = append(results, timedOutResult(suite))
			continue
		}
		results = append(results, o.runOne(runCtx, suite))
	}
	return results
}

// runOne executes a single suite through its kind runner, applying the
// suite's own timeout when it has one.
func (o *Orchestrator) runOne(ctx context.Context, suite Suite) SuiteResult {
	runner := o.runners[suite.Kind]

	suiteCtx := ctx
	if suite.Timeout > 0 {
		var cancel context.CancelFunc
		suiteCtx, cancel = context.WithTimeout(ctx, time.Duration(suite.Timeout))
		defer cancel()
	}

	started := time.Now()
	logging.Info("Orchestrator", "Suite %s (%s) starting", suite.Name, suite.Kind)

	result, err := runner.Run(suiteCtx, suite)
	if err != nil {
		state := StateErrored
		if suiteCtx.Err() != nil {
			state = StateTimedOut
		}
		logging.Error("Orchestrator", err, "Suite %s failed to run", suite.Name)
		return SuiteResult{
			Name:      suite.Name,
			Kind:      suite.Kind,
			State:     state,
			Error:     err.Error(),
			StartedAt: started,
			Duration:  time.Since(started),
		}
	}

	result.Name = suite.Name
	result.Kind = suite.Kind
	if result.State == "" {
		result.State = StateCompleted
	}
	if result.StartedAt.IsZero() {
		result.StartedAt = started
	}
	if result.Duration == 0 {
		result.Duration = time.Since(started)
	}
	logging.Info("Orchestrator", "Suite %s finished: state=%s succeeded=%t", suite.Name, result.State, result.Succeeded)
	return *result
}

func timedOutResult(suite Suite) SuiteResult {
	return SuiteResult{
		Name:  suite.Name,
		Kind:  suite.Kind,
		State: StateTimedOut,
		Error: "timeout",
	}
}
