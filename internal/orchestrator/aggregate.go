package orchestrator

// OverallStatus is the three-way aggregation over all suite outcomes in
// a run.
type OverallStatus string

const (
	// OverallSuccess means every suite passed
	OverallSuccess OverallStatus = "success"
	// OverallFailure means at least one suite errored or timed out, or
	// the run executed nothing
	OverallFailure OverallStatus = "failure"
	// OverallPartial means every suite ran to completion but not all of
	// them passed
	OverallPartial OverallStatus = "partial_success"
)

// Aggregate folds suite results into an overall status. A suite that
// errored or timed out means the run itself broke, so the whole run is a
// failure. Suites that ran to completion but did not pass only degrade
// the run to partial_success. An empty run is a failure: a run that
// executed nothing proved nothing.
func Aggregate(results []SuiteResult) OverallStatus {
	if len(results) == 0 {
		return OverallFailure
	}

	passed := 0
	for _, result := range results {
		if result.State == StateErrored || result.State == StateTimedOut {
			return OverallFailure
		}
		if result.Passed() {
			passed++
		}
	}

	if passed == len(results) {
		return OverallSuccess
	}
	return OverallPartial
}
