package runner

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Results accumulates the outcomes of one run.
//
// Started counts every test case considered by the run, skipped ones
// included. Executed counts the tests that ran, so Executed+Skipped equals
// Started once the run is over.
type Results struct {
	mu sync.Mutex

	Started  int
	Executed int
	Skipped  int
	Failures []Failure
	Outcomes []Outcome
}

// NewResults creates an empty aggregate.
func NewResults() *Results {
	return &Results{}
}

// StartTest records that test was considered by the run.
func (r *Results) StartTest(test *TestCase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Started++
}

// AddSuccess records a passing test.
func (r *Results) AddSuccess(test *TestCase, d time.Duration) Outcome {
	return r.add(Outcome{Test: test, Result: ResultPassed, Duration: d})
}

// AddFailure records a test whose expectation did not hold.
func (r *Results) AddFailure(trace string, test *TestCase, d time.Duration) Outcome {
	return r.add(Outcome{Test: test, Result: ResultFailed, Duration: d, Trace: trace})
}

// AddError records a test that panicked with anything but an assertion failure.
func (r *Results) AddError(trace string, test *TestCase, d time.Duration) Outcome {
	return r.add(Outcome{Test: test, Result: ResultError, Duration: d, Trace: trace})
}

// AddSkipped records a test excluded by a marker.
func (r *Results) AddSkipped(test *TestCase) Outcome {
	return r.add(Outcome{Test: test, Result: ResultSkipped})
}

func (r *Results) add(o Outcome) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch o.Result {
	case ResultSkipped:
		r.Skipped++
	case ResultFailed, ResultError:
		r.Executed++
		r.Failures = append(r.Failures, Failure{Test: o.Test, Result: o.Result, Trace: o.Trace})
	default:
		r.Executed++
	}
	r.Outcomes = append(r.Outcomes, o)
	return o
}

// Counts returns a consistent snapshot of the counters.
func (r *Results) Counts() (started, executed, skipped, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Started, r.Executed, r.Skipped, len(r.Failures)
}

// Count returns the number of outcomes with result res.
func (r *Results) Count(res Result) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.Outcomes {
		if o.Result == res {
			n++
		}
	}
	return n
}

// WasSuccessful reports whether no test failed or errored.
func (r *Results) WasSuccessful() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Failures) == 0
}

// Summary renders the one-line summary, e.g.
// "Executed 3 of 5 (2 skipped) (1 FAILED) (0.120 sec)".
func (r *Results) Summary(elapsed time.Duration, stream *ColorStream) string {
	started, executed, skipped, failed := r.Counts()
	if elapsed < 0 {
		elapsed = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Executed %d of %d", executed, started)
	if skipped > 0 {
		fmt.Fprintf(&b, " (%d skipped)", skipped)
	}
	seconds := fmt.Sprintf("(%.3f sec)", elapsed.Seconds())
	if failed == 0 {
		return stream.Green(fmt.Sprintf("%s SUCCESS %s", b.String(), seconds))
	}
	return fmt.Sprintf("%s %s %s", b.String(), stream.Red(fmt.Sprintf("(%d FAILED)", failed)), seconds)
}
