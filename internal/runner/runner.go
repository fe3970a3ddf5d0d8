package runner

import (
	"context"
	"time"

	"github.com/google/uuid"

	"flowp/pkg/logging"
)

// PatchRestorer is implemented by instances that install test doubles.
// RestorePatches runs at the end of every executed test.
type PatchRestorer interface {
	RestorePatches()
}

// Runner discovers behaviors and executes their tests sequentially.
type Runner struct {
	registry  *Registry
	patterns  []string
	reporter  Reporter
	formatter *TraceFormatter
}

// New creates a runner over registry. Traces are colored through stream.
func New(registry *Registry, patterns []string, reporter Reporter, stream *ColorStream) *Runner {
	return &Runner{
		registry:  registry,
		patterns:  patterns,
		reporter:  reporter,
		formatter: NewTraceFormatter(stream),
	}
}

// Discover loads the selected spec sources.
func (r *Runner) Discover() (*Discovery, error) {
	return Discover(r.registry, r.patterns, r.formatter)
}

// Run discovers and executes every test, then reports the suite result.
func (r *Runner) Run(ctx context.Context) (*Results, error) {
	d, err := r.Discover()
	if err != nil {
		return nil, err
	}
	return r.RunTests(ctx, d.TestCases(), d.Sources)
}

// RunTests executes tests in order. Cancelling ctx stops the run between
// tests; a test that started always runs to completion.
func (r *Runner) RunTests(ctx context.Context, tests []*TestCase, sources []string) (*Results, error) {
	start := time.Now()
	results := NewResults()
	r.reporter.ReportStart(RunInfo{
		ID:        uuid.NewString(),
		StartedAt: start,
		Sources:   sources,
		Total:     len(tests),
	})

	exclusive := false
	for _, tc := range tests {
		if tc.Only() {
			exclusive = true
			break
		}
	}
	if exclusive {
		logging.Debug("Runner", "Only-marked tests present: running them exclusively")
	}

	for _, tc := range tests {
		if err := ctx.Err(); err != nil {
			r.reporter.ReportSuiteResult(results, time.Since(start))
			return results, err
		}
		results.StartTest(tc)
		r.reporter.ReportTestResult(r.runTest(tc, exclusive, results))
	}

	r.reporter.ReportSuiteResult(results, time.Since(start))
	return results, nil
}

func (r *Runner) runTest(tc *TestCase, exclusive bool, results *Results) Outcome {
	if tc.Err != nil {
		return results.AddError(tc.Err.Trace, tc, 0)
	}
	if tc.Skip() || (exclusive && !tc.Only()) {
		return results.AddSkipped(tc)
	}

	begin := time.Now()
	p := r.execute(tc)
	elapsed := time.Since(begin)

	switch {
	case p == nil:
		return results.AddSuccess(tc, elapsed)
	case p.Failed():
		return results.AddFailure(r.formatter.Format(p), tc, elapsed)
	default:
		return results.AddError(r.formatter.Format(p), tc, elapsed)
	}
}

// execute runs one test on a fresh instance: the BeforeEach hooks from the
// outermost behavior inwards, the context setups, the body, then the
// registered teardowns and AfterEach hooks in reverse, and finally the
// instance's patch restoration.
func (r *Runner) execute(tc *TestCase) *Panic {
	var instance any
	if tc.Class.New != nil {
		if p := protect(func() { instance = tc.Class.New() }); p != nil {
			return p
		}
	}

	s := newScope(instance)
	for _, cls := range tc.Class.Chain() {
		s.enter(cls.Name+" after each", cls.BeforeEach, cls.AfterEach)
	}
	for _, ctx := range tc.Method.Contexts {
		s.enter(ctx.Name, ctx.Setup, ctx.Teardown)
	}
	s.run(tc.Method.Body)
	s.unwind()

	if restorer, ok := instance.(PatchRestorer); ok {
		s.always("restore patches", restorer.RestorePatches)
	}
	return s.failure
}

// ExitCode maps results to the process exit status.
func ExitCode(results *Results) int {
	if results == nil || !results.WasSuccessful() {
		return 1
	}
	return 0
}
