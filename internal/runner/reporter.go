package runner

import (
	"fmt"
	"strings"
	"time"

	"flowp/pkg/logging"
)

// Format selects how results are rendered.
type Format string

const (
	// FormatTree prints the nested listing after the run
	FormatTree Format = "tree"
	// FormatDots streams one character per test
	FormatDots Format = "dots"
	// FormatJSON prints a single JSON document after the run
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTree, FormatDots, FormatJSON}

// RunInfo describes a run as it starts.
type RunInfo struct {
	ID        string
	StartedAt time.Time
	Sources   []string
	Total     int
}

// Reporter defines how a run is reported.
type Reporter interface {
	// ReportStart is called before the first test runs
	ReportStart(run RunInfo)
	// ReportTestResult is called as soon as a test has an outcome
	ReportTestResult(outcome Outcome)
	// ReportSuiteResult is called once all tests have run
	ReportSuiteResult(results *Results, elapsed time.Duration)
}

// NewReporter creates the reporter for format writing to stream. When
// reportPath is set a JSON report is also saved under that directory.
func NewReporter(format Format, stream *ColorStream, reportPath string) Reporter {
	switch format {
	case FormatJSON:
		return NewJSONReporter(stream, reportPath)
	case FormatDots:
		return &consoleReporter{stream: stream, terse: true, reportPath: reportPath}
	default:
		return &consoleReporter{stream: stream, reportPath: reportPath}
	}
}

// consoleReporter renders the colorized tree or dots output.
type consoleReporter struct {
	stream     *ColorStream
	terse      bool
	reportPath string
	run        RunInfo
}

var terseMarks = map[Result]string{
	ResultPassed:  ".",
	ResultFailed:  "F",
	ResultError:   "E",
	ResultSkipped: "s",
}

func (r *consoleReporter) ReportStart(run RunInfo) {
	r.run = run
}

func (r *consoleReporter) ReportTestResult(outcome Outcome) {
	if !r.terse {
		return
	}
	r.stream.Printf("%s", r.stream.ForResult(outcome.Result, terseMarks[outcome.Result]))
}

func (r *consoleReporter) ReportSuiteResult(results *Results, elapsed time.Duration) {
	if r.terse {
		r.stream.Println("")
	} else {
		r.printTree(results)
	}
	r.printFailures(results)
	r.stream.Println("")
	r.stream.Println(results.Summary(elapsed, r.stream))

	if r.reportPath != "" {
		path, err := SaveReport(r.reportPath, NewReport(r.run, results, elapsed))
		if err != nil {
			logging.Error("Reporter", err, "Failed to save report")
			return
		}
		r.stream.Printf("Report saved to: %s\n", path)
	}
}

// printTree lists every root behavior followed by its tests grouped by
// context, indented four spaces per level.
func (r *consoleReporter) printTree(results *Results) {
	results.mu.Lock()
	outcomes := append([]Outcome(nil), results.Outcomes...)
	results.mu.Unlock()

	var roots []*Class
	byRoot := make(map[*Class][]Outcome)
	for _, o := range outcomes {
		root := o.Test.Class.Root()
		if _, seen := byRoot[root]; !seen {
			roots = append(roots, root)
		}
		byRoot[root] = append(byRoot[root], o)
	}

	for _, root := range roots {
		r.stream.Printf("%s:\n", root.Name)
		BuildTree(byRoot[root]).Walk(func(depth int, node *Tree[Outcome]) {
			if depth > 0 {
				r.stream.Printf("%s%s\n", indent(depth), contextHeader(node.Name))
			}
			for _, o := range node.Tests {
				r.stream.Printf("%s- %s ... %s\n", indent(depth+1), o.Test.Name(),
					r.stream.ForResult(o.Result, o.Result.Label()))
			}
		})
	}
}

func (r *consoleReporter) printFailures(results *Results) {
	results.mu.Lock()
	failures := append([]Failure(nil), results.Failures...)
	results.mu.Unlock()

	for _, f := range failures {
		r.stream.Println("")
		r.stream.Println(strings.Repeat("=", 70))
		r.stream.Println(r.stream.Red(FailureHeader(f)))
		r.stream.Println(strings.Repeat("-", 70))
		r.stream.Println(f.Trace)
	}
}

// FailureHeader names a failed test and its behavior chain, e.g.
// `FAIL: "sees dashboard" [Login logged in]`.
func FailureHeader(f Failure) string {
	kind := "FAIL"
	if f.Result == ResultError {
		kind = "ERROR"
	}
	return fmt.Sprintf("%s: %q [%s]", kind, f.Test.Name(), f.Test.Class.Description())
}

func contextHeader(name string) string {
	if strings.HasPrefix(strings.ToLower(name), "when ") {
		return name + ":"
	}
	return "when " + name + ":"
}

func indent(level int) string {
	return strings.Repeat("    ", level)
}
