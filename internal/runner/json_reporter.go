package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flowp/pkg/logging"
)

// Report is the machine-readable form of a run.
type Report struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Duration   float64        `json:"duration_seconds"`
	Sources    []string       `json:"sources,omitempty"`
	Started    int            `json:"started"`
	Executed   int            `json:"executed"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	Errored    int            `json:"errored"`
	Success    bool           `json:"success"`
	Tests      []ReportedTest `json:"tests"`
}

// ReportedTest is one test outcome in a Report.
type ReportedTest struct {
	Behavior string   `json:"behavior"`
	Name     string   `json:"name"`
	Contexts []string `json:"contexts,omitempty"`
	Source   string   `json:"source,omitempty"`
	Result   Result   `json:"result"`
	Duration float64  `json:"duration_ms"`
	Trace    string   `json:"trace,omitempty"`
}

// NewReport builds the report of a finished run.
func NewReport(run RunInfo, results *Results, elapsed time.Duration) Report {
	started, executed, skipped, _ := results.Counts()
	rep := Report{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.StartedAt.Add(elapsed),
		Duration:   elapsed.Seconds(),
		Sources:    run.Sources,
		Started:    started,
		Executed:   executed,
		Skipped:    skipped,
		Failed:     results.Count(ResultFailed),
		Errored:    results.Count(ResultError),
		Success:    results.WasSuccessful(),
	}

	results.mu.Lock()
	outcomes := append([]Outcome(nil), results.Outcomes...)
	results.mu.Unlock()

	rep.Tests = make([]ReportedTest, 0, len(outcomes))
	for _, o := range outcomes {
		rep.Tests = append(rep.Tests, ReportedTest{
			Behavior: o.Test.Class.Description(),
			Name:     o.Test.Name(),
			Contexts: o.Test.Method.ContextNames(),
			Source:   o.Test.Class.Root().Source,
			Result:   o.Result,
			Duration: float64(o.Duration) / float64(time.Millisecond),
			Trace:    o.Trace,
		})
	}
	return rep
}

// SaveReport writes rep as indented JSON to a timestamped file in dir and
// returns its path.
func SaveReport(dir string, rep Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	timestamp := rep.StartedAt.Format("20060102-150405")
	fullPath := filepath.Join(dir, fmt.Sprintf("flowp-report-%s.json", timestamp))

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report to JSON: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return fullPath, nil
}

// NewJSONReporter creates a reporter that prints a JSON document for
// CI integration.
func NewJSONReporter(stream *ColorStream, reportPath string) Reporter {
	return &jsonReporter{stream: stream, reportPath: reportPath}
}

// jsonReporter stays silent during the run and prints the report at the end.
type jsonReporter struct {
	stream     *ColorStream
	reportPath string
	run        RunInfo
}

func (r *jsonReporter) ReportStart(run RunInfo) {
	r.run = run
}

func (r *jsonReporter) ReportTestResult(outcome Outcome) {
	// Silent
}

func (r *jsonReporter) ReportSuiteResult(results *Results, elapsed time.Duration) {
	rep := NewReport(r.run, results, elapsed)
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		logging.Error("Reporter", err, "Failed to encode report")
		return
	}
	r.stream.Println(string(data))

	if r.reportPath != "" {
		path, err := SaveReport(r.reportPath, rep)
		if err != nil {
			logging.Error("Reporter", err, "Failed to save report")
			return
		}
		logging.Info("Reporter", "Report saved to %s", path)
	}
}
