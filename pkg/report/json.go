package report

import (
	"encoding/json"
	"io"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

// Marshal seams so tests can inject failures.
var (
	jsonReportMarshal       = json.Marshal
	jsonReportMarshalIndent = json.MarshalIndent
)

// JSONReporter generates JSON reports from suite results.
type JSONReporter struct {
	outputDir string
	pretty    bool
}

// NewJSONReporter creates a new JSON reporter. When pretty is
// true, output is indented for readability.
func NewJSONReporter(
	outputDir string,
	pretty bool,
) *JSONReporter {
	return &JSONReporter{
		outputDir: outputDir,
		pretty:    pretty,
	}
}

// GenerateReport creates a JSON report for a single suite
// result.
func (r *JSONReporter) GenerateReport(
	result *script.SuiteResult,
) ([]byte, error) {
	if r.pretty {
		return jsonReportMarshalIndent(result, "", "  ")
	}
	return jsonReportMarshal(result)
}

// jsonMasterSummary is the JSON structure for a master summary.
type jsonMasterSummary struct {
	GeneratedAt     time.Time             `json:"generated_at"`
	TotalSuites     int                   `json:"total_suites"`
	Passed          int                   `json:"passed"`
	Failed          int                   `json:"failed"`
	TotalDurationMs int64                 `json:"total_duration_ms"`
	Results         []*script.SuiteResult `json:"results"`
}

// GenerateMasterSummary creates a JSON summary of all suite
// results.
func (r *JSONReporter) GenerateMasterSummary(
	results []*script.SuiteResult,
) ([]byte, error) {
	summary := jsonMasterSummary{
		GeneratedAt: time.Now(),
		TotalSuites: len(results),
		Results:     results,
	}

	for _, res := range results {
		if res.AllPassed() {
			summary.Passed++
		} else {
			summary.Failed++
		}
		summary.TotalDurationMs += res.DurationMs
	}

	if r.pretty {
		return jsonReportMarshalIndent(summary, "", "  ")
	}
	return jsonReportMarshal(summary)
}

// WriteReport writes a JSON report to the specified writer.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	result *script.SuiteResult,
) error {
	data, err := r.GenerateReport(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
