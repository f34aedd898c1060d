// Package report provides report generation for suite results.
package report

import (
	"io"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

// Reporter defines the interface for generating suite reports.
type Reporter interface {
	// GenerateReport creates a report for a single suite
	// result.
	GenerateReport(result *script.SuiteResult) ([]byte, error)

	// GenerateMasterSummary creates a summary of all suite
	// results.
	GenerateMasterSummary(
		results []*script.SuiteResult,
	) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *script.SuiteResult) error
}

// suiteStatus derives the overall status of a suite run. A run
// with errored cases reports error even when other cases merely
// failed.
func suiteStatus(result *script.SuiteResult) string {
	switch {
	case result.Errored > 0:
		return string(script.StatusError)
	case result.Failed > 0:
		return string(script.StatusFailed)
	default:
		return string(script.StatusPassed)
	}
}

// finishedAt returns the completion time of a suite run.
func finishedAt(result *script.SuiteResult) time.Time {
	return result.StartedAt.Add(
		time.Duration(result.DurationMs) * time.Millisecond,
	)
}
