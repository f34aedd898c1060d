package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

// MarkdownReporter generates Markdown reports from suite
// results.
type MarkdownReporter struct {
	outputDir string
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(outputDir string) *MarkdownReporter {
	return &MarkdownReporter{outputDir: outputDir}
}

// GenerateReport creates a Markdown report for a single suite
// result.
func (r *MarkdownReporter) GenerateReport(
	result *script.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a Markdown report to the specified writer.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	result *script.SuiteResult,
) error {
	fmt.Fprintf(w, "# Suite Report: %s\n\n", result.Suite)
	fmt.Fprintf(w, "**Run ID:** %s\n\n", result.RunID)
	fmt.Fprintf(
		w,
		"**Status:** %s\n\n",
		strings.ToUpper(suiteStatus(result)),
	)
	fmt.Fprintf(
		w,
		"**Started:** %s\n\n",
		result.StartedAt.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"**Duration:** %v\n\n",
		time.Duration(result.DurationMs)*time.Millisecond,
	)

	r.writeCaseTable(w, result)
	r.writeFailureDetails(w, result)
	r.writeCounters(w, result)
	return nil
}

func (r *MarkdownReporter) writeCaseTable(
	w io.Writer,
	result *script.SuiteResult,
) {
	if len(result.Cases) == 0 {
		return
	}

	fmt.Fprintln(w, "## Cases")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Case | Status | Duration | Command |")
	fmt.Fprintln(w, "|------|--------|----------|---------|")

	for _, c := range result.Cases {
		fmt.Fprintf(
			w,
			"| %s | %s | %v | `%s` |\n",
			c.Name,
			strings.ToUpper(string(c.Status)),
			time.Duration(c.DurationMs)*time.Millisecond,
			c.Command,
		)
	}
	fmt.Fprintln(w)
}

func (r *MarkdownReporter) writeFailureDetails(
	w io.Writer,
	result *script.SuiteResult,
) {
	wroteHeader := false
	for _, c := range result.Cases {
		if c.Status != script.StatusFailed &&
			c.Status != script.StatusError {
			continue
		}
		if !wroteHeader {
			fmt.Fprintln(w, "## Failures")
			fmt.Fprintln(w)
			wroteHeader = true
		}
		fmt.Fprintf(w, "### %s\n\n", c.Name)
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w, c.Message)
		fmt.Fprintln(w, "```")
		fmt.Fprintln(w)
	}
}

func (r *MarkdownReporter) writeCounters(
	w io.Writer,
	result *script.SuiteResult,
) {
	fmt.Fprintln(w, "## Statistics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Metric | Value |")
	fmt.Fprintln(w, "|--------|-------|")
	fmt.Fprintf(w, "| Total | %d |\n", result.Total())
	fmt.Fprintf(w, "| Passed | %d |\n", result.Passed)
	fmt.Fprintf(w, "| Failed | %d |\n", result.Failed)
	fmt.Fprintf(w, "| Skipped | %d |\n", result.Skipped)
	fmt.Fprintf(w, "| Errored | %d |\n", result.Errored)
}

// GenerateMasterSummary creates a Markdown summary of all suite
// results.
func (r *MarkdownReporter) GenerateMasterSummary(
	results []*script.SuiteResult,
) ([]byte, error) {
	summary := BuildMasterSummary(results)
	return []byte(generateSummaryMarkdown(summary)), nil
}
