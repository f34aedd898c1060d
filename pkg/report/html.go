package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

// HTMLReporter generates HTML reports from suite results.
type HTMLReporter struct {
	outputDir string
}

// NewHTMLReporter creates a new HTML reporter.
func NewHTMLReporter(outputDir string) *HTMLReporter {
	return &HTMLReporter{outputDir: outputDir}
}

// GenerateReport creates an HTML report for a single suite
// result.
func (r *HTMLReporter) GenerateReport(
	result *script.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML report to the specified writer.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	result *script.SuiteResult,
) error {
	r.writeHeader(w, "Suite Report: "+result.Suite)

	fmt.Fprintf(
		w,
		"<h1>Suite Report: %s</h1>\n",
		html.EscapeString(result.Suite),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Run ID:</strong> %s</p>\n",
		html.EscapeString(result.RunID),
	)
	fmt.Fprintf(
		w,
		"<p><strong>Generated:</strong> %s</p>\n",
		finishedAt(result).Format(time.RFC3339),
	)

	r.writeSummaryTable(w, result)
	r.writeCasesSection(w, result)
	r.writeFailuresSection(w, result)

	r.writeFooter(w)
	return nil
}

func (r *HTMLReporter) writeSummaryTable(
	w io.Writer,
	result *script.SuiteResult,
) {
	status := suiteStatus(result)

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Status</td><td class=\"%s\">"+
			"<strong>%s</strong></td></tr>\n",
		statusClass(script.Status(status)),
		strings.ToUpper(status),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Started</td><td>%s</td></tr>\n",
		result.StartedAt.Format(time.RFC3339),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Duration</td><td>%v</td></tr>\n",
		time.Duration(result.DurationMs)*time.Millisecond,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Cases</td><td>%d</td></tr>\n",
		result.Total(),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		result.Passed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		result.Failed,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Skipped</td><td>%d</td></tr>\n",
		result.Skipped,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Errored</td><td>%d</td></tr>\n",
		result.Errored,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeCasesSection(
	w io.Writer,
	result *script.SuiteResult,
) {
	if len(result.Cases) == 0 {
		return
	}

	fmt.Fprintln(w, "<h2>Cases</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Case</th><th>Status</th>"+
			"<th>Duration</th><th>Command</th></tr>",
	)

	for _, c := range result.Cases {
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%v</td>"+
				"<td><code>%s</code></td></tr>\n",
			html.EscapeString(c.Name),
			statusClass(c.Status),
			strings.ToUpper(string(c.Status)),
			time.Duration(c.DurationMs)*time.Millisecond,
			html.EscapeString(c.Command),
		)
	}

	fmt.Fprintln(w, "</table>")

	counted := result.Passed + result.Failed + result.Errored
	if counted > 0 {
		pct := float64(result.Passed) /
			float64(counted) * 100
		fmt.Fprintf(
			w,
			"<p><strong>Pass Rate:</strong> %d/%d (%.0f%%)</p>\n",
			result.Passed, counted, pct,
		)
	}
}

func (r *HTMLReporter) writeFailuresSection(
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
			fmt.Fprintln(w, "<h2>Failures</h2>")
			wroteHeader = true
		}
		fmt.Fprintf(
			w,
			"<h3>%s</h3>\n",
			html.EscapeString(c.Name),
		)
		fmt.Fprintf(
			w,
			"<pre>%s</pre>\n",
			html.EscapeString(c.Message),
		)
	}
}

// GenerateMasterSummary creates an HTML summary of all suite
// results.
func (r *HTMLReporter) GenerateMasterSummary(
	results []*script.SuiteResult,
) ([]byte, error) {
	var buf bytes.Buffer

	r.writeHeader(&buf, "CLI Assert - Master Summary")

	fmt.Fprintln(
		&buf,
		"<h1>CLI Assert - Master Summary</h1>",
	)
	fmt.Fprintf(
		&buf,
		"<p><strong>Generated:</strong> %s</p>\n",
		time.Now().Format(time.RFC3339),
	)

	r.writeMasterOverview(&buf, results)
	r.writeMasterStats(&buf, results)
	r.writeMasterDetails(&buf, results)
	r.writeFooter(&buf)

	return buf.Bytes(), nil
}

func (r *HTMLReporter) writeMasterOverview(
	w io.Writer,
	results []*script.SuiteResult,
) {
	fmt.Fprintln(w, "<h2>Overview</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>Suite</th><th>Status</th>"+
			"<th>Cases</th><th>Duration</th>"+
			"<th>Last Run</th></tr>",
	)

	for _, result := range results {
		status := suiteStatus(result)
		fmt.Fprintf(
			w,
			"<tr><td>%s</td>"+
				"<td class=\"%s\">%s</td>"+
				"<td>%d/%d</td><td>%v</td>"+
				"<td>%s</td></tr>\n",
			html.EscapeString(result.Suite),
			statusClass(script.Status(status)),
			strings.ToUpper(status),
			result.Passed, result.Total(),
			time.Duration(result.DurationMs)*time.Millisecond,
			finishedAt(result).Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeMasterStats(
	w io.Writer,
	results []*script.SuiteResult,
) {
	passedCount := 0
	var totalDurationMs int64
	for _, res := range results {
		if res.AllPassed() {
			passedCount++
		}
		totalDurationMs += res.DurationMs
	}

	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(
		w,
		"<tr><td>Total Suites</td><td>%d</td></tr>\n",
		len(results),
	)
	fmt.Fprintf(
		w,
		"<tr><td>Passed</td><td>%d</td></tr>\n",
		passedCount,
	)
	fmt.Fprintf(
		w,
		"<tr><td>Failed</td><td>%d</td></tr>\n",
		len(results)-passedCount,
	)

	if len(results) > 0 {
		pct := float64(passedCount) /
			float64(len(results)) * 100
		fmt.Fprintf(
			w,
			"<tr><td>Pass Rate</td>"+
				"<td>%.0f%%</td></tr>\n",
			pct,
		)
	}

	fmt.Fprintf(
		w,
		"<tr><td>Total Duration</td>"+
			"<td>%v</td></tr>\n",
		time.Duration(totalDurationMs)*time.Millisecond,
	)
	fmt.Fprintln(w, "</table>")
}

func (r *HTMLReporter) writeMasterDetails(
	w io.Writer,
	results []*script.SuiteResult,
) {
	fmt.Fprintln(w, "<h2>Suite Details</h2>")

	for _, result := range results {
		fmt.Fprintf(
			w,
			"<h3>%s</h3>\n",
			html.EscapeString(result.Suite),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Status:</strong> %s</p>\n",
			strings.ToUpper(suiteStatus(result)),
		)
		fmt.Fprintf(
			w,
			"<p><strong>Duration:</strong> %v</p>\n",
			time.Duration(result.DurationMs)*time.Millisecond,
		)

		for _, c := range result.Cases {
			if c.Status != script.StatusFailed &&
				c.Status != script.StatusError {
				continue
			}
			fmt.Fprintf(
				w,
				"<p><strong>%s:</strong> %s</p>\n",
				html.EscapeString(c.Name),
				html.EscapeString(c.Message),
			)
		}
	}
}

// statusClass maps a case status to its CSS class.
func statusClass(status script.Status) string {
	switch status {
	case script.StatusPassed:
		return "status-passed"
	case script.StatusSkipped:
		return "status-skipped"
	default:
		return "status-failed"
	}
}

func (r *HTMLReporter) writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
.status-skipped { color: #7f8c8d; font-weight: bold; }
pre {
  background: #2c3e50;
  color: #ecf0f1;
  padding: 12px;
  border-radius: 4px;
  overflow-x: auto;
  font-size: 0.9em;
}
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func (r *HTMLReporter) writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(w, "<p>Generated by CLI Assert</p>")
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
