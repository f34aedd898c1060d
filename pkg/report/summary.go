package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

var jsonMarshalIndent = json.MarshalIndent

// MasterSummary represents an aggregated summary of all suite
// runs.
type MasterSummary struct {
	ID              string         `json:"id"`
	GeneratedAt     time.Time      `json:"generated_at"`
	Suites          []SuiteSummary `json:"suites"`
	TotalSuites     int            `json:"total_suites"`
	PassedSuites    int            `json:"passed_suites"`
	FailedSuites    int            `json:"failed_suites"`
	TotalCases      int            `json:"total_cases"`
	PassedCases     int            `json:"passed_cases"`
	TotalDurationMs int64          `json:"total_duration_ms"`
	AveragePassRate float64        `json:"average_pass_rate"`
}

// SuiteSummary represents a summary of a single suite run.
type SuiteSummary struct {
	Suite       string `json:"suite"`
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	DurationMs  int64  `json:"duration_ms"`
	CasesPassed int    `json:"cases_passed"`
	CasesTotal  int    `json:"cases_total"`
}

// BuildMasterSummary creates a master summary from suite
// results.
func BuildMasterSummary(
	results []*script.SuiteResult,
) *MasterSummary {
	summary := &MasterSummary{
		ID: fmt.Sprintf(
			"summary_%s",
			time.Now().Format("20060102_150405"),
		),
		GeneratedAt: time.Now(),
		Suites: make(
			[]SuiteSummary, 0, len(results),
		),
	}

	for _, r := range results {
		ss := SuiteSummary{
			Suite:       r.Suite,
			RunID:       r.RunID,
			Status:      suiteStatus(r),
			DurationMs:  r.DurationMs,
			CasesPassed: r.Passed,
			CasesTotal:  r.Total(),
		}

		summary.Suites = append(summary.Suites, ss)
		summary.TotalSuites++
		summary.TotalCases += r.Total()
		summary.PassedCases += r.Passed
		summary.TotalDurationMs += r.DurationMs

		if r.AllPassed() {
			summary.PassedSuites++
		} else {
			summary.FailedSuites++
		}
	}

	if summary.TotalSuites > 0 {
		summary.AveragePassRate =
			float64(summary.PassedSuites) /
				float64(summary.TotalSuites)
	}

	return summary
}

// SaveMasterSummary saves the master summary to both JSON and
// Markdown files in the given output directory.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.json", ts),
	)
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf(
			"failed to marshal summary: %w", err,
		)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write JSON summary: %w", err,
		)
	}

	mdPath := filepath.Join(
		outputDir,
		fmt.Sprintf("master_summary_%s.md", ts),
	)
	mdContent := generateSummaryMarkdown(summary)
	if err := os.WriteFile(
		mdPath, []byte(mdContent), 0644,
	); err != nil {
		return fmt.Errorf(
			"failed to write Markdown summary: %w", err,
		)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}

// generateSummaryMarkdown creates markdown from a master
// summary.
func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	sb.WriteString("# CLI Assert - Master Summary\n\n")
	sb.WriteString(
		fmt.Sprintf(
			"**Summary ID:** %s\n\n", summary.ID,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"**Generated:** %s\n\n",
			summary.GeneratedAt.Format(time.RFC3339),
		),
	)

	sb.WriteString("## Overview\n\n")
	sb.WriteString(
		"| Suite | Status | Duration | Cases |\n",
	)
	sb.WriteString(
		"|-------|--------|----------|-------|\n",
	)

	for _, s := range summary.Suites {
		status := strings.ToUpper(s.Status)
		cases := fmt.Sprintf(
			"%d/%d", s.CasesPassed, s.CasesTotal,
		)
		sb.WriteString(
			fmt.Sprintf(
				"| %s | %s | %v | %s |\n",
				s.Suite, status,
				time.Duration(s.DurationMs)*time.Millisecond,
				cases,
			),
		)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(
		fmt.Sprintf(
			"| Total Suites | %d |\n",
			summary.TotalSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Passed | %d |\n", summary.PassedSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Failed | %d |\n", summary.FailedSuites,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Cases | %d |\n", summary.TotalCases,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Pass Rate | %.0f%% |\n",
			summary.AveragePassRate*100,
		),
	)
	sb.WriteString(
		fmt.Sprintf(
			"| Total Duration | %v |\n",
			time.Duration(summary.TotalDurationMs)*
				time.Millisecond,
		),
	)

	sb.WriteString("\n---\n\n")
	sb.WriteString("*Generated by CLI Assert*\n")

	return sb.String()
}
