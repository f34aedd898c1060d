package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"digital.vasic.cliassert/pkg/script"
)

var jsonMarshal = json.Marshal

// HistoricalEntry represents a single suite run in the
// historical log.
type HistoricalEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Suite       string    `json:"suite"`
	RunID       string    `json:"run_id"`
	Status      string    `json:"status"`
	CasesPassed int       `json:"cases_passed"`
	CasesTotal  int       `json:"cases_total"`
	DurationMs  int64     `json:"duration_ms"`
	ResultsPath string    `json:"results_path"`
}

// AppendToHistory adds an entry to the historical log stored
// at historyPath. Each entry is a single JSON line.
func AppendToHistory(
	historyPath string,
	result *script.SuiteResult,
	resultsPath string,
) error {
	entry := HistoricalEntry{
		Timestamp:   finishedAt(result),
		Suite:       result.Suite,
		RunID:       result.RunID,
		Status:      suiteStatus(result),
		CasesPassed: result.Passed,
		CasesTotal:  result.Total(),
		DurationMs:  result.DurationMs,
		ResultsPath: resultsPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf(
			"failed to marshal history entry: %w", err,
		)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}

// ReadHistory loads every entry from the historical log at
// historyPath. A missing file yields no entries.
func ReadHistory(historyPath string) ([]HistoricalEntry, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf(
			"failed to read history file: %w", err,
		)
	}

	var entries []HistoricalEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var entry HistoricalEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf(
				"failed to parse history entry: %w", err,
			)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
