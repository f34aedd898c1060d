package monitor

import "time"

// EventType classifies suite run lifecycle events.
type EventType string

const (
	EventSuiteStarted  EventType = "suite_started"
	EventCaseStarted   EventType = "case_started"
	EventCasePassed    EventType = "case_passed"
	EventCaseFailed    EventType = "case_failed"
	EventCaseSkipped   EventType = "case_skipped"
	EventCaseError     EventType = "case_error"
	EventSuiteFinished EventType = "suite_finished"
)

// Status is the case outcome the event reports, or "" for
// events that do not end a case.
func (t EventType) Status() string {
	switch t {
	case EventCasePassed:
		return "passed"
	case EventCaseFailed:
		return "failed"
	case EventCaseSkipped:
		return "skipped"
	case EventCaseError:
		return "error"
	}
	return ""
}

// Terminal reports whether the event ends a case.
func (t EventType) Terminal() bool {
	return t.Status() != ""
}

// RunEvent is one lifecycle event observed while a suite runs.
type RunEvent struct {
	Type       EventType `json:"type"`
	Suite      string    `json:"suite"`
	Case       string    `json:"case,omitempty"`
	Command    string    `json:"command,omitempty"`
	Message    string    `json:"message,omitempty"`
	DurationMs int64     `json:"duration_ms,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
