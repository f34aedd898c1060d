package monitor

import (
	"sync"
	"time"
)

// DashboardData maintains a live view of suite execution. It
// is updated from run events and read as point-in-time
// snapshots.
type DashboardData struct {
	mu      sync.RWMutex
	runID   string
	started time.Time
	status  string
	cases   map[string]CaseState
	summary DashboardSummary
}

// CaseState is the current state of one case in the dashboard.
type CaseState struct {
	Suite      string     `json:"suite"`
	Name       string     `json:"name"`
	Command    string     `json:"command,omitempty"`
	Status     string     `json:"status"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	DurationMs int64      `json:"duration_ms,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// DashboardSummary holds aggregate stats for the dashboard.
type DashboardSummary struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	Skipped  int     `json:"skipped"`
	Errored  int     `json:"errored"`
	Running  int     `json:"running"`
	PassRate float64 `json:"pass_rate"`
	Elapsed  string  `json:"elapsed"`
}

// DashboardSnapshot is a point-in-time copy of the dashboard,
// free of locks so it can be serialized directly.
type DashboardSnapshot struct {
	RunID     string               `json:"run_id"`
	StartTime time.Time            `json:"start_time"`
	Status    string               `json:"status"`
	Cases     map[string]CaseState `json:"cases"`
	Summary   DashboardSummary     `json:"summary"`
}

// NewDashboardData creates a dashboard for one run.
func NewDashboardData(runID string) *DashboardData {
	return &DashboardData{
		runID:   runID,
		started: time.Now(),
		status:  "running",
		cases:   make(map[string]CaseState),
	}
}

// UpdateFromEvent folds a run event into the dashboard state.
func (d *DashboardData) UpdateFromEvent(event RunEvent) {
	if event.Case == "" {
		if event.Type == EventSuiteFinished {
			d.SetStatus("completed")
		}
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	key := event.Suite + "/" + event.Case
	state, exists := d.cases[key]
	if !exists {
		state = CaseState{
			Suite: event.Suite,
			Name:  event.Case,
		}
	}

	switch event.Type {
	case EventCaseStarted:
		state.Status = "running"
		state.Command = event.Command
		state.StartTime = &now
	case EventCasePassed:
		state.Status = "passed"
		state.EndTime = &now
		state.DurationMs = event.DurationMs
	case EventCaseFailed:
		state.Status = "failed"
		state.EndTime = &now
		state.Message = event.Message
	case EventCaseSkipped:
		state.Status = "skipped"
	case EventCaseError:
		state.Status = "error"
		state.EndTime = &now
		state.Message = event.Message
	}

	d.cases[key] = state
	d.recalcSummary()
}

func (d *DashboardData) recalcSummary() {
	s := DashboardSummary{}
	for _, cs := range d.cases {
		s.Total++
		switch cs.Status {
		case "passed":
			s.Passed++
		case "failed":
			s.Failed++
		case "skipped":
			s.Skipped++
		case "error":
			s.Errored++
		case "running":
			s.Running++
		}
	}
	if completed := s.Passed + s.Failed; completed > 0 {
		s.PassRate = float64(s.Passed) / float64(completed) * 100
	}
	s.Elapsed = time.Since(d.started).Round(time.Millisecond).String()
	d.summary = s
}

// Snapshot returns a copy of the current dashboard state.
func (d *DashboardData) Snapshot() DashboardSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cases := make(map[string]CaseState, len(d.cases))
	for k, v := range d.cases {
		cases[k] = v
	}
	return DashboardSnapshot{
		RunID:     d.runID,
		StartTime: d.started,
		Status:    d.status,
		Cases:     cases,
		Summary:   d.summary,
	}
}

// SetStatus sets the overall run status.
func (d *DashboardData) SetStatus(status string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
}

// BuildDashboardData creates a dashboard from an
// EventCollector by replaying all collected events.
func BuildDashboardData(
	collector *EventCollector,
	runID string,
) *DashboardData {
	data := NewDashboardData(runID)
	for _, event := range collector.Events() {
		data.UpdateFromEvent(event)
	}
	return data
}
