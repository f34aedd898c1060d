package monitor

import (
	"sync"
	"time"
)

// EventCollector captures run events, aggregate statistics and
// per-suite outcome counters. It is safe for concurrent use by
// parallel case runners.
type EventCollector struct {
	mu         sync.RWMutex
	events     []RunEvent
	handlers   []func(RunEvent)
	stats      CollectorStats
	executions map[string]int
}

// CollectorStats holds aggregate statistics. Total counts
// terminal case events only; suite markers are tracked
// separately.
type CollectorStats struct {
	Total     int           `json:"total"`
	Passed    int           `json:"passed"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Errored   int           `json:"errored"`
	Suites    int           `json:"suites"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// NewEventCollector creates a new event collector.
func NewEventCollector() *EventCollector {
	return &EventCollector{
		events:     make([]RunEvent, 0, 64),
		stats:      CollectorStats{StartTime: time.Now()},
		executions: make(map[string]int),
	}
}

// OnEvent registers a handler to be called for each event.
// Handlers run on the emitting goroutine, outside the
// collector lock.
func (c *EventCollector) OnEvent(handler func(RunEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Emit records an event and notifies all handlers.
func (c *EventCollector) Emit(event RunEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	switch event.Type {
	case EventSuiteStarted:
		c.stats.Suites++
	case EventCasePassed:
		c.stats.Total++
		c.stats.Passed++
	case EventCaseFailed:
		c.stats.Total++
		c.stats.Failed++
	case EventCaseSkipped:
		c.stats.Total++
		c.stats.Skipped++
	case EventCaseError:
		c.stats.Total++
		c.stats.Errored++
	}
	if status := event.Type.Status(); status != "" {
		c.executions[event.Suite+":"+status]++
	}
	c.stats.Duration = time.Since(c.stats.StartTime)
	handlers := make([]func(RunEvent), len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// EmitSuiteStarted emits a suite started event.
func (c *EventCollector) EmitSuiteStarted(suite string) {
	c.Emit(RunEvent{
		Type:  EventSuiteStarted,
		Suite: suite,
	})
}

// EmitCaseStarted emits a case started event.
func (c *EventCollector) EmitCaseStarted(
	suite, name, command string,
) {
	c.Emit(RunEvent{
		Type:    EventCaseStarted,
		Suite:   suite,
		Case:    name,
		Command: command,
	})
}

// EmitCasePassed emits a case passed event.
func (c *EventCollector) EmitCasePassed(
	suite, name string,
	durationMs int64,
) {
	c.Emit(RunEvent{
		Type:       EventCasePassed,
		Suite:      suite,
		Case:       name,
		DurationMs: durationMs,
	})
}

// EmitCaseFailed emits a case failed event.
func (c *EventCollector) EmitCaseFailed(
	suite, name, message string,
) {
	c.Emit(RunEvent{
		Type:    EventCaseFailed,
		Suite:   suite,
		Case:    name,
		Message: message,
	})
}

// EmitCaseSkipped emits a case skipped event.
func (c *EventCollector) EmitCaseSkipped(suite, name string) {
	c.Emit(RunEvent{
		Type:  EventCaseSkipped,
		Suite: suite,
		Case:  name,
	})
}

// EmitCaseError emits an event for a case that could not run
// at all, a spawn failure rather than a failed expectation.
func (c *EventCollector) EmitCaseError(
	suite, name, message string,
) {
	c.Emit(RunEvent{
		Type:    EventCaseError,
		Suite:   suite,
		Case:    name,
		Message: message,
	})
}

// EmitSuiteFinished emits a suite finished event.
func (c *EventCollector) EmitSuiteFinished(
	suite string,
	durationMs int64,
) {
	c.Emit(RunEvent{
		Type:       EventSuiteFinished,
		Suite:      suite,
		DurationMs: durationMs,
	})
}

// Events returns a copy of all collected events.
func (c *EventCollector) Events() []RunEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]RunEvent, len(c.events))
	copy(result, c.events)
	return result
}

// Stats returns the current aggregate statistics.
func (c *EventCollector) Stats() CollectorStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.stats
	s.Duration = time.Since(s.StartTime)
	return s
}

// ExecutionCount returns how many cases of a suite ended with
// the given status.
func (c *EventCollector) ExecutionCount(
	suite, status string,
) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.executions[suite+":"+status]
}

// Reset clears all collected events and statistics.
func (c *EventCollector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
	c.stats = CollectorStats{StartTime: time.Now()}
	c.executions = make(map[string]int)
}
