package script

import (
	"digital.vasic.cliassert/pkg/logging"
	"digital.vasic.cliassert/pkg/monitor"
	"digital.vasic.cliassert/pkg/process"
)

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger used by the runner. Secret values
// from suite environments are redacted before this logger sees
// them.
func WithLogger(logger logging.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithDriver sets the process driver used for every case.
func WithDriver(driver process.Driver) RunnerOption {
	return func(r *Runner) {
		r.driver = driver
	}
}

// WithCollector sets the event collector that receives run
// progress events.
func WithCollector(
	collector *monitor.EventCollector,
) RunnerOption {
	return func(r *Runner) {
		r.collector = collector
	}
}

// WithParallelism sets how many cases may run concurrently.
// Values of one or below run cases sequentially.
func WithParallelism(n int) RunnerOption {
	return func(r *Runner) {
		r.parallelism = n
	}
}
