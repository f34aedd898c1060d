package script

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"digital.vasic.cliassert/pkg/cmdassert"
	"digital.vasic.cliassert/pkg/env"
	"digital.vasic.cliassert/pkg/logging"
	"digital.vasic.cliassert/pkg/monitor"
	"digital.vasic.cliassert/pkg/process"
)

// Runner executes suites of assertion cases sequentially or in
// parallel, reporting progress through an event collector.
type Runner struct {
	logger      logging.Logger
	driver      process.Driver
	collector   *monitor.EventCollector
	parallelism int
}

// NewRunner creates a Runner with the supplied options.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:      logging.NullLogger{},
		parallelism: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes every case of the suite and returns the
// aggregated result. Secret values from the suite's environment
// are redacted from all log output. A cancelled context stops
// the run early with a partial result.
func (r *Runner) Run(
	ctx context.Context,
	suite *Suite,
) (*SuiteResult, error) {
	if err := suite.Validate(); err != nil {
		return nil, err
	}

	base := env.Inherit()
	if suite.Inherit != nil && !*suite.Inherit {
		base = env.Empty()
	}

	secrets := make(map[string]string)
	if suite.EnvFile != "" {
		vars, err := env.LoadFile(suite.EnvFile)
		if err != nil {
			return nil, err
		}
		base = base.InsertMap(vars)
		for k, v := range vars {
			secrets[k] = v
		}
	}
	if len(suite.Env) > 0 {
		base = base.InsertMap(suite.Env)
		for k, v := range suite.Env {
			secrets[k] = v
		}
	}
	for i := range suite.Cases {
		for k, v := range suite.Cases[i].Env {
			secrets[k] = v
		}
	}

	logger := r.logger
	if values := env.SecretValues(secrets); len(values) > 0 {
		logger = logging.NewRedactingLogger(logger, values...)
	}

	result := NewSuiteResult(suite.Name)
	if r.collector != nil {
		r.collector.EmitSuiteStarted(suite.Name)
	}
	logger.Info("suite started",
		logging.StringField("suite", suite.Name),
		logging.StringField("run_id", result.RunID),
		logging.IntField("cases", len(suite.Cases)),
	)

	start := time.Now()
	if r.parallelism > 1 {
		r.runParallel(ctx, suite, base, logger, result)
	} else {
		r.runSequential(ctx, suite, base, logger, result)
	}
	result.DurationMs = time.Since(start).Milliseconds()

	if r.collector != nil {
		r.collector.EmitSuiteFinished(
			suite.Name, result.DurationMs,
		)
	}
	logger.Info("suite finished",
		logging.StringField("suite", suite.Name),
		logging.IntField("passed", result.Passed),
		logging.IntField("failed", result.Failed),
		logging.IntField("skipped", result.Skipped),
		logging.IntField("errored", result.Errored),
		logging.Int64Field("duration_ms", result.DurationMs),
	)

	return result, ctx.Err()
}

// RunAll executes the given suites in order and returns one
// result per suite.
func (r *Runner) RunAll(
	ctx context.Context,
	suites []*Suite,
) ([]*SuiteResult, error) {
	results := make([]*SuiteResult, 0, len(suites))
	for _, s := range suites {
		res, err := r.Run(ctx, s)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (r *Runner) runSequential(
	ctx context.Context,
	suite *Suite,
	base env.Environment,
	logger logging.Logger,
	result *SuiteResult,
) {
	for i := range suite.Cases {
		if ctx.Err() != nil {
			return
		}
		result.Record(
			r.runCase(suite, &suite.Cases[i], base, logger),
		)
	}
}

// parallelCase pairs a case result with its original index so
// results can be recorded in declaration order.
type parallelCase struct {
	index  int
	result CaseResult
	done   bool
}

// runParallel executes cases concurrently with a semaphore
// limiting active goroutines. Results are recorded in the same
// order as the cases appear in the suite.
func (r *Runner) runParallel(
	ctx context.Context,
	suite *Suite,
	base env.Environment,
	logger logging.Logger,
	result *SuiteResult,
) {
	sem := make(chan struct{}, r.parallelism)
	resultsCh := make(chan parallelCase, len(suite.Cases))

	var wg sync.WaitGroup

	for i := range suite.Cases {
		wg.Add(1)
		go func(idx int, c *Case) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelCase{index: idx}
				return
			}

			resultsCh <- parallelCase{
				index:  idx,
				result: r.runCase(suite, c, base, logger),
				done:   true,
			}
		}(i, &suite.Cases[i])
	}

	// Close channel after all goroutines complete.
	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	// Collect in declaration order, dropping cases that never
	// ran because the context was cancelled.
	ordered := make([]*CaseResult, len(suite.Cases))
	for pc := range resultsCh {
		if pc.done {
			cr := pc.result
			ordered[pc.index] = &cr
		}
	}
	for _, cr := range ordered {
		if cr != nil {
			result.Record(*cr)
		}
	}
}

// runCase executes one case and classifies its outcome. A
// failed expectation yields StatusFailed; any other error,
// such as a command that could not be spawned, yields
// StatusError.
func (r *Runner) runCase(
	suite *Suite,
	c *Case,
	base env.Environment,
	logger logging.Logger,
) CaseResult {
	display := displayCommand(c)

	if c.Skip != "" {
		if r.collector != nil {
			r.collector.EmitCaseSkipped(suite.Name, c.Name)
		}
		logger.Info("case skipped",
			logging.StringField("case", c.Name),
			logging.StringField("reason", c.Skip),
		)
		return CaseResult{
			Name:    c.Name,
			Status:  StatusSkipped,
			Command: display,
			Message: c.Skip,
		}
	}

	if r.collector != nil {
		r.collector.EmitCaseStarted(suite.Name, c.Name, display)
	}

	environment := base
	if len(c.Env) > 0 {
		environment = environment.InsertMap(c.Env)
	}

	start := time.Now()
	err := r.buildAssert(c, environment, logger).Execute()
	elapsed := time.Since(start).Milliseconds()

	cr := CaseResult{
		Name:       c.Name,
		Command:    display,
		DurationMs: elapsed,
	}

	var assertErr *cmdassert.AssertionError
	switch {
	case err == nil:
		cr.Status = StatusPassed
		if r.collector != nil {
			r.collector.EmitCasePassed(
				suite.Name, c.Name, elapsed,
			)
		}
	case errors.As(err, &assertErr):
		cr.Status = StatusFailed
		cr.Message = err.Error()
		if r.collector != nil {
			r.collector.EmitCaseFailed(
				suite.Name, c.Name, cr.Message,
			)
		}
		logger.Warn("case failed",
			logging.StringField("case", c.Name),
			logging.ErrorField(err),
		)
	default:
		cr.Status = StatusError
		cr.Message = err.Error()
		if r.collector != nil {
			r.collector.EmitCaseError(
				suite.Name, c.Name, cr.Message,
			)
		}
		logger.Error("case error",
			logging.StringField("case", c.Name),
			logging.ErrorField(err),
		)
	}
	return cr
}

// buildAssert translates a case into a command assertion.
func (r *Runner) buildAssert(
	c *Case,
	environment env.Environment,
	logger logging.Logger,
) *cmdassert.Assert {
	var a *cmdassert.Assert
	if len(c.Argv) > 0 {
		a = cmdassert.Command(c.Argv[0], c.Argv[1:]...)
	} else {
		a = cmdassert.CommandLine(c.Command)
	}

	a = a.WithEnv(environment).WithLogger(logger)
	if c.Dir != "" {
		a = a.CurrentDir(c.Dir)
	}
	if c.Stdin != "" {
		a = a.Stdin(c.Stdin)
	}
	if r.driver != nil {
		a = a.WithDriver(r.driver)
	}

	switch c.Expect.Status {
	case ExpectFailure:
		if c.Expect.Code != nil {
			a = a.FailsWith(*c.Expect.Code)
		} else {
			a = a.Fails()
		}
	case ExpectIgnored:
		a = a.IgnoreStatus()
	default:
		if c.Expect.Code != nil {
			a = a.FailsWith(*c.Expect.Code)
		} else {
			a = a.Succeeds()
		}
	}

	applyChecks(a.Stdout(), c.Expect.Stdout)
	applyChecks(a.Stderr(), c.Expect.Stderr)
	return a
}

// --- helpers ---

func applyChecks(
	o *cmdassert.OutputAssertion,
	checks []Check,
) {
	for i := range checks {
		ch := &checks[i]
		switch {
		case ch.Is != nil:
			o.Is(*ch.Is)
		case ch.Isnt != nil:
			o.Isnt(*ch.Isnt)
		case ch.Contains != nil:
			o.Contains(*ch.Contains)
		case ch.NotContains != nil:
			o.DoesntContain(*ch.NotContains)
		case ch.Matches != nil:
			o.Matches(*ch.Matches)
		case ch.MatchCount != nil:
			o.MatchesNTimes(
				ch.MatchCount.Pattern,
				ch.MatchCount.Count,
			)
		}
	}
}

func displayCommand(c *Case) string {
	if len(c.Argv) > 0 {
		return strings.Join(c.Argv, " ")
	}
	return c.Command
}
