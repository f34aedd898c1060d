// Package cmdassert provides fluent assertions about the exit
// status and captured output of an external command. An Assert
// is built up from expectations, runs its command exactly once,
// and checks every expectation against the single captured
// result in declaration order, stopping at the first failure.
package cmdassert

import (
	"errors"
	"strings"
	"time"

	"digital.vasic.cliassert/pkg/env"
	"digital.vasic.cliassert/pkg/logging"
	"digital.vasic.cliassert/pkg/output"
	"digital.vasic.cliassert/pkg/process"
)

// Assert accumulates expectations about one command run.
type Assert struct {
	cmd           []string
	environment   env.Environment
	dir           string
	stdin         []process.StdinSource
	expectSuccess *bool
	expectCode    *int
	predicates    []output.Predicate
	driver        process.Driver
	logger        logging.Logger
	buildErr      error
	consumed      bool
}

// Command starts an assertion for the given program and
// arguments. The command inherits the parent environment and
// is expected to succeed until Fails, FailsWith or
// IgnoreStatus say otherwise.
func Command(name string, args ...string) *Assert {
	return &Assert{
		cmd:           append([]string{name}, args...),
		environment:   env.Inherit(),
		expectSuccess: boolPtr(true),
		driver:        process.NewExecDriver(),
		logger:        logging.NullLogger{},
	}
}

// CommandLine starts an assertion from a single shell-like
// command line, tokenized with SplitCommand.
func CommandLine(line string) *Assert {
	argv := SplitCommand(line)
	if len(argv) == 0 {
		a := Command("")
		a.cmd = nil
		a.buildErr = errors.New("empty command line")
		return a
	}
	return Command(argv[0], argv[1:]...)
}

// WithArgs appends arguments to the command.
func (a *Assert) WithArgs(args ...string) *Assert {
	a.cmd = append(a.cmd, args...)
	return a
}

// WithEnv replaces the environment policy for the child
// process.
func (a *Assert) WithEnv(environment env.Environment) *Assert {
	a.environment = environment
	return a
}

// CurrentDir sets the working directory for the command.
func (a *Assert) CurrentDir(dir string) *Assert {
	a.dir = dir
	return a
}

// Stdin appends a text payload to write to the child's stdin.
func (a *Assert) Stdin(contents string) *Assert {
	a.stdin = append(
		a.stdin, process.StdinString(contents),
	)
	return a
}

// StdinBytes appends a byte payload to write to the child's
// stdin.
func (a *Assert) StdinBytes(contents []byte) *Assert {
	a.stdin = append(
		a.stdin, process.StdinBytes(contents),
	)
	return a
}

// StdinFunc appends a custom stdin write operation. Sources
// run in order on a dedicated goroutine, so one may pause
// between writes to simulate input trickling in from an
// upstream pipe.
func (a *Assert) StdinFunc(source process.StdinSource) *Assert {
	a.stdin = append(a.stdin, source)
	return a
}

// And returns the receiver unchanged. It makes long chains
// easier to read.
func (a *Assert) And() *Assert {
	return a
}

// Succeeds expects the command to exit with code zero. Any
// specific exit code expectation is cleared.
func (a *Assert) Succeeds() *Assert {
	a.expectCode = nil
	a.expectSuccess = boolPtr(true)
	return a
}

// Fails expects the command to run and exit unsuccessfully.
// A command that cannot be started at all does not count as
// failing; it must run to fail.
func (a *Assert) Fails() *Assert {
	a.expectSuccess = boolPtr(false)
	return a
}

// FailsWith expects the command to fail with the given exit
// code.
func (a *Assert) FailsWith(code int) *Assert {
	a.expectSuccess = boolPtr(false)
	a.expectCode = &code
	return a
}

// IgnoreStatus drops every expectation about the exit status,
// including an exit code set with FailsWith.
func (a *Assert) IgnoreStatus() *Assert {
	a.expectCode = nil
	a.expectSuccess = nil
	return a
}

// Stdout opens an assertion over the command's stdout.
func (a *Assert) Stdout() *OutputAssertion {
	return &OutputAssertion{
		assert: a, stream: output.StdOut,
	}
}

// Stderr opens an assertion over the command's stderr.
func (a *Assert) Stderr() *OutputAssertion {
	return &OutputAssertion{
		assert: a, stream: output.StdErr,
	}
}

// WithDriver replaces the process driver. Tests substitute a
// fake driver to check expectations against canned results
// without spawning anything.
func (a *Assert) WithDriver(driver process.Driver) *Assert {
	a.driver = driver
	return a
}

// WithLogger attaches a logger that records each run.
func (a *Assert) WithLogger(logger logging.Logger) *Assert {
	a.logger = logger
	return a
}

// Execute runs the command once and checks every expectation
// against the captured result. Checks run in declaration order
// and evaluation stops at the first failure. An Assert is
// consumed by Execute and cannot run again.
func (a *Assert) Execute() error {
	if a.consumed {
		return ErrConsumed
	}
	a.consumed = true

	if a.buildErr != nil {
		return a.buildErr
	}

	spec := process.Spec{
		Argv:  a.cmd,
		Env:   a.environment.Compile(),
		Dir:   a.dir,
		Stdin: a.stdin,
	}

	a.logger.Debug(
		"running command",
		logging.StringField(
			"command", strings.Join(a.cmd, " "),
		),
	)

	started := time.Now()
	res, err := a.driver.Run(spec)
	if err != nil {
		return err
	}
	a.logCommand(res, time.Since(started))

	if a.expectSuccess != nil && *a.expectSuccess != res.Success() {
		return &AssertionError{
			Cmd: a.cmd,
			Err: &StatusError{
				Expected: *a.expectSuccess,
				Stdout:   res.Stdout,
				Stderr:   res.Stderr,
			},
		}
	}

	if a.expectCode != nil {
		code, exited := res.ExitCode()
		if !exited || code != *a.expectCode {
			var actual *int
			if exited {
				actual = &code
			}
			return &AssertionError{
				Cmd: a.cmd,
				Err: &ExitCodeError{
					Expected: *a.expectCode,
					Actual:   actual,
					Stdout:   res.Stdout,
					Stderr:   res.Stderr,
				},
			}
		}
	}

	for _, predicate := range a.predicates {
		if err := predicate.Verify(res); err != nil {
			return &AssertionError{Cmd: a.cmd, Err: err}
		}
	}

	return nil
}

// TestingT is the subset of testing.TB that Run needs.
// *testing.T and *testing.B both satisfy it.
type TestingT interface {
	Fatal(args ...interface{})
}

// tHelper marks implementations that support test helper
// tracking.
type tHelper interface {
	Helper()
}

// Run executes the assertion and aborts the calling test on
// failure, printing the full failure chain.
func (a *Assert) Run(t TestingT) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if err := a.Execute(); err != nil {
		t.Fatal(err)
	}
}

// --- helpers ---

// logCommand emits the per-run record after the child exits.
func (a *Assert) logCommand(
	res *process.Result,
	elapsed time.Duration,
) {
	var code *int
	if c, exited := res.ExitCode(); exited {
		code = &c
	}
	a.logger.LogCommand(logging.CommandLog{
		Command:     strings.Join(a.cmd, " "),
		Dir:         a.dir,
		ExitCode:    code,
		Signalled:   !res.Exited,
		DurationMs:  elapsed.Milliseconds(),
		StdoutBytes: len(res.Stdout),
		StderrBytes: len(res.Stderr),
	})
}

// boolPtr returns a pointer to b.
func boolPtr(b bool) *bool {
	return &b
}
