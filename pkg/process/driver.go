// Package process spawns child commands and captures their
// exit status and output streams for later verification.
package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

// commandFunc creates the exec.Cmd used to launch the child
// process. It can be overridden in tests for dependency
// injection.
var commandFunc = exec.Command

// Spec describes a single child process run.
type Spec struct {
	// Argv is the program followed by its arguments. The
	// program is resolved against the parent's PATH even when
	// Env clears the child's environment.
	Argv []string
	// Env is the exact child environment as "KEY=value" pairs.
	// A nil or empty Env runs the child with a cleared
	// environment; the driver never inherits implicitly.
	Env []string
	// Dir is the child's working directory. Empty means the
	// parent's current directory.
	Dir string
	// Stdin sources are written to the child in order. When
	// empty, the child gets no standard input.
	Stdin []StdinSource
}

// Driver runs a command specification to completion and
// captures the outcome.
type Driver interface {
	Run(spec Spec) (*Result, error)
}

// ExecDriver is the default Driver, backed by os/exec. The
// child always runs to completion; there is no timeout or
// cancellation.
type ExecDriver struct{}

// NewExecDriver returns the default process driver.
func NewExecDriver() *ExecDriver {
	return &ExecDriver{}
}

// Run starts the command, feeds its standard input, drains
// both output streams concurrently, and waits for the process
// to terminate. Standard input is written on its own goroutine
// so a child that interleaves reading and writing never
// deadlocks against a full pipe.
func (d *ExecDriver) Run(spec Spec) (*Result, error) {
	if len(spec.Argv) == 0 {
		return nil, &SpawnError{
			Argv: spec.Argv,
			Err:  errors.New("no command given"),
		}
	}

	cmd := commandFunc(spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	if cmd.Env == nil {
		cmd.Env = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stdin io.WriteCloser
	if len(spec.Stdin) > 0 {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, &SpawnError{Argv: spec.Argv, Err: err}
		}
		stdin = pipe
	}

	if err := cmd.Start(); err != nil {
		if stdin != nil {
			stdin.Close()
		}
		return nil, &SpawnError{Argv: spec.Argv, Err: err}
	}

	var wrote chan error
	if stdin != nil {
		wrote = make(chan error, 1)
		go func() {
			wrote <- writeStdin(stdin, spec.Stdin)
		}()
	}

	waitErr := cmd.Wait()
	if waitErr != nil {
		if _, ok := waitErr.(*exec.ExitError); !ok {
			return nil, fmt.Errorf(
				"waiting for %s: %w", spec.Argv[0], waitErr,
			)
		}
	}

	if wrote != nil {
		if err := <-wrote; err != nil {
			return nil, fmt.Errorf(
				"writing stdin to %s: %w", spec.Argv[0], err,
			)
		}
	}

	return &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
		Exited: cmd.ProcessState.Exited(),
		Code:   cmd.ProcessState.ExitCode(),
	}, nil
}

// writeStdin feeds every source to the child's stdin pipe and
// closes it so the child sees end of input.
func writeStdin(
	pipe io.WriteCloser,
	sources []StdinSource,
) error {
	defer pipe.Close()

	for _, source := range sources {
		if err := source(pipe); err != nil {
			// A child that exits without consuming its input
			// closes the pipe under us. os/exec treats that
			// as normal completion, and so do we.
			if errors.Is(err, syscall.EPIPE) ||
				errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}

	return nil
}
