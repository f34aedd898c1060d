package process

import (
	"fmt"
	"strings"
)

// SpawnError reports a command that could not be started at
// all, typically because the program was not found or is not
// executable. It is distinct from a command that started and
// exited with a failure status.
type SpawnError struct {
	Argv []string
	Err  error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf(
		"command `%s` failed to start: %v",
		strings.Join(e.Argv, " "), e.Err,
	)
}

// Unwrap returns the underlying start failure.
func (e *SpawnError) Unwrap() error {
	return e.Err
}
