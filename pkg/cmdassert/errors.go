package cmdassert

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrConsumed reports a second Execute call on an Assert that
// already ran. An executed Assert holds a drained result and
// cannot be reused.
var ErrConsumed = errors.New("assertion already executed")

// AssertionError is the top-level failure of a single check,
// tagged with the command line that ran.
type AssertionError struct {
	Cmd []string
	Err error
}

// Error implements the error interface. The rendering walks
// the whole cause chain so a failing test prints both which
// check failed and why.
func (e *AssertionError) Error() string {
	return fmt.Sprintf(
		"CLI assertion failed: `%s`\n%v",
		strings.Join(e.Cmd, " "), e.Err,
	)
}

// Unwrap returns the failed check.
func (e *AssertionError) Unwrap() error {
	return e.Err
}

// StatusError reports an exit status that did not match the
// expectation. Both captured streams ride along for
// diagnosis.
type StatusError struct {
	Expected bool
	Stdout   []byte
	Stderr   []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	want, got := "succeed", "failed"
	if !e.Expected {
		want, got = "fail", "succeeded"
	}
	return fmt.Sprintf(
		"expected the command to %s\nstatus=%s\nstdout=```%s```\nstderr=```%s```",
		want, got, lossy(e.Stdout), lossy(e.Stderr),
	)
}

// ExitCodeError reports an exit code that did not match the
// expectation. Actual is nil when the child was killed by a
// signal and has no code at all.
type ExitCodeError struct {
	Expected int
	Actual   *int
	Stdout   []byte
	Stderr   []byte
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	actual := "none"
	if e.Actual != nil {
		actual = strconv.Itoa(*e.Actual)
	}
	return fmt.Sprintf(
		"expected exit code `%d`\nexit code=`%s`\nstdout=```%s```\nstderr=```%s```",
		e.Expected, actual, lossy(e.Stdout), lossy(e.Stderr),
	)
}

// lossy renders captured bytes as text for failure messages,
// substituting the replacement character for invalid UTF-8.
func lossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(
		string(b), string(utf8.RuneError),
	)
}
