package output

import "fmt"

// NotEqualError reports output that should have equaled the
// expected content but did not. Diff carries a rendered line
// diff for text comparisons and is empty for byte
// comparisons.
type NotEqualError struct {
	Expected string
	Actual   string
	Diff     string
}

// Error implements the error interface.
func (e *NotEqualError) Error() string {
	if e.Diff == "" {
		return fmt.Sprintf(
			"expected %q, got %q", e.Expected, e.Actual,
		)
	}
	return fmt.Sprintf("diff:\n%s", e.Diff)
}

// UnexpectedEqualError reports output that equaled content it
// was expected to differ from. No diff is attached; the two
// sides are the same.
type UnexpectedEqualError struct {
	Actual string
}

// Error implements the error interface.
func (e *UnexpectedEqualError) Error() string {
	return fmt.Sprintf(
		"expected output to differ\noutput=```%s```", e.Actual,
	)
}

// DoesNotContainError reports output missing expected
// content.
type DoesNotContainError struct {
	Needle   string
	Haystack string
}

// Error implements the error interface.
func (e *DoesNotContainError) Error() string {
	return fmt.Sprintf(
		"expected to contain %q\noutput=```%s```",
		e.Needle, e.Haystack,
	)
}

// UnexpectedContainsError reports output containing content it
// was expected not to.
type UnexpectedContainsError struct {
	Needle   string
	Haystack string
}

// Error implements the error interface.
func (e *UnexpectedContainsError) Error() string {
	return fmt.Sprintf(
		"expected not to contain %q\noutput=```%s```",
		e.Needle, e.Haystack,
	)
}

// CustomPredicateFailedError reports a user-supplied predicate
// that returned false.
type CustomPredicateFailedError struct {
	Message string
	Actual  string
}

// Error implements the error interface.
func (e *CustomPredicateFailedError) Error() string {
	return fmt.Sprintf(
		"%s\noutput=```%s```", e.Message, e.Actual,
	)
}

// RegexMismatchError reports a pattern that did not match the
// output as required. In counted mode the exact number of
// non-overlapping matches differed from the expectation;
// otherwise the pattern simply never matched.
type RegexMismatchError struct {
	Pattern  string
	Expected int
	Observed int
	Counted  bool
	Actual   string
}

// Error implements the error interface.
func (e *RegexMismatchError) Error() string {
	if e.Counted {
		return fmt.Sprintf(
			"expected %d matches of /%s/, found %d\noutput=```%s```",
			e.Expected, e.Pattern, e.Observed, e.Actual,
		)
	}
	return fmt.Sprintf(
		"expected to match /%s/\noutput=```%s```",
		e.Pattern, e.Actual,
	)
}

// StreamError wraps a check failure with the stream it was
// observed on.
type StreamError struct {
	Stream Stream
	Err    error
}

// Error implements the error interface.
func (e *StreamError) Error() string {
	return fmt.Sprintf(
		"unexpected %s\n%v", e.Stream, e.Err,
	)
}

// Unwrap returns the underlying check failure.
func (e *StreamError) Unwrap() error {
	return e.Err
}
