package output

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"digital.vasic.cliassert/pkg/diff"
)

// checkKind discriminates the variants of a Check.
type checkKind int

const (
	checkIs checkKind = iota
	checkContains
	checkFn
	checkRegex
)

// Check is one verification of a captured stream. A Check is
// immutable once built; evaluating it never mutates it, so the
// same Check can verify any number of results.
type Check struct {
	kind    checkKind
	content Content
	// want is the polarity: true means the comparison should
	// hold, false means it should not.
	want    bool
	fn      func(string) bool
	message string
	pattern *regexp.Regexp
	count   int
	counted bool
}

// Is builds a check that the stream equals the content. Text
// content is compared as trimmed line sequences; byte content
// is compared verbatim.
func Is(content Content) Check {
	return Check{kind: checkIs, content: content, want: true}
}

// Isnt builds the negation of Is.
func Isnt(content Content) Check {
	return Check{kind: checkIs, content: content, want: false}
}

// Contains builds a check that the stream contains the content
// as a substring. Nothing is trimmed on either side.
func Contains(content Content) Check {
	return Check{
		kind: checkContains, content: content, want: true,
	}
}

// DoesntContain builds the negation of Contains.
func DoesntContain(content Content) Check {
	return Check{
		kind: checkContains, content: content, want: false,
	}
}

// Satisfies builds a check from an arbitrary text predicate.
// The message describes the expectation and is reported when
// the predicate returns false.
func Satisfies(
	fn func(string) bool,
	message string,
) Check {
	return Check{
		kind:    checkFn,
		fn:      fn,
		message: message,
		want:    true,
	}
}

// Matches builds a check that the pattern matches somewhere in
// the stream. It fails if the pattern does not compile.
func Matches(pattern string) (Check, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Check{}, fmt.Errorf(
			"invalid pattern %q: %w", pattern, err,
		)
	}
	return Check{
		kind: checkRegex, pattern: re, want: true,
	}, nil
}

// MatchesN builds a check that the pattern matches exactly
// count non-overlapping times, no more and no fewer.
func MatchesN(
	pattern string,
	count int,
) (Check, error) {
	check, err := Matches(pattern)
	if err != nil {
		return Check{}, err
	}
	check.count = count
	check.counted = true
	return check, nil
}

// Evaluate applies the check to the raw bytes of a captured
// stream, returning nil on success or a typed failure.
func (c Check) Evaluate(observed []byte) error {
	switch c.kind {
	case checkIs:
		return c.evaluateIs(observed)
	case checkContains:
		return c.evaluateContains(observed)
	case checkFn:
		return c.evaluateFn(observed)
	case checkRegex:
		return c.evaluateRegex(observed)
	default:
		return fmt.Errorf("unknown check kind %d", c.kind)
	}
}

// evaluateIs compares for equality, honoring polarity.
func (c Check) evaluateIs(observed []byte) error {
	if c.content.isBytes {
		equal := bytes.Equal(c.content.data, observed)
		if equal == c.want {
			return nil
		}
		if c.want {
			return &NotEqualError{
				Expected: string(c.content.data),
				Actual:   string(observed),
			}
		}
		return &UnexpectedEqualError{
			Actual: string(observed),
		}
	}

	// Text equality tolerates leading and trailing whitespace
	// on both sides. Only Is trims; Contains never does.
	actual := decodeLossy(observed)
	expected := strings.TrimSpace(c.content.text)
	script := diff.Lines(expected, strings.TrimSpace(actual))

	equal := true
	for _, line := range script {
		if line.Op != diff.OpSame {
			equal = false
			break
		}
	}
	if equal == c.want {
		return nil
	}
	if c.want {
		return &NotEqualError{
			Expected: expected,
			Actual:   strings.TrimSpace(actual),
			Diff:     diff.Render(script),
		}
	}
	return &UnexpectedEqualError{Actual: actual}
}

// evaluateContains compares for containment, honoring
// polarity.
func (c Check) evaluateContains(observed []byte) error {
	if c.content.isBytes {
		found := bytes.Contains(observed, c.content.data)
		if found == c.want {
			return nil
		}
		if c.want {
			return &DoesNotContainError{
				Needle:   string(c.content.data),
				Haystack: string(observed),
			}
		}
		return &UnexpectedContainsError{
			Needle:   string(c.content.data),
			Haystack: string(observed),
		}
	}

	actual := decodeLossy(observed)
	found := strings.Contains(actual, c.content.text)
	if found == c.want {
		return nil
	}
	if c.want {
		return &DoesNotContainError{
			Needle:   c.content.text,
			Haystack: actual,
		}
	}
	return &UnexpectedContainsError{
		Needle:   c.content.text,
		Haystack: actual,
	}
}

// evaluateFn applies the custom predicate to the decoded
// stream.
func (c Check) evaluateFn(observed []byte) error {
	actual := decodeLossy(observed)
	if c.fn(actual) {
		return nil
	}
	return &CustomPredicateFailedError{
		Message: c.message,
		Actual:  actual,
	}
}

// evaluateRegex counts non-overlapping matches and compares
// against the expectation.
func (c Check) evaluateRegex(observed []byte) error {
	actual := decodeLossy(observed)
	found := len(
		c.pattern.FindAllStringIndex(actual, -1),
	)

	if c.counted {
		if found == c.count {
			return nil
		}
	} else if found > 0 {
		return nil
	}

	return &RegexMismatchError{
		Pattern:  c.pattern.String(),
		Expected: c.count,
		Observed: found,
		Counted:  c.counted,
		Actual:   actual,
	}
}
