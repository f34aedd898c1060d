package output

import "digital.vasic.cliassert/pkg/process"

// Stream selects which captured stream a predicate inspects.
type Stream int

const (
	// StdOut selects the child's standard output.
	StdOut Stream = iota
	// StdErr selects the child's standard error.
	StdErr
)

// String names the stream the way it is reported in failures.
func (s Stream) String() string {
	if s == StdErr {
		return "stderr"
	}
	return "stdout"
}

// of returns the selected stream's bytes from a result.
func (s Stream) of(res *process.Result) []byte {
	if s == StdErr {
		return res.Stderr
	}
	return res.Stdout
}

// Predicate binds a content check to the stream it applies
// to. Predicates are read-only: verifying one never consumes
// or alters the result.
type Predicate struct {
	stream Stream
	check  Check
}

// NewPredicate builds a predicate for one stream.
func NewPredicate(stream Stream, check Check) Predicate {
	return Predicate{stream: stream, check: check}
}

// Stream returns the stream the predicate inspects.
func (p Predicate) Stream() Stream {
	return p.stream
}

// Verify applies the predicate to a captured result. Failures
// are wrapped in a StreamError naming the offending stream.
func (p Predicate) Verify(res *process.Result) error {
	if err := p.check.Evaluate(p.stream.of(res)); err != nil {
		return &StreamError{Stream: p.stream, Err: err}
	}
	return nil
}
