package cmdassert

import "digital.vasic.cliassert/pkg/output"

// OutputAssertion binds expectations to one output stream of
// its parent Assert. Every expectation returns the parent so
// chains keep reading left to right.
type OutputAssertion struct {
	assert *Assert
	stream output.Stream
}

// Is expects the stream to equal text exactly. Leading and
// trailing whitespace is trimmed on both sides before the
// comparison.
func (o *OutputAssertion) Is(text string) *Assert {
	return o.push(output.Is(output.Text(text)))
}

// IsBytes expects the stream to equal data byte for byte. No
// trimming and no text decoding take place.
func (o *OutputAssertion) IsBytes(data []byte) *Assert {
	return o.push(output.Is(output.Bytes(data)))
}

// Isnt expects the stream to differ from text.
func (o *OutputAssertion) Isnt(text string) *Assert {
	return o.push(output.Isnt(output.Text(text)))
}

// IsntBytes expects the stream to differ from data.
func (o *OutputAssertion) IsntBytes(data []byte) *Assert {
	return o.push(output.Isnt(output.Bytes(data)))
}

// Contains expects the stream to contain text as a substring.
// Nothing is trimmed.
func (o *OutputAssertion) Contains(text string) *Assert {
	return o.push(output.Contains(output.Text(text)))
}

// ContainsBytes expects the stream to contain data as a
// contiguous byte subsequence.
func (o *OutputAssertion) ContainsBytes(data []byte) *Assert {
	return o.push(output.Contains(output.Bytes(data)))
}

// DoesntContain expects the stream not to contain text.
func (o *OutputAssertion) DoesntContain(text string) *Assert {
	return o.push(output.DoesntContain(output.Text(text)))
}

// DoesntContainBytes expects the stream not to contain data.
func (o *OutputAssertion) DoesntContainBytes(
	data []byte,
) *Assert {
	return o.push(output.DoesntContain(output.Bytes(data)))
}

// Satisfies expects the user-supplied predicate to accept the
// stream's text. The message is reported verbatim when the
// predicate rejects it.
func (o *OutputAssertion) Satisfies(
	fn func(string) bool,
	message string,
) *Assert {
	return o.push(output.Satisfies(fn, message))
}

// Matches expects the pattern to match somewhere in the
// stream. An invalid pattern surfaces as an error from
// Execute.
func (o *OutputAssertion) Matches(pattern string) *Assert {
	check, err := output.Matches(pattern)
	if err != nil {
		return o.pushErr(err)
	}
	return o.push(check)
}

// MatchesNTimes expects the pattern to match exactly count
// non-overlapping times, no more and no fewer.
func (o *OutputAssertion) MatchesNTimes(
	pattern string,
	count int,
) *Assert {
	check, err := output.MatchesN(pattern, count)
	if err != nil {
		return o.pushErr(err)
	}
	return o.push(check)
}

// push attaches a check to the parent assertion.
func (o *OutputAssertion) push(check output.Check) *Assert {
	o.assert.predicates = append(
		o.assert.predicates,
		output.NewPredicate(o.stream, check),
	)
	return o.assert
}

// pushErr records a deferred build failure on the parent. The
// first failure wins.
func (o *OutputAssertion) pushErr(err error) *Assert {
	if o.assert.buildErr == nil {
		o.assert.buildErr = err
	}
	return o.assert
}
