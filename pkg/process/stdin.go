package process

import "io"

// StdinSource writes one chunk of the child's standard input.
// Sources run in order on a dedicated goroutine while the
// child's output is drained, so a source may block, sleep, or
// stream as much data as it wants without deadlocking the run.
type StdinSource func(w io.Writer) error

// StdinBytes returns a source that writes a fixed byte buffer.
func StdinBytes(data []byte) StdinSource {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

// StdinString returns a source that writes a fixed string.
func StdinString(text string) StdinSource {
	return StdinBytes([]byte(text))
}
