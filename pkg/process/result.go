package process

// Result captures everything observed from a finished child
// process. Stream contents are raw bytes; decoding is the
// caller's concern.
type Result struct {
	// Stdout holds the complete standard output.
	Stdout []byte
	// Stderr holds the complete standard error.
	Stderr []byte
	// Exited reports normal termination. It is false when the
	// process was killed by a signal.
	Exited bool
	// Code is the exit code. It is meaningful only when Exited
	// is true.
	Code int
}

// Success reports whether the process terminated normally with
// exit code zero.
func (r *Result) Success() bool {
	return r.Exited && r.Code == 0
}

// ExitCode returns the exit code and whether one exists. A
// signal-killed process has no exit code.
func (r *Result) ExitCode() (int, bool) {
	if !r.Exited {
		return 0, false
	}
	return r.Code, true
}
