package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"digital.vasic.cliassert/pkg/cmdassert"
	"digital.vasic.cliassert/pkg/output"
	"digital.vasic.cliassert/pkg/script"
)

var (
	passFmt  = color.New(color.FgGreen).SprintFunc()
	failFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	skipFmt  = color.New(color.Faint).SprintFunc()
	suiteFmt = color.New(color.FgBlue, color.Bold).SprintFunc()
	cmdFmt   = color.New(color.FgCyan).SprintFunc()
)

// ConsoleRenderer writes human-readable run output to a
// terminal. Color is stripped automatically when the process is
// not attached to one.
type ConsoleRenderer struct {
	w       io.Writer
	verbose bool
}

// NewConsoleRenderer creates a renderer writing to w. Verbose
// mode prints the command line of every case.
func NewConsoleRenderer(
	w io.Writer,
	verbose bool,
) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, verbose: verbose}
}

// RenderSuite writes one line per case followed by a summary
// line for the whole suite.
func (r *ConsoleRenderer) RenderSuite(
	result *script.SuiteResult,
) {
	fmt.Fprintf(
		r.w, "%s %s\n", suiteFmt("==>"), result.Suite,
	)

	for _, c := range result.Cases {
		r.renderCase(c)
	}

	line := fmt.Sprintf(
		"%d passed, %d failed, %d skipped, %d errored in %v",
		result.Passed, result.Failed,
		result.Skipped, result.Errored,
		time.Duration(result.DurationMs)*time.Millisecond,
	)
	if result.AllPassed() {
		fmt.Fprintf(r.w, "%s\n", passFmt(line))
	} else {
		fmt.Fprintf(r.w, "%s\n", failFmt(line))
	}
}

func (r *ConsoleRenderer) renderCase(c script.CaseResult) {
	dur := time.Duration(c.DurationMs) * time.Millisecond

	switch c.Status {
	case script.StatusPassed:
		fmt.Fprintf(
			r.w, "  %s %s (%v)\n",
			passFmt("✓"), c.Name, dur,
		)
	case script.StatusSkipped:
		fmt.Fprintf(
			r.w, "  %s\n",
			skipFmt("- "+c.Name+" (skipped)"),
		)
	case script.StatusError:
		fmt.Fprintf(
			r.w, "  %s %s (%v)\n",
			failFmt("!"), c.Name, dur,
		)
	default:
		fmt.Fprintf(
			r.w, "  %s %s (%v)\n",
			failFmt("✗"), c.Name, dur,
		)
	}

	if r.verbose && c.Command != "" {
		fmt.Fprintf(
			r.w, "    %s %s\n", cmdFmt("$"), c.Command,
		)
	}

	if c.Message == "" ||
		c.Status == script.StatusPassed ||
		c.Status == script.StatusSkipped {
		return
	}
	msg := strings.TrimRight(c.Message, "\n")
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(r.w, "      %s\n", line)
	}
}

// RenderError writes a colored rendering of a command
// assertion failure to w. The cause chain is walked outermost
// to innermost: the command line first, then the failed check,
// then its diagnostic payload.
func RenderError(w io.Writer, err error) {
	var assertErr *cmdassert.AssertionError
	if !errors.As(err, &assertErr) {
		fmt.Fprintln(w, failFmt(err.Error()))
		return
	}

	fmt.Fprintf(
		w, "%s %s\n",
		failFmt("✗ CLI assertion failed:"),
		cmdFmt("`"+strings.Join(assertErr.Cmd, " ")+"`"),
	)

	cause := errors.Unwrap(assertErr)
	if cause == nil {
		return
	}

	var streamErr *output.StreamError
	if errors.As(cause, &streamErr) {
		fmt.Fprintln(
			w,
			failFmt("unexpected "+streamErr.Stream.String()),
		)
		writeIndented(w, streamErr.Err.Error())
		return
	}
	writeIndented(w, cause.Error())
}

// writeIndented writes every line of msg indented two spaces.
func writeIndented(w io.Writer, msg string) {
	msg = strings.TrimRight(msg, "\n")
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// RenderTotals writes a single closing line covering every
// suite in the run.
func (r *ConsoleRenderer) RenderTotals(
	results []*script.SuiteResult,
) {
	passed := 0
	cases := 0
	var totalMs int64
	for _, res := range results {
		if res.AllPassed() {
			passed++
		}
		cases += res.Total()
		totalMs += res.DurationMs
	}

	line := fmt.Sprintf(
		"%d/%d suites passed (%d cases in %v)",
		passed, len(results), cases,
		time.Duration(totalMs)*time.Millisecond,
	)
	if passed == len(results) {
		fmt.Fprintln(r.w, passFmt(line))
	} else {
		fmt.Fprintln(r.w, failFmt(line))
	}
}
