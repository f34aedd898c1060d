// Package cmd provides CLI commands for the cliassert tool.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at release time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "cliassert",
	Short:   "CLI Assert - assertion runner for command line applications",
	Version: Version,
	Long: `CLI Assert (cliassert) runs declarative assertion suites against
command line applications.

A suite is a YAML file naming commands to run together with the exit
status and output each one must produce. Mismatched text output is
reported as a line diff of the offending stream.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SilentExitError carries an exit code for outcomes that have
// already been reported and need no further printing.
type SilentExitError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewSilentExit creates a SilentExitError with the given code.
func NewSilentExit(code int) *SilentExitError {
	return &SilentExitError{Code: code}
}

// IsSilentExit reports whether err carries a silent exit code.
func IsSilentExit(err error) (int, bool) {
	var silent *SilentExitError
	if errors.As(err, &silent) {
		return silent.Code, true
	}
	return 0, false
}

// Execute runs the root command and returns an exit code.
// The caller (main) should call os.Exit with this code.
// Assertion failures exit 1; usage and load errors exit 2.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if code, ok := IsSilentExit(err); ok {
			return code
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
