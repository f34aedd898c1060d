// Command testbin is a fixture program for exercising the assertion
// library against a real child process. Environment variables drive
// its behavior:
//
//   - "stdout": prints the value to standard output
//   - "stderr": prints the value to standard error
//   - "echo_stdin": copies standard input to standard output
//   - "exit": exits with the parsed code; an unparsable value
//     reports an error and exits 1
//
// With no variables set the program prints nothing and exits 0. A
// variable set to the empty string still counts as set.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
)

func main() {
	os.Exit(run(os.LookupEnv, os.Stdin, os.Stdout, os.Stderr))
}

// run implements the fixture behavior against injectable streams so
// tests can exercise it without spawning a process.
func run(
	lookup func(string) (string, bool),
	stdin io.Reader,
	stdout, stderr io.Writer,
) int {
	if text, ok := lookup("stdout"); ok {
		fmt.Fprintln(stdout, text)
	}
	if text, ok := lookup("stderr"); ok {
		fmt.Fprintln(stderr, text)
	}
	if _, ok := lookup("echo_stdin"); ok {
		if _, err := io.Copy(stdout, stdin); err != nil {
			fmt.Fprintf(stderr, "error: reading stdin: %v\n", err)
			return 1
		}
	}

	if text, ok := lookup("exit"); ok {
		code, err := strconv.Atoi(text)
		if err != nil {
			fmt.Fprintf(
				stderr, "error: invalid exit code %q\n", text,
			)
			return 1
		}
		return code
	}
	return 0
}
