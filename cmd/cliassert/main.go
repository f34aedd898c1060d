// cliassert runs declarative assertion suites against command
// line applications.
package main

import (
	"os"

	"digital.vasic.cliassert/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
