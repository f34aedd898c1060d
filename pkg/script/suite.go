// Package script loads and runs scripted assertion suites. A
// suite is a YAML document naming commands to run and the
// expectations placed on their exit status and output streams.
package script

import "fmt"

// Expectation status values.
const (
	ExpectSuccess = "success"
	ExpectFailure = "failure"
	ExpectIgnored = "ignored"
)

// Suite is one scripted collection of assertion cases sharing a
// base environment.
type Suite struct {
	Name    string            `yaml:"name"`
	Env     map[string]string `yaml:"env,omitempty"`
	EnvFile string            `yaml:"env_file,omitempty"`
	Inherit *bool             `yaml:"inherit,omitempty"`
	Cases   []Case            `yaml:"cases"`
}

// Case describes one command and its expectations. Either
// Command (tokenized like a shell word list) or Argv (used
// verbatim) names the program.
type Case struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command,omitempty"`
	Argv    []string          `yaml:"argv,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	Stdin   string            `yaml:"stdin,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Skip    string            `yaml:"skip,omitempty"`
	Expect  Expect            `yaml:"expect,omitempty"`
}

// Expect holds the expectations for a case. An empty Expect
// means the command is only expected to succeed. Setting Code
// implies the command is expected to fail with that code.
type Expect struct {
	Status string  `yaml:"status,omitempty"`
	Code   *int    `yaml:"code,omitempty"`
	Stdout []Check `yaml:"stdout,omitempty"`
	Stderr []Check `yaml:"stderr,omitempty"`
}

// Check is one expectation on an output stream. Exactly one
// field must be set.
type Check struct {
	Is          *string     `yaml:"is,omitempty"`
	Isnt        *string     `yaml:"isnt,omitempty"`
	Contains    *string     `yaml:"contains,omitempty"`
	NotContains *string     `yaml:"not_contains,omitempty"`
	Matches     *string     `yaml:"matches,omitempty"`
	MatchCount  *MatchCount `yaml:"match_count,omitempty"`
}

// MatchCount expects a pattern to match an exact number of
// non-overlapping times.
type MatchCount struct {
	Pattern string `yaml:"pattern"`
	Count   int    `yaml:"count"`
}

// Validate checks the suite for structural problems before any
// command runs.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("suite has no name")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite %s has no cases", s.Name)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if err := c.validate(); err != nil {
			return fmt.Errorf("suite %s: %w", s.Name, err)
		}
		if seen[c.Name] {
			return fmt.Errorf(
				"suite %s: duplicate case name %q",
				s.Name, c.Name,
			)
		}
		seen[c.Name] = true
	}
	return nil
}

func (c *Case) validate() error {
	if c.Name == "" {
		return fmt.Errorf("case has no name")
	}
	if c.Command == "" && len(c.Argv) == 0 {
		return fmt.Errorf("case %s has no command", c.Name)
	}
	if c.Command != "" && len(c.Argv) > 0 {
		return fmt.Errorf(
			"case %s sets both command and argv", c.Name,
		)
	}
	return c.Expect.validate(c.Name)
}

func (e *Expect) validate(caseName string) error {
	switch e.Status {
	case "", ExpectSuccess, ExpectFailure, ExpectIgnored:
	default:
		return fmt.Errorf(
			"case %s: unknown status %q", caseName, e.Status,
		)
	}

	if e.Code != nil &&
		(e.Status == ExpectSuccess || e.Status == ExpectIgnored) {
		return fmt.Errorf(
			"case %s: code conflicts with status %q",
			caseName, e.Status,
		)
	}

	for i := range e.Stdout {
		if err := e.Stdout[i].validate(); err != nil {
			return fmt.Errorf(
				"case %s stdout[%d]: %w", caseName, i, err,
			)
		}
	}
	for i := range e.Stderr {
		if err := e.Stderr[i].validate(); err != nil {
			return fmt.Errorf(
				"case %s stderr[%d]: %w", caseName, i, err,
			)
		}
	}
	return nil
}

func (ch *Check) validate() error {
	n := 0
	if ch.Is != nil {
		n++
	}
	if ch.Isnt != nil {
		n++
	}
	if ch.Contains != nil {
		n++
	}
	if ch.NotContains != nil {
		n++
	}
	if ch.Matches != nil {
		n++
	}
	if ch.MatchCount != nil {
		n++
	}

	if n == 0 {
		return fmt.Errorf("empty check")
	}
	if n > 1 {
		return fmt.Errorf("check sets %d directives, want one", n)
	}

	if ch.MatchCount != nil {
		if ch.MatchCount.Pattern == "" {
			return fmt.Errorf("match_count has no pattern")
		}
		if ch.MatchCount.Count < 0 {
			return fmt.Errorf("match_count count is negative")
		}
	}
	return nil
}
