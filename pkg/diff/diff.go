// Package diff computes and renders line-oriented diffs between
// expected and observed command output.
package diff

import "strings"

// Op identifies the kind of edit a diff line represents.
type Op int

const (
	// OpSame marks a line present in both inputs.
	OpSame Op = iota
	// OpRemoved marks a line present only in the expected input.
	OpRemoved
	// OpAdded marks a line present only in the observed input.
	OpAdded
)

// String returns the conventional single-character prefix for
// the operation.
func (o Op) String() string {
	switch o {
	case OpRemoved:
		return "-"
	case OpAdded:
		return "+"
	default:
		return " "
	}
}

// Line is a single entry of a line-oriented edit script.
type Line struct {
	Op   Op
	Text string
}

// Lines computes the edit script that transforms expected into
// actual, operating on "\n"-separated lines. Both inputs are
// split on "\n" regardless of platform.
func Lines(expected, actual string) []Line {
	return editScript(
		splitLines(expected), splitLines(actual),
	)
}

// Distance counts the added and removed entries of the edit
// script between expected and actual. It is zero exactly when
// the two inputs contain the same line sequence.
func Distance(expected, actual string) int {
	distance := 0
	for _, line := range Lines(expected, actual) {
		if line.Op != OpSame {
			distance++
		}
	}
	return distance
}

// splitLines splits s on "\n", mapping the empty string to no
// lines at all.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// editScript diffs two token sequences via an LCS table and
// backtracking. Replacements come out as a removed token
// directly followed by the token added in its place.
func editScript(expected, actual []string) []Line {
	table := lcsTable(expected, actual)

	var script []Line
	i := len(expected)
	j := len(actual)

	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && expected[i-1] == actual[j-1]:
			script = append(script, Line{
				Op: OpSame, Text: expected[i-1],
			})
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] >= table[i-1][j]):
			script = append(script, Line{
				Op: OpAdded, Text: actual[j-1],
			})
			j--
		default:
			script = append(script, Line{
				Op: OpRemoved, Text: expected[i-1],
			})
			i--
		}
	}

	for left, right := 0, len(script)-1; left < right; left, right = left+1, right-1 {
		script[left], script[right] = script[right], script[left]
	}

	return script
}

// lcsTable builds the longest-common-subsequence length table
// for two token sequences.
func lcsTable(a, b []string) [][]int {
	m := len(a)
	n := len(b)

	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	return table
}
