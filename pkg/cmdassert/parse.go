package cmdassert

import "unicode"

// SplitCommand splits a shell-like command line into argv
// tokens. Tokens are separated by unquoted whitespace. Single
// and double quotes group the text between them and stay part
// of the token; a quote kind opened inside the other kind
// nests instead of terminating it. No escape sequences are
// interpreted.
func SplitCommand(line string) []string {
	var (
		args    []string
		current []rune
		quotes  []rune
	)

	for _, c := range line {
		if len(quotes) == 0 && unicode.IsSpace(c) {
			if len(current) > 0 {
				args = append(args, string(current))
				current = current[:0]
			}
			continue
		}

		current = append(current, c)

		if c == '"' || c == '\'' {
			if len(quotes) > 0 && quotes[len(quotes)-1] == c {
				quotes = quotes[:len(quotes)-1]
			} else {
				quotes = append(quotes, c)
			}
		}
	}

	if len(current) > 0 {
		args = append(args, string(current))
	}

	return args
}
