package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	removedFmt = color.New(color.FgRed).SprintFunc()
	addedFmt   = color.New(color.FgGreen).SprintFunc()
	changedFmt = color.New(color.FgWhite, color.BgGreen).SprintFunc()
)

// Render formats an edit script as a colorized, human-readable
// diff. Rendering is presentation only and never influences
// whether a comparison passes.
func Render(lines []Line) string {
	var sb strings.Builder
	// strings.Builder writes cannot fail.
	_ = WriteTo(&sb, lines)
	return sb.String()
}

// WriteTo writes the colorized rendering of an edit script to w.
// Unchanged lines are prefixed with a space, removed lines with
// a red "-", added lines with a green "+". An added line that
// directly follows a removed line is refined word by word, with
// replacement words highlighted.
func WriteTo(w io.Writer, lines []Line) error {
	for i, line := range lines {
		var err error
		switch line.Op {
		case OpSame:
			_, err = fmt.Fprintf(w, " %s\n", line.Text)
		case OpRemoved:
			_, err = fmt.Fprintln(
				w, removedFmt("-"+line.Text),
			)
		case OpAdded:
			if i > 0 && lines[i-1].Op == OpRemoved {
				err = writeRefined(
					w, lines[i-1].Text, line.Text,
				)
			} else {
				_, err = fmt.Fprintln(
					w, addedFmt("+"+line.Text),
				)
			}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// writeRefined renders an added line word by word against the
// removed line it replaces. Words shared with the removed line
// are plain green, replacement words are highlighted, and words
// that only existed in the removed line are dropped.
func writeRefined(
	w io.Writer,
	removed, added string,
) error {
	if _, err := fmt.Fprint(w, addedFmt("+")); err != nil {
		return err
	}

	words := editScript(
		strings.Split(removed, " "),
		strings.Split(added, " "),
	)
	for _, word := range words {
		var err error
		switch word.Op {
		case OpSame:
			_, err = fmt.Fprint(
				w, addedFmt(word.Text), " ",
			)
		case OpAdded:
			_, err = fmt.Fprint(
				w, changedFmt(word.Text), " ",
			)
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
