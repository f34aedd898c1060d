// Package output models the checks applied to a captured
// command stream and the failures they produce.
package output

import (
	"strings"
	"unicode/utf8"
)

// Content is the expected payload of a check, carrying either
// text or raw bytes. The form chosen decides how the observed
// stream is compared: text content decodes the stream
// lossily, byte content compares it verbatim.
type Content struct {
	text    string
	data    []byte
	isBytes bool
}

// Text builds text content.
func Text(s string) Content {
	return Content{text: s}
}

// Bytes builds byte content. The buffer is copied so later
// mutation by the caller cannot change the check.
func Bytes(b []byte) Content {
	return Content{
		data:    append([]byte(nil), b...),
		isBytes: true,
	}
}

// decodeLossy converts captured bytes to text, substituting
// the Unicode replacement character for invalid sequences.
// Invalid output is never rejected outright.
func decodeLossy(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(
		string(b), string(utf8.RuneError),
	)
}
