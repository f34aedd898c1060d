package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookupFrom(
	vars map[string]string,
) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		vars       map[string]string
		stdin      string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:     "no variables",
			wantCode: 0,
		},
		{
			name:       "stdout text",
			vars:       map[string]string{"stdout": "hello"},
			wantStdout: "hello\n",
		},
		{
			name:       "stderr text",
			vars:       map[string]string{"stderr": "oops"},
			wantStderr: "oops\n",
		},
		{
			name: "both streams",
			vars: map[string]string{
				"stdout": "out",
				"stderr": "err",
			},
			wantStdout: "out\n",
			wantStderr: "err\n",
		},
		{
			name:       "empty value still counts as set",
			vars:       map[string]string{"stdout": ""},
			wantStdout: "\n",
		},
		{
			name:       "echo stdin",
			vars:       map[string]string{"echo_stdin": "1"},
			stdin:      "piped text",
			wantStdout: "piped text",
		},
		{
			name:     "exit code",
			vars:     map[string]string{"exit": "42"},
			wantCode: 42,
		},
		{
			name:       "invalid exit code",
			vars:       map[string]string{"exit": "nope"},
			wantCode:   1,
			wantStderr: "error: invalid exit code \"nope\"\n",
		},
		{
			name: "streams print before exit",
			vars: map[string]string{
				"stdout": "going down",
				"exit":   "3",
			},
			wantCode:   3,
			wantStdout: "going down\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(
				lookupFrom(tt.vars),
				strings.NewReader(tt.stdin),
				&stdout, &stderr,
			)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}
