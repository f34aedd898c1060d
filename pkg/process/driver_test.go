package process

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecDriver_Run_CapturesStdout(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{Argv: []string{"echo", "42"}})

	require.NoError(t, err)
	assert.Equal(t, "42\n", string(res.Stdout))
	assert.Empty(t, res.Stderr)
	assert.True(t, res.Success())
}

func TestExecDriver_Run_CapturesStderr(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"sh", "-c", "echo oops >&2"},
	})

	require.NoError(t, err)
	assert.Equal(t, "oops\n", string(res.Stderr))
	assert.Empty(t, res.Stdout)
}

func TestExecDriver_Run_NonZeroExit(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"sh", "-c", "exit 3"},
	})

	require.NoError(t, err)
	assert.False(t, res.Success())

	code, ok := res.ExitCode()
	require.True(t, ok)
	assert.Equal(t, 3, code)
}

func TestExecDriver_Run_SpawnFailure(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"definitely-not-a-real-binary-4711"},
	})

	require.Error(t, err)
	assert.Nil(t, res)

	spawnErr, ok := err.(*SpawnError)
	require.True(t, ok)
	assert.Contains(t,
		spawnErr.Error(), "definitely-not-a-real-binary-4711")
}

func TestExecDriver_Run_EmptyArgv(t *testing.T) {
	d := NewExecDriver()

	_, err := d.Run(Spec{})

	require.Error(t, err)
	_, ok := err.(*SpawnError)
	assert.True(t, ok)
}

func TestExecDriver_Run_ClearsEnvironmentByDefault(t *testing.T) {
	t.Setenv("CLIASSERT_LEAK_CHECK", "leaked")
	d := NewExecDriver()

	res, err := d.Run(Spec{Argv: []string{"printenv"}})

	require.NoError(t, err)
	assert.NotContains(t,
		string(res.Stdout), "CLIASSERT_LEAK_CHECK")
}

func TestExecDriver_Run_ExactEnvironment(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"printenv"},
		Env:  []string{"KEY=value"},
	})

	require.NoError(t, err)
	assert.Contains(t, string(res.Stdout), "KEY=value")
}

func TestExecDriver_Run_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker.txt")
	require.NoError(t,
		os.WriteFile(marker, []byte("here\n"), 0o644))

	d := NewExecDriver()
	res, err := d.Run(Spec{
		Argv: []string{"cat", "marker.txt"},
		Dir:  dir,
	})

	require.NoError(t, err)
	assert.Equal(t, "here\n", string(res.Stdout))
}

func TestExecDriver_Run_WritesStdin(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv:  []string{"cat"},
		Stdin: []StdinSource{StdinString("hello world")},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world", string(res.Stdout))
}

func TestExecDriver_Run_WritesStdinSourcesInOrder(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"cat"},
		Stdin: []StdinSource{
			StdinString("first "),
			StdinBytes([]byte("second")),
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "first second", string(res.Stdout))
}

func TestExecDriver_Run_StreamingStdinSource(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"cat"},
		Stdin: []StdinSource{
			func(w io.Writer) error {
				for _, chunk := range []string{"a", "b", "c"} {
					if _, err := io.WriteString(w, chunk); err != nil {
						return err
					}
					time.Sleep(5 * time.Millisecond)
				}
				return nil
			},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "abc", string(res.Stdout))
}

func TestExecDriver_Run_LargeStdinDoesNotDeadlock(t *testing.T) {
	// cat echoes input back as it reads, so both pipes fill
	// concurrently. A megabyte comfortably exceeds the kernel
	// pipe buffer in both directions.
	payload := bytes.Repeat([]byte("x"), 1<<20)
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv:  []string{"cat"},
		Stdin: []StdinSource{StdinBytes(payload)},
	})

	require.NoError(t, err)
	assert.Len(t, res.Stdout, 1<<20)
	assert.True(t, res.Success())
}

func TestExecDriver_Run_ChildIgnoringStdin(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 1<<20)
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv:  []string{"true"},
		Stdin: []StdinSource{StdinBytes(payload)},
	})

	require.NoError(t, err)
	assert.True(t, res.Success())
}

func TestExecDriver_Run_SignalKilledHasNoExitCode(t *testing.T) {
	d := NewExecDriver()

	res, err := d.Run(Spec{
		Argv: []string{"sh", "-c", "kill -9 $$"},
	})

	require.NoError(t, err)
	assert.False(t, res.Success())

	_, ok := res.ExitCode()
	assert.False(t, ok)
}

func TestResult_Success(t *testing.T) {
	assert.True(t, (&Result{Exited: true, Code: 0}).Success())
	assert.False(t, (&Result{Exited: true, Code: 1}).Success())
	assert.False(t, (&Result{Exited: false}).Success())
}

func TestResult_ExitCode(t *testing.T) {
	code, ok := (&Result{Exited: true, Code: 7}).ExitCode()
	require.True(t, ok)
	assert.Equal(t, 7, code)

	_, ok = (&Result{Exited: false, Code: -1}).ExitCode()
	assert.False(t, ok)
}

func TestStdinBytes_WritesBuffer(t *testing.T) {
	var sb strings.Builder

	err := StdinBytes([]byte("data"))(&sb)

	require.NoError(t, err)
	assert.Equal(t, "data", sb.String())
}

func TestStdinString_WritesText(t *testing.T) {
	var sb strings.Builder

	err := StdinString("text")(&sb)

	require.NoError(t, err)
	assert.Equal(t, "text", sb.String())
}
