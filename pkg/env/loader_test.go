package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := `# Comment
FOO=bar
BAZ="quoted value"
EMPTY=
SINGLE_QUOTE='single'
not a pair
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0644))

	vars, err := LoadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, "bar", vars["FOO"])
	assert.Equal(t, "quoted value", vars["BAZ"])
	assert.Equal(t, "", vars["EMPTY"])
	assert.Equal(t, "single", vars["SINGLE_QUOTE"])
	assert.Len(t, vars, 4)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile("/nonexistent/.env")
	assert.Error(t, err)
}

func TestEnvironment_InsertFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(
		t, os.WriteFile(envFile, []byte("FOO=bar\n"), 0644),
	)

	e, err := Empty().Insert("BASE", "1").InsertFile(envFile)
	require.NoError(t, err)
	assert.ElementsMatch(
		t, []string{"BASE=1", "FOO=bar"}, e.Compile(),
	)
}

func TestEnvironment_InsertFile_Missing(t *testing.T) {
	_, err := Empty().InsertFile("/nonexistent/.env")
	assert.Error(t, err)
}
