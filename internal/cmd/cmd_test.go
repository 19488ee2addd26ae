package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whmcsguru/ExceptionParser/internal/source"
)

const pdoLine = "[2024-01-01 00:00:00] [app] ERROR: PDOException: SQLSTATE[42S22]: Column not found: 1054 Unknown column 'foo' in 'field list' (SQL: select foo from bar) in /var/www/app/Model.php:42\n"

// execute runs the CLI with flags reset to their defaults first, since
// cobra keeps flag values between runs.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	defaults := []string{"--output=text", "--color=false", "--summary=false", "--verbose=false"}
	rootCmd.SetArgs(append(append([]string{args[0]}, defaults...), args[1:]...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestViewText(t *testing.T) {
	path := writeLog(t, "booting\n"+pdoLine+"Just a plain log line with no structure")

	out, _, err := execute(t, "view", path)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "booting\n\n=== ERROR DETECTED ===\n"))
	assert.Contains(t, out, "Exception: PDOException\n")
	assert.Contains(t, out, "Query: select foo from bar\n")
	assert.Contains(t, out, "  at "+filepath.Join("app", "Model.php")+":42\n")
	assert.True(t, strings.HasSuffix(out, "=====================\nJust a plain log line with no structure"))
}

func TestViewPassthroughOnly(t *testing.T) {
	content := "line one\nline two\r\n\nlast"
	path := writeLog(t, content)

	out, _, err := execute(t, "view", path)
	require.NoError(t, err)
	assert.Equal(t, content, out)
}

func TestViewMultipleFiles(t *testing.T) {
	first := writeLog(t, "first\n")
	second := writeLog(t, "second\n")

	out, _, err := execute(t, "view", first, second)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", out)
}

func TestViewMissingFile(t *testing.T) {
	out, _, err := execute(t, "view", filepath.Join(t.TempDir(), "missing.log"))
	assert.ErrorIs(t, err, source.ErrSourceNotFound)
	assert.Empty(t, out)
}

func TestViewJSON(t *testing.T) {
	path := writeLog(t, pdoLine+"plain\n")

	out, _, err := execute(t, "view", path, "--output", "json")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"sql":"select foo from bar"`)
	assert.Contains(t, lines[1], `"raw":"plain\n"`)
}

func TestViewSummary(t *testing.T) {
	path := writeLog(t, pdoLine+"plain\n")

	_, errOut, err := execute(t, "view", path, "--summary")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Summary")
	assert.Contains(t, errOut, "PDOException")
}

func TestViewUnknownOutput(t *testing.T) {
	path := writeLog(t, "plain\n")

	_, _, err := execute(t, "view", path, "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "exparse dev\n", out)
}

func TestViewUnopenableFileBeforeOutput(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can open any file")
	}

	readable := writeLog(t, "first\n")
	locked := writeLog(t, "secret\n")
	require.NoError(t, os.Chmod(locked, 0o000))

	out, _, err := execute(t, "view", readable, locked)
	assert.ErrorIs(t, err, source.ErrSourceUnopenable)
	assert.Empty(t, out)
}

func TestViewLiteralPathWithGlobCharacters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error[1].log")
	require.NoError(t, os.WriteFile(path, []byte("kept\n"), 0o644))

	out, _, err := execute(t, "view", path)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", out)
}

func TestWatchNoFiles(t *testing.T) {
	_, _, err := execute(t, "watch", filepath.Join(t.TempDir(), "missing-*.log"))
	assert.ErrorIs(t, err, source.ErrSourceNotFound)
}
