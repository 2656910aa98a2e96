package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drgo/bibtidy/internal/logger"
)

const messy = `@article{old,
  year = 2001,
  title = {Old},
}
@Article{new, title={New}, year={2020}, month=jun}
`

const formatted = `@ARTICLE{new,
        title = "{New}",
         year = 2020,
        month = jun,
}

@ARTICLE{old,
        title = "{Old}",
         year = 2001,
}

`

// run executes bibtidy with args in dir and returns stdout and the log.
func run(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var logBuf bytes.Buffer
	logger.SetOutput(&logBuf)
	logger.SetColor(false)
	t.Cleanup(func() {
		logger.SetOutput(os.Stderr)
		logger.SetQuiet(false)
	})
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(dir)

	var out bytes.Buffer
	root := NewRootCmd(strings.NewReader(stdin), &out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), logBuf.String(), err
}

func writeBib(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestStdinToStdout(t *testing.T) {
	out, _, err := run(t, t.TempDir(), messy)
	require.NoError(t, err)
	assert.Equal(t, formatted, out)
}

func TestInPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeBib(t, dir, "refs.bib", messy)

	_, log, err := run(t, dir, "", "refs.bib")
	require.NoError(t, err)
	assert.Contains(t, log, "reformatted refs.bib")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(got))
	assert.FileExists(t, path+".untidy")

	// a second run finds nothing to do
	_, log, err = run(t, dir, "", "refs.bib")
	require.NoError(t, err)
	assert.NotContains(t, log, "reformatted")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	writeBib(t, dir, "good.bib", formatted)
	bad := writeBib(t, dir, "bad.bib", messy)

	_, log, err := run(t, dir, "", "--check", "*.bib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 inputs are not formatted")
	assert.Contains(t, log, "bad.bib is not formatted")

	got, err := os.ReadFile(bad)
	require.NoError(t, err)
	assert.Equal(t, messy, string(got))
}

func TestFailureDoesNotStopOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeBib(t, dir, "broken.bib", "@article{k, title = {unterminated}")
	good := writeBib(t, dir, "good.bib", messy)

	_, log, err := run(t, dir, "", "broken.bib", "good.bib")
	require.Error(t, err)
	assert.Contains(t, log, "error: broken.bib:1: expected } or ,")

	got, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(got))
}

func TestUnreadableArgumentDoesNotStopOtherFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeBib(t, dir, "good.bib", messy)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	_, log, err := run(t, dir, "", "missing.bib", "sub", "good.bib")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3 inputs failed")
	assert.Contains(t, log, `error: unable to open "missing.bib"`)
	assert.Contains(t, log, `error: "sub" is a directory, not a file`)
	assert.Contains(t, log, "reformatted good.bib")

	got, err := os.ReadFile(good)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(got))
}

func TestWindowsLineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(messy, "\n", "\r\n")

	out, _, err := run(t, t.TempDir(), crlf)
	require.NoError(t, err)
	assert.Equal(t, formatted, out)

	dir := t.TempDir()
	path := writeBib(t, dir, "win.bib", crlf)
	_, log, err := run(t, dir, "", "--check", "win.bib")
	require.Error(t, err)
	assert.Contains(t, log, "win.bib is not formatted")

	_, _, err = run(t, dir, "", "win.bib")
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, formatted, string(got))
}

func TestWarnings(t *testing.T) {
	in := "@article{k, year = {2000}, year = {2001}, month = nonexistent}\n"

	_, log, err := run(t, t.TempDir(), in)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(log, "warning:"))
	assert.Contains(t, log, "repeated field `year' in entry `k'")

	_, log, err = run(t, t.TempDir(), in, "--warn-macros")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(log, "warning:"))
	assert.Contains(t, log, "unknown macro `nonexistent'")

	_, log, err = run(t, t.TempDir(), in, "--warn-macros", "-q")
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestConfigAndEnv(t *testing.T) {
	dir := t.TempDir()
	writeBib(t, dir, ".bibtidy.yaml", "macros:\n  nat: Nature\nsort: none\n")
	in := "@article{a, year=1999, journal=nat}\n@article{b, year=2020}\n"

	out, _, err := run(t, dir, in)
	require.NoError(t, err)
	assert.Equal(t, `@ARTICLE{a,
      journal = nat,
         year = 1999,
}

@ARTICLE{b,
         year = 2020,
}

`, out)

	// the environment wins over the file, flags over both
	t.Setenv("BIBTIDY_SORT", "date")
	out, _, err = run(t, dir, in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@ARTICLE{b,"), out)

	out, _, err = run(t, dir, in, "--sort", "none")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@ARTICLE{a,"), out)
}

func TestOutputFile(t *testing.T) {
	dir := t.TempDir()
	writeBib(t, dir, "in.bib", messy)

	_, _, err := run(t, dir, "", "in.bib", "-o", "out.bib")
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(dir, "out.bib"))
	require.NoError(t, err)
	assert.Equal(t, formatted, string(got))

	_, _, err = run(t, dir, "", "in.bib", "in.bib", "-", "-o", "out.bib")
	assert.ErrorContains(t, err, "--output needs exactly one input")
}

func TestDups(t *testing.T) {
	dir := t.TempDir()
	writeBib(t, dir, "a.bib", "@article{shared, title={A}}\n@article{only, title={X}}\n")
	writeBib(t, dir, "b.bib", "@book{shared, title={B}}\n")

	out, _, err := run(t, dir, "", "dups", "a.bib", "b.bib")
	require.Error(t, err)
	assert.Contains(t, out, "1 duplicate keys found in 3 entries")
	assert.Contains(t, out, "[shared] has 2 occurrences")
	assert.Contains(t, out, "a.bib:1\n@ARTICLE{shared,")
	assert.Contains(t, out, "b.bib:1\n@BOOK{shared,")
	assert.NotContains(t, out, "[only]")
}
