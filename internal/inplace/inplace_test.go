package inplace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempName(t *testing.T) {
	assert.Equal(t, filepath.Join("refs", ".main.bib.tidy"), TempName(filepath.Join("refs", "main.bib")))
	assert.Equal(t, ".hidden.bib.tidy", TempName(".hidden.bib"))
}

func TestReplaceUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bib")
	require.NoError(t, os.WriteFile(path, []byte("same\n"), 0o644))

	changed, err := Replace(path, []byte("same\n"), 0o644, "")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoFileExists(t, path+DefaultBackupSuffix)
	assert.NoFileExists(t, TempName(path))
}

func TestReplaceChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bib")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o600))
	require.NoError(t, os.Chmod(path, 0o640))

	changed, err := Replace(path, []byte("new\n"), 0, ".orig")
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(got))

	bak, err := os.ReadFile(path + ".orig")
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(bak))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), fi.Mode().Perm())
	assert.NoFileExists(t, TempName(path))
}

func TestReplaceOverwritesStaleBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.bib")
	require.NoError(t, os.WriteFile(path, []byte("v2\n"), 0o644))
	require.NoError(t, os.WriteFile(path+DefaultBackupSuffix, []byte("v1\n"), 0o644))

	_, err := Replace(path, []byte("v3\n"), 0o644, "")
	require.NoError(t, err)

	bak, err := os.ReadFile(path + DefaultBackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "v2\n", string(bak))
}

func TestReplaceMissingFile(t *testing.T) {
	_, err := Replace(filepath.Join(t.TempDir(), "none.bib"), []byte("x"), 0o644, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
