package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_Relative(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("downloads")
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink (macOS), compare resolved paths
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "downloads"))
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	assert.Equal(t, want, gotResolved)

	again, err := EnsureSubdDir("downloads")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestEnsureSubdDir_Absolute(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	got, err := EnsureSubdDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	fi, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestEnsureSubdDir_FileInTheWay(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("downloads", []byte("x"), 0o600))

	_, err := EnsureSubdDir("downloads")
	require.Error(t, err)
}

func TestExtHelpers(t *testing.T) {
	assert.True(t, HasExt("notes.txt", ".txt"))
	assert.True(t, HasExt("NOTES.TXT", ".txt"))
	assert.True(t, HasExt("a/b/photo.jpeg", ".png", ".jpeg"))
	assert.False(t, HasExt("notes.txt.bak", ".txt"))
	assert.False(t, HasExt("notes", ".txt"))

	assert.Equal(t, "notes.balance", ReplaceExt("notes.txt", ".balance"))
	assert.Equal(t, "notes.txt", ReplaceExt("/tmp/x/notes.causality", ".txt"))
	assert.Equal(t, "archive.tar.balance", ReplaceExt("archive.tar.gz", ".balance"))
	assert.Equal(t, "report", StripExt("in/report.balance"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFileAtomic(dir, "notes.balance", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.balance"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not remain")
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	_, err := WriteFileAtomic(dir, "x.txt", []byte("x"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "x.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
