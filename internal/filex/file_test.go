package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWritePrivate_CreatesParentAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "token")

	require.NoError(t, WritePrivate(path, []byte("abc")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

		di, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o700), di.Mode().Perm()&0o700)
	}
}

func TestWritePrivate_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")

	require.NoError(t, WritePrivate(path, []byte("first")))
	require.NoError(t, WritePrivate(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWritePrivate_ParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := WritePrivate(filepath.Join(blocker, "token"), []byte("abc"))
	require.Error(t, err)
}

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	removed, err := RemoveIfExists(path)
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = RemoveIfExists(path)
	require.NoError(t, err)
	require.False(t, removed)
}
