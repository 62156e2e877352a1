package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureDir_RelativeResolvesAgainstCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureDir("reports")
	require.NoError(t, err)

	// TempDir may sit behind a symlink (macOS /var -> /private/var).
	want, err := filepath.EvalSymlinks(filepath.Join(tmp, "reports"))
	require.NoError(t, err)
	gotReal, err := filepath.EvalSymlinks(got)
	require.NoError(t, err)
	require.Equal(t, want, gotReal)

	fi, err := os.Stat(got)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureDir_NestedAndIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	first, err := EnsureDir(dir)
	require.NoError(t, err)
	second, err := EnsureDir(dir)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.DirExists(t, dir)
}

func TestEnsureDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "reports")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))

	_, err := EnsureDir(p)
	require.Error(t, err, "should fail when a file exists with the same name")
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "course-1.csv")

	require.NoError(t, WriteFileAtomic(p, []byte("a,b\n"), 0o600))
	require.NoError(t, WriteFileAtomic(p, []byte("c,d\n"), 0o600))

	got, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, "c,d\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	if runtime.GOOS != "windows" {
		fi, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	p := filepath.Join(t.TempDir(), "missing", "x.csv")
	require.Error(t, WriteFileAtomic(p, []byte("x"), 0o600))
}
