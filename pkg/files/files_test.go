package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCd(t *testing.T) {
	start, err := os.Getwd()
	require.NoError(t, err)

	dir := t.TempDir()
	restore, err := Cd(dir)
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	wdResolved, err := filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	assert.Equal(t, resolved, wdResolved)

	require.NoError(t, restore())
	wd, err = os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, start, wd)

	_, err = Cd(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestMkdirAndTouch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, Mkdir(dir))
	assert.DirExists(t, dir)

	file := filepath.Join(dir, "spec_a.go")
	require.NoError(t, Touch(file))
	assert.FileExists(t, file)

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(file, old, old))
	require.NoError(t, Touch(file))
	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(old))
}

func TestCp(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("alpha"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("beta"), 0600))

	t.Run("file", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "copy.txt")
		require.NoError(t, Cp(filepath.Join(src, "a.txt"), dst))
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "alpha", string(data))
	})

	t.Run("directory", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "tree")
		require.NoError(t, Cp(src, dst))
		data, err := os.ReadFile(filepath.Join(dst, "sub", "b.txt"))
		require.NoError(t, err)
		assert.Equal(t, "beta", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		assert.Error(t, Cp(filepath.Join(src, "nope"), filepath.Join(t.TempDir(), "x")))
	})
}

func TestMv(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	dst := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(src, []byte("data"), 0644))

	require.NoError(t, Mv(src, dst))
	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestSh(t *testing.T) {
	out, err := Sh(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	out, err = Sh(context.Background(), "echo oops >&2; exit 3")
	require.Error(t, err)
	var shellErr *ShellError
	require.True(t, errors.As(err, &shellErr))
	assert.Equal(t, 3, shellErr.ExitCode)
	assert.Equal(t, "oops\n", out)
	assert.Equal(t, "oops\n", shellErr.Output)
}
