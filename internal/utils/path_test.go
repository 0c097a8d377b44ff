package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	t.Run("empty path fails", func(t *testing.T) {
		_, err := ResolvePath("")
		assert.Error(t, err)
	})

	t.Run("tilde expands to home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		got, err := ResolvePath("~/notes")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "notes"), got)
	})

	t.Run("relative path becomes absolute", func(t *testing.T) {
		got, err := ResolvePath("some/dir")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})
}

func TestEnsureParent(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "file.db")

	require.NoError(t, EnsureParent(target))
	assert.True(t, DirExists(filepath.Join(dir, "a", "b")))
	assert.False(t, FileExists(target))
}
