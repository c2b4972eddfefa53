package apiclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Run("missing file is empty", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "nested", "tokens.json"))

		tokens, err := s.Load()

		require.NoError(t, err)
		require.Equal(t, Tokens{}, tokens)
	})

	t.Run("save load clear", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shopctl", "tokens.json")
		s := NewFileStore(path)

		err := s.Save(Tokens{AccessToken: "a1", RefreshToken: "r1"})
		require.NoError(t, err)

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "token file should be readable by owner only")

		tokens, err := NewFileStore(path).Load()
		require.NoError(t, err)
		require.Equal(t, Tokens{AccessToken: "a1", RefreshToken: "r1"}, tokens, "tokens should survive new store instance")

		err = s.Clear()
		require.NoError(t, err)
		err = s.Clear()
		require.NoError(t, err, "clearing twice should be ok")

		tokens, err = s.Load()
		require.NoError(t, err)
		require.Equal(t, Tokens{}, tokens)
	})

	t.Run("broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tokens.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := NewFileStore(path).Load()

		require.Error(t, err)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(Tokens{AccessToken: "a1"})

	tokens, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "a1", tokens.AccessToken)

	require.NoError(t, s.Clear())
	tokens, err = s.Load()
	require.NoError(t, err)
	require.Equal(t, Tokens{}, tokens)
}
