package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_MissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.json"))

	v, ok, err := s.Get("isDarkMode")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestFileStore_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calgrid", "prefs.json")
	s := NewFileStore(path)

	require.NoError(t, s.Set("isDarkMode", "true"))
	require.NoError(t, s.Set("other", "x"))

	v, ok, err := s.Get("isDarkMode")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	// A second store over the same file sees the persisted values.
	reopened := NewFileStore(path)
	v, ok, err = reopened.Get("other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStore(path).Get("isDarkMode")
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v"))
	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestStore_Overwrite(t *testing.T) {
	stores := map[string]Store{
		"file":   NewFileStore(filepath.Join(t.TempDir(), "prefs.json")),
		"memory": NewMemoryStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set("isDarkMode", "true"))
			require.NoError(t, s.Set("isDarkMode", "false"))

			v, ok, err := s.Get("isDarkMode")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "false", v)
		})
	}
}
