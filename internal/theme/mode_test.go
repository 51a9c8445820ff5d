package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/calgrid/internal/prefs"
)

type failingStore struct{ err error }

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(string, string) error         { return f.err }

func TestLoadMode_Default(t *testing.T) {
	m, err := LoadMode(prefs.NewMemoryStore())
	require.NoError(t, err)
	assert.Equal(t, Light, m)
}

func TestModeFromFlag(t *testing.T) {
	assert.Equal(t, Dark, ModeFromFlag("true"))
	assert.Equal(t, Light, ModeFromFlag("false"))
	assert.Equal(t, Light, ModeFromFlag(""))
	assert.Equal(t, Light, ModeFromFlag("yes please"))
	for _, v := range []string{"1", "t", "TRUE", "True", " true"} {
		assert.Equal(t, Light, ModeFromFlag(v), v)
	}
}

func TestToggleMode_RoundTrip(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, SaveMode(store, Light))

	m, err := ToggleMode(store)
	require.NoError(t, err)
	assert.Equal(t, Dark, m)

	v, ok, err := store.Get(DarkModeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", v)

	m, err = ToggleMode(store)
	require.NoError(t, err)
	assert.Equal(t, Light, m)

	v, _, _ = store.Get(DarkModeKey)
	assert.Equal(t, "false", v)

	th := Derive(DefaultSourceColor)
	assert.Equal(t, th.Light, th.Palette(m))
}

func TestToggleMode_StoreError(t *testing.T) {
	boom := errors.New("disk on fire")

	_, err := ToggleMode(failingStore{err: boom})
	assert.ErrorIs(t, err, boom)

	_, err = LoadMode(failingStore{err: boom})
	assert.ErrorIs(t, err, boom)
}
