package store_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shashiranjanraj/brewandco/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text string `json:"text"`
}

func exercise(t *testing.T, s store.Store) {
	t.Helper()

	var n note
	found, err := s.Get("note", &n)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("note", note{Text: "oat milk"}))
	found, err = s.Get("note", &n)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "oat milk", n.Text)

	require.NoError(t, s.Delete("note"))
	found, err = s.Get("note", &n)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Set("note", n), store.ErrClosed)
}

func TestMemory(t *testing.T) {
	exercise(t, store.NewMemory())
}

func TestFile(t *testing.T) {
	s, err := store.OpenFile(filepath.Join(t.TempDir(), "state.json"), "")
	require.NoError(t, err)
	exercise(t, s)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := store.OpenFile(path, "")
	require.NoError(t, err)
	require.NoError(t, s.Set("note", note{Text: "decaf"}))
	require.NoError(t, s.Close())

	reopened, err := store.OpenFile(path, "")
	require.NoError(t, err)
	var n note
	found, err := reopened.Get("note", &n)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "decaf", n.Text)
}

func TestSealedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := store.OpenFile(path, "s3cret")
	require.NoError(t, err)
	require.NoError(t, s.Set("note", note{Text: "extra shot"}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "extra shot"))

	_, err = store.OpenFile(path, "wrong")
	assert.Error(t, err)

	reopened, err := store.OpenFile(path, "s3cret")
	require.NoError(t, err)
	var n note
	_, err = reopened.Get("note", &n)
	require.NoError(t, err)
	assert.Equal(t, "extra shot", n.Text)
}
