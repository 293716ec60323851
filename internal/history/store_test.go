package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadMissingFileYieldsEmptyStore(t *testing.T) {
	s := NewStore()
	s.Add("stale")

	err := s.Load(filepath.Join(t.TempDir(), "no-such-history"))

	require.NoError(t, err)
	assert.Zero(t, s.Len())
}

func TestStore_LoadReplacesEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0600))

	s := NewStore()
	s.Add("stale")
	require.NoError(t, s.Load(path))

	assert.Equal(t, []string{"one", "two"}, s.Entries())
}

func TestStore_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	s := NewStore()
	s.Add("echo hi")
	s.Add("ls -la")
	require.NoError(t, s.Save(path))

	loaded := NewStore()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, []string{"echo hi", "ls -la"}, loaded.Entries())
}

func TestStore_SaveOverwritesPriorContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("old entry\nanother\n"), 0600))

	s := NewStore()
	s.Add("only entry")
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "only entry\n", string(data))
}

func TestStore_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "history")

	s := NewStore()
	s.Add("x")
	require.NoError(t, s.Save(path))

	loaded := NewStore()
	require.NoError(t, loaded.Load(path))
	assert.Equal(t, 1, loaded.Len())
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	s := NewStore()
	s.Add("a")
	require.NoError(t, s.Save(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "history", entries[0].Name())
}

func TestStore_SaveEmptyNormalizesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("junk\n"), 0600))

	s := NewStore()
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, string(data))
}

func TestStore_AddDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	require.NoError(t, os.WriteFile(path, []byte("on disk\n"), 0600))

	s := NewStore()
	require.NoError(t, s.Load(path))
	s.Add("memory only")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "on disk\n", string(data))
}

func TestStore_EntriesReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Add("a")

	entries := s.Entries()
	entries[0] = "mutated"

	assert.Equal(t, []string{"a"}, s.Entries())
}
