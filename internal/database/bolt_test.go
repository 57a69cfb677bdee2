package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*BoltKVStore, string) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewBoltKVStore(path, "test")
	require.NoError(t, err)

	return s, path
}

func TestBoltKVStore(t *testing.T) {
	s, _ := newTestStore(t)
	defer s.Close()

	data, err := s.ReadKey([]byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, s.UpdateKey([]byte("a/1"), []byte("one")))
	require.NoError(t, s.UpdateKey([]byte("a/2"), []byte("two")))
	require.NoError(t, s.UpdateKey([]byte("b/1"), []byte("other")))

	data, err = s.ReadKey([]byte("a/1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	entries, err := s.ReadPrefix([]byte("a/"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"a/1": []byte("one"),
		"a/2": []byte("two"),
	}, entries)

	require.NoError(t, s.DeleteKey([]byte("a/1")))
	require.NoError(t, s.DeleteKey([]byte("missing")))

	entries, err = s.ReadPrefix([]byte("a/"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a/2": []byte("two")}, entries)

	entries, err = s.ReadPrefix([]byte("c/"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBoltKVStorePersists(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.UpdateKey([]byte("k"), []byte("v")))
	require.NoError(t, s.Close())

	s, err := NewBoltKVStore(path, "test")
	require.NoError(t, err)
	defer s.Close()

	data, err := s.ReadKey([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)
}

func TestNewBoltKVStoreEmptyBucket(t *testing.T) {
	_, err := NewBoltKVStore(filepath.Join(t.TempDir(), "test.db"), "")
	assert.Error(t, err)
}
