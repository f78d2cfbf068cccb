package media

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStorePut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewFSStore(dir, "")
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "1-abcdef12.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png"))

	data, err := os.ReadFile(filepath.Join(dir, "1-abcdef12.png"))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "/uploads/1-abcdef12.png", store.URL("1-abcdef12.png"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	store, err := NewFSStore(t.TempDir(), "https://static.example/")
	require.NoError(t, err)

	for _, key := range []string{"../evil.png", "a/b.png", ".hidden", ""} {
		err := store.Put(context.Background(), key, bytes.NewReader(pngBytes), 1, "image/png")
		assert.Error(t, err, key)
	}
	assert.Equal(t, "https://static.example/x.png", store.URL("x.png"))
}

func TestNewStoreSelectsDriver(t *testing.T) {
	store, err := NewStore(context.Background(), mediaConfig("fs", t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "fs", store.Driver())

	_, err = NewStore(context.Background(), mediaConfig("ftp", ""))
	assert.Error(t, err)
}
