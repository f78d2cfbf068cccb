package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRfake-image-data")

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryStore) URL(key string) string { return "https://cdn.test/" + key }
func (m *memoryStore) Driver() string        { return "memory" }

func TestUploadNamesAndStores(t *testing.T) {
	store := newMemoryStore()
	uploader := NewUploader(store, 1<<20, nil)

	upload, err := uploader.Upload(context.Background(), "photo.PNG", "image/png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9a-f]{8}\.png$`), upload.Key)
	assert.Equal(t, "https://cdn.test/"+upload.Key, upload.URL)
	assert.Equal(t, "image/png", upload.ContentType)
	assert.Equal(t, int64(len(pngBytes)), upload.Size)
	assert.Equal(t, pngBytes, store.objects[upload.Key])
	assert.Equal(t, "image/png", store.types[upload.Key])
}

func TestUploadNamesAreUnique(t *testing.T) {
	uploader := NewUploader(newMemoryStore(), 1<<20, nil)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		upload, err := uploader.Upload(context.Background(), "a.png", "image/png", bytes.NewReader(pngBytes))
		require.NoError(t, err)
		assert.False(t, seen[upload.Key], "duplicate key %s", upload.Key)
		seen[upload.Key] = true
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        error
	}{
		{name: "text file", contentType: "text/plain", body: []byte("hello world"), want: ErrUnsupportedMedia},
		{name: "lying content type", contentType: "image/png", body: []byte("<html><script>x</script></html>"), want: ErrUnsupportedMedia},
		{name: "mismatched image type", contentType: "image/jpeg", body: pngBytes, want: ErrUnsupportedMedia},
		{name: "svg", contentType: "image/svg+xml", body: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), want: ErrUnsupportedMedia},
		{name: "empty", contentType: "image/png", body: nil, want: ErrEmptyFile},
		{name: "too large", contentType: "image/png", body: append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 512)...), want: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			uploader := NewUploader(store, 256, nil)

			_, err := uploader.Upload(context.Background(), "f", tt.contentType, bytes.NewReader(tt.body))
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, ErrStorage)
			assert.Empty(t, store.objects)
		})
	}
}

func TestUploadAcceptsOctetStreamWhenBytesAreAnImage(t *testing.T) {
	uploader := NewUploader(newMemoryStore(), 1<<20, nil)
	upload, err := uploader.Upload(context.Background(), "a", "application/octet-stream", strings.NewReader("GIF89a-rest-of-gif"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(upload.Key, ".gif"))
}

func TestUploadStorageFailureIsDistinct(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("bucket unreachable")
	uploader := NewUploader(store, 1<<20, nil)

	_, err := uploader.Upload(context.Background(), "a.png", "image/png", bytes.NewReader(pngBytes))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotErrorIs(t, err, ErrUnsupportedMedia)
}
