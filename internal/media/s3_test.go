package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"blogcms/internal/config"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mediaConfig(driver, dir string) config.MediaConfig {
	return config.MediaConfig{Driver: driver, Dir: dir}
}

// fakeS3 answers PutObject requests in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	status  int
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	if f.status != 0 {
		return &http.Response{
			StatusCode: f.status,
			Body:       io.NopCloser(strings.NewReader("<Error><Code>InternalError</Code><Message>boom</Message></Error>")),
			Header:     http.Header{"Content-Type": {"application/xml"}},
			Request:    req,
		}, nil
	}
	if req.Method != http.MethodPut {
		return &http.Response{StatusCode: http.StatusNotImplemented, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}, Request: req}, nil
	}
	if req.Body != nil {
		_, _ = io.Copy(io.Discard, req.Body)
	}
	f.mu.Lock()
	f.objects[strings.TrimPrefix(req.URL.Path, "/")] = req.Header.Get("Content-Type")
	f.mu.Unlock()
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{"ETag": {"\"etag\""}}, Request: req}, nil
}

func newFakeS3Store(t *testing.T, rt http.RoundTripper) *S3Store {
	t.Helper()
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.RetryMaxAttempts = 1
	})
	return newS3Store(client, "thumbnails", "https://cdn.example")
}

func TestS3StorePut(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	store := newFakeS3Store(t, fake)

	err := store.Put(context.Background(), "1-abcdef12.png", bytes.NewReader(pngBytes), int64(len(pngBytes)), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "image/png", fake.objects["thumbnails/1-abcdef12.png"])
	assert.Equal(t, "https://cdn.example/1-abcdef12.png", store.URL("1-abcdef12.png"))
	assert.Equal(t, "s3", store.Driver())
}

func TestS3FailureSurfacesAsStorageError(t *testing.T) {
	store := newFakeS3Store(t, &fakeS3{objects: map[string]string{}, status: http.StatusInternalServerError})
	uploader := NewUploader(store, 1<<20, nil)

	_, err := uploader.Upload(context.Background(), "a.png", "image/png", bytes.NewReader(pngBytes))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{name: "explicit", cfg: S3Config{Bucket: "b", PublicURL: "https://cdn.example"}, want: "https://cdn.example"},
		{name: "minio path style", cfg: S3Config{Bucket: "b", Endpoint: "http://minio:9000", PathStyle: true}, want: "http://minio:9000/b"},
		{name: "virtual host endpoint", cfg: S3Config{Bucket: "b", Endpoint: "https://s3.example"}, want: "https://b.s3.example"},
		{name: "aws default", cfg: S3Config{Bucket: "b"}, want: "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.cfg, "eu-west-1"))
		})
	}
}
