package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const defaultFSPublicURL = "/uploads"

// FSStore writes objects into a local directory that the HTTP server exposes
// under its public URL.
type FSStore struct {
	dir       string
	publicURL string
}

func NewFSStore(dir, publicURL string) (*FSStore, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if publicURL == "" {
		publicURL = defaultFSPublicURL
	}
	return &FSStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *FSStore) Driver() string { return "fs" }

func (s *FSStore) Dir() string { return s.dir }

// Put writes to a temporary file first so readers never see a partial image.
func (s *FSStore) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("invalid object key %q", key)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, key))
}

func (s *FSStore) URL(key string) string {
	return s.publicURL + "/" + key
}
