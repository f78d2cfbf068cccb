// Package media stores uploaded article images and hands back their public
// URLs.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"blogcms/internal/config"
	"blogcms/internal/metrics"

	"github.com/google/uuid"
)

var (
	// ErrStorage wraps any failure of the backing store. It is never a
	// problem with the upload itself.
	ErrStorage          = errors.New("storage error")
	ErrUnsupportedMedia = errors.New("only png, jpeg, gif and webp images are accepted")
	ErrEmptyFile        = errors.New("file is empty")
	ErrTooLarge         = errors.New("file is too large")
)

// Store persists objects under a key and knows how they are reached
// publicly.
type Store interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) error
	URL(key string) string
	Driver() string
}

// Upload describes a stored object.
type Upload struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

type Uploader struct {
	store    Store
	maxBytes int64
	logger   *slog.Logger
	now      func() time.Time
}

func NewUploader(store Store, maxBytes int64, logger *slog.Logger) *Uploader {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, maxBytes: maxBytes, logger: logger, now: time.Now}
}

func (u *Uploader) MaxBytes() int64 { return u.maxBytes }

// Upload validates an image and stores it under a fresh name of the form
// <unix-nanos>-<8 hex>.<ext>. The declared content type must be an image
// and must agree with the sniffed bytes.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, r io.Reader) (*Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		metrics.RecordUpload("rejected", 0)
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		metrics.RecordUpload("rejected", 0)
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > u.maxBytes {
		metrics.RecordUpload("rejected", 0)
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, u.maxBytes)
	}

	declared := normalizeContentType(contentType)
	sniffed := normalizeContentType(http.DetectContentType(data))
	ext, ok := imageExtensions[sniffed]
	if !ok || (declared != "" && declared != "application/octet-stream" && declared != sniffed) {
		metrics.RecordUpload("rejected", 0)
		u.logger.Info("upload rejected", "filename", filename, "declared", declared, "detected", sniffed)
		return nil, ErrUnsupportedMedia
	}

	key := u.objectName(ext)
	size := int64(len(data))
	if err := u.store.Put(ctx, key, bytes.NewReader(data), size, sniffed); err != nil {
		metrics.RecordUpload("storage_error", 0)
		u.logger.Error("upload storage failed", "driver", u.store.Driver(), "key", key, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.RecordUpload("ok", size)
	u.logger.Info("upload stored", "driver", u.store.Driver(), "key", key, "size", size)
	return &Upload{Key: key, URL: u.store.URL(key), ContentType: sniffed, Size: size}, nil
}

func (u *Uploader) objectName(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s.%s", u.now().UnixNano(), suffix, ext)
}

func normalizeContentType(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// NewStore builds the store selected by cfg.Driver.
func NewStore(ctx context.Context, cfg config.MediaConfig) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			PublicURL: cfg.PublicURL,
		})
	case "fs", "":
		return NewFSStore(cfg.Dir, cfg.PublicURL)
	default:
		return nil, fmt.Errorf("unsupported media driver %q", cfg.Driver)
	}
}
