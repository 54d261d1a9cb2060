package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/Amen1235f/ecommerce-cms/pkg/config"
	"github.com/google/uuid"
)

// Storage errors
var (
	ErrInvalidKey       = errors.New("invalid object key")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrImageTooLarge    = errors.New("image too large")
)

// ImageStore persists encoded images under object keys
type ImageStore interface {
	// Put writes data under key and returns its public URL
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key
	URL(key string) string
}

// NewKey returns a fresh key of the form products/yyyy/mm/dd/<uuid>.jpg
func NewKey(now time.Time) string {
	return fmt.Sprintf("products/%s/%s.jpg", now.UTC().Format("2006/01/02"), uuid.New().String())
}

// cleanKey rejects keys that could escape the storage root
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned != key || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// New builds the image store selected by cfg.Storage.Driver
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3Store(ctx, cfg.S3, cfg.Storage.PublicBaseURL)
	case config.StorageDriverLocal, "":
		return NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
