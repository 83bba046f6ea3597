package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"mdrive/internal/config"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrInvalidKey     = errors.New("invalid object key")
	ErrForeignURL     = errors.New("url does not belong to this object store")
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,64}$`)

// ObjectStore holds uploaded file contents. Objects are addressed by key and
// published under a URL the key can be recovered from.
type ObjectStore interface {
	Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, error)
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func keyFromURL(prefix, url string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	key := strings.TrimPrefix(url, prefix)
	if err := validateKey(key); err != nil {
		return "", err
	}
	return key, nil
}

// New builds the object store selected by cfg.Storage.Driver.
func New(cfg *config.Config) (ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "", "local":
		return NewLocalStorage(cfg.Storage.Path, cfg.Storage.PublicURL)
	case "s3":
		return NewS3Storage(S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
