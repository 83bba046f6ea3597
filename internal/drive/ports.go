package drive

import (
	"context"
	"io"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// ObjectStore is the subset of storage.ObjectStore the drive needs.
type ObjectStore interface {
	Save(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, error)
}

// Notifier records a change so clients showing the owner's drive refresh.
type Notifier interface {
	LogEvent(ctx context.Context, userID int64, eventType string, payload interface{}) error
}
