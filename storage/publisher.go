package storage

import (
	"context"
	"io"
)

// PublishResult describes an object written to the bucket.
type PublishResult struct {
	Key      string
	Location string
	ETag     string
}

// ObjectPublisher writes public, read-only snapshots of tournament state.
type ObjectPublisher interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader) (*PublishResult, error)

	Delete(ctx context.Context, key string) error

	PublicURL(key string) string
}
