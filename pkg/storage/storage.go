package storage

import (
	"context"
	"io"
)

// Object describes a stored upload.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// ObjectStore persists uploaded objects and returns a public URL for them.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (Object, error)
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
