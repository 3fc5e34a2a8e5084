package storage

import (
	"context"
	"io"
)

// ObjectStore persists uploaded media and resolves public URLs for it.
type ObjectStore interface {
	Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error
	PublicURL(path string) string
}
