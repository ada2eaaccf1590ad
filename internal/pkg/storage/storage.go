package storage

import (
	"context"
	"io"
	"time"
)

// FileStorage abstracts where uploaded files live. The local
// implementation backs development; an object store can slot in behind
// the same interface without touching the services.
type FileStorage interface {
	// Upload stores the file under the given key and returns the key
	// actually used.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	Download(ctx context.Context, path string) (io.ReadCloser, error)

	Delete(ctx context.Context, path string) error

	// GetURL returns a public URL for the file. Expiry applies only to
	// backends that sign URLs.
	GetURL(ctx context.Context, path string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, path string) (bool, error)
}
