// Package storage is the filesystem abstraction behind product image
// uploads. Two drivers exist:
//   - "local": a directory served under /storage (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2)
//
//	storage.Connect(ctx)
//	storage.Default().Put(ctx, "products/7/abc.png", r, "image/png")
//	url := storage.Default().URL("products/7/abc.png")
package storage

import (
	"context"
	"io"
)

// Disk is the driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(ctx context.Context, path string) bool

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. A missing file is not an error.
	Delete(ctx context.Context, path string) error
}
