// Package storage holds product image files. The catalog import checks that
// referenced images exist on the default disk, and image URLs in API
// responses are built from the disk that stores them.
//
// Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disks, _ := storage.NewManager(ctx)
//	disks.Default().Put(ctx, "products/red-shirt.webp", data)
//	url := disks.Default().URL("products/red-shirt.webp")
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for a missing file.
var ErrNotFound = errors.New("storage: file not found")

// Disk is the driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(ctx context.Context, path string, content []byte) error

	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) bool

	// URL returns the public URL for path.
	URL(path string) string

	// Delete removes a file. Returns nil if the file did not exist.
	Delete(ctx context.Context, path string) error

	// Files lists files directly inside directory, as disk-relative paths.
	Files(ctx context.Context, directory string) ([]string, error)
}
