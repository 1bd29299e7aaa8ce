package fs

import (
	"context"

	"github.com/m-manu/rfind/entity"
)

// FileSystem abstracts the storage layer so that callers can list local
// directories, SFTP mounts, S3 buckets or remote agents interchangeably.
type FileSystem interface {
	// ListDirectory returns the immediate children of the directory at location,
	// in the order the underlying storage returns them. Every entry carries its
	// kind and metadata. Errors are *ListError values.
	ListDirectory(ctx context.Context, location string) ([]entity.Entry, error)

	// Close releases any resources held by the filesystem (e.g. SSH connections).
	Close() error
}
