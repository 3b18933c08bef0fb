// Package storage is the file storage abstraction behind uploaded media.
//
// Two drivers are available:
//   - "local": a directory on the server (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Build the configured disk once at startup and inject it:
//
//	disk, err := storage.FromConfig(ctx)
//	err = disk.Put(ctx, "1700000000_oyster.png", file, "image/png")
//	rc, info, err := disk.Open(ctx, "1700000000_oyster.png")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ErrNotExist is returned by Open and Stat for missing objects.
var ErrNotExist = errors.New("storage: object does not exist")

// Info describes a stored object.
type Info struct {
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Disk is the driver interface.
type Disk interface {
	// Put writes r to name. The object is durable once Put returns nil.
	Put(ctx context.Context, name string, r io.Reader, contentType string) error

	// Open streams the object. The caller must close the reader.
	Open(ctx context.Context, name string) (io.ReadCloser, Info, error)

	// Stat returns object metadata.
	Stat(ctx context.Context, name string) (Info, error)

	// Delete removes name. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
}

// CleanName rejects empty names, absolute paths and any ".." segment, and
// returns the slash-separated relative form.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("storage: invalid name %q", name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", fmt.Errorf("storage: invalid name %q", name)
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", fmt.Errorf("storage: invalid name %q", name)
	}
	return cleaned, nil
}
