// Package storage contains the blob storage abstraction for photo content:
// a capability interface with a local-filesystem and an S3-compatible
// (MinIO) implementation, a router that picks the active backend from
// configuration on every call, and an auditing decorator that records each
// storage access before delegating it.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by OpenRead when no blob exists under the key.
// Both backends normalize their own absence signal to this error.
var ErrNotFound = errors.New("storage: object not found")

// Storage is the capability set every blob backend provides.
//
// Keys are opaque slash-separated identifiers ("photos/<id>.jpg").
// Save streams content; size must be the exact byte count when known.
// A re-save under an existing key fully overwrites the previous content.
// Delete is idempotent: removing an absent key is not an error.
type Storage interface {
	// Save persists the reader's content under key.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// OpenRead returns the blob content as a stream, or ErrNotFound.
	OpenRead(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob under key, tolerating its absence.
	Delete(ctx context.Context, key string) error
}
