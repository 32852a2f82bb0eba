package storage

import (
	"context"
	"io"
	"strings"
)

// Router forwards every operation to the backend named by the provider
// function: "Minio" (case-insensitive) selects the object store, anything
// else the local filesystem. The provider is consulted on each call and its
// result is never cached, so flipping the configuration takes effect for the
// very next operation without a restart.
type Router struct {
	provider func() string
	local    Storage
	object   Storage
}

// NewRouter wires the two process-wide backend singletons behind one Storage.
func NewRouter(provider func() string, local, object Storage) *Router {
	return &Router{provider: provider, local: local, object: object}
}

func (r *Router) active() Storage {
	if strings.EqualFold(strings.TrimSpace(r.provider()), "Minio") {
		return r.object
	}
	return r.local
}

func (r *Router) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return r.active().Save(ctx, key, body, size, contentType)
}

func (r *Router) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	return r.active().OpenRead(ctx, key)
}

func (r *Router) Delete(ctx context.Context, key string) error {
	return r.active().Delete(ctx, key)
}
