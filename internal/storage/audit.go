package storage

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"galleryapi/internal/model"
)

// Audit actions emitted by the storage proxy.
const (
	ActionSave     = "Storage.Save"
	ActionOpenRead = "Storage.OpenRead"
	ActionDelete   = "Storage.Delete"

	entityTypeStorageObject = "StorageObject"
)

// AuditSink receives audit entries. The postgres audit repository satisfies
// it; tests use in-memory fakes.
type AuditSink interface {
	Append(ctx context.Context, e *model.AuditEntry) error
}

// AuditedStorage wraps a Storage and records one audit entry per operation.
//
// The entry is written before the wrapped call, so it captures intent: a
// failed operation still leaves its entry behind, and there is no separate
// failure record. Audit writes are best-effort observability, not a
// correctness gate — a failing sink is logged and never changes the outcome
// of the storage operation it accompanies.
type AuditedStorage struct {
	inner Storage
	sink  AuditSink
}

// WithAudit composes the audited storage once at startup; inject the result
// everywhere storage access is needed.
func WithAudit(inner Storage, sink AuditSink) *AuditedStorage {
	return &AuditedStorage{inner: inner, sink: sink}
}

func (a *AuditedStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	a.record(ctx, ActionSave, key, "contentType="+contentType)
	return a.inner.Save(ctx, key, r, size, contentType)
}

func (a *AuditedStorage) OpenRead(ctx context.Context, key string) (io.ReadCloser, error) {
	a.record(ctx, ActionOpenRead, key, "")
	return a.inner.OpenRead(ctx, key)
}

func (a *AuditedStorage) Delete(ctx context.Context, key string) error {
	a.record(ctx, ActionDelete, key, "")
	return a.inner.Delete(ctx, key)
}

func (a *AuditedStorage) record(ctx context.Context, action, key, details string) {
	e := &model.AuditEntry{
		Action:       action,
		EntityType:   entityTypeStorageObject,
		EntityID:     key,
		TimestampUTC: time.Now().UTC(),
		Details:      details,
	}
	if err := a.sink.Append(ctx, e); err != nil {
		b, _ := json.Marshal(map[string]any{
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
			"level":  "error",
			"msg":    "audit_write_failed",
			"action": action,
			"key":    key,
			"error":  err.Error(),
		})
		log.SetFlags(0)
		log.Println(string(b))
	}
}
