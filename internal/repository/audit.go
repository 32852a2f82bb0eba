package repository

import (
	"context"

	"galleryapi/internal/model"
)

// AuditRepository appends to and reads the immutable action log. Entries are
// never updated or deleted; the application only writes and lists them.
type AuditRepository interface {
	// Append stores one entry. Implementations fill UserID/UserEmail from the
	// context actor when the entry does not set them.
	Append(ctx context.Context, e *model.AuditEntry) error

	// Recent returns the newest entries, for the admin log view.
	Recent(ctx context.Context, limit int) ([]model.AuditEntry, error)
}
