package model

import (
	"context"
	"time"
)

// AuditEntry is an immutable, append-only record of one sensitive action.
// Entries are written synchronously alongside the action they describe and are
// never updated or deleted.
type AuditEntry struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	UserEmail    string    `json:"user_email,omitempty"`
	Action       string    `json:"action"`
	EntityType   string    `json:"entity_type,omitempty"`
	EntityID     string    `json:"entity_id,omitempty"`
	TimestampUTC time.Time `json:"timestamp_utc"`
	Details      string    `json:"details,omitempty"`
}

// Actor identifies the authenticated user an action is performed as.
type Actor struct {
	ID    string
	Email string
}

type actorKey struct{}

// WithActor returns a context carrying the acting user. The HTTP layer sets it
// once per request; audit writers pick it up when an entry does not name a
// user explicitly.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext reports the acting user, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
