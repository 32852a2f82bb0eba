package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"galleryapi/internal/model"
	"galleryapi/internal/repository"
)

// AuditPostgres is a PostgreSQL implementation of repository.AuditRepository.
// Rows in action_logs are append-only; there is no update or delete path.
type AuditPostgres struct {
	db *sql.DB
}

// NewAuditPostgres creates a new AuditPostgres repository.
func NewAuditPostgres(db *sql.DB) *AuditPostgres {
	return &AuditPostgres{db: db}
}

var _ repository.AuditRepository = (*AuditPostgres)(nil)

// Append inserts one entry. When the entry names no user, the actor carried
// in the request context is used.
func (r *AuditPostgres) Append(ctx context.Context, e *model.AuditEntry) error {
	userID, userEmail := e.UserID, e.UserEmail
	if userID == "" {
		if actor, ok := model.ActorFromContext(ctx); ok {
			userID = actor.ID
			if userEmail == "" {
				userEmail = actor.Email
			}
		}
	}

	const q = `
		INSERT INTO action_logs (user_id, user_email, action, entity_type, entity_id, timestamp_utc, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, q,
		nullable(userID),
		nullable(userEmail),
		e.Action,
		nullable(e.EntityType),
		nullable(e.EntityID),
		e.TimestampUTC,
		nullable(e.Details),
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *AuditPostgres) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	const q = `
		SELECT id, user_id, user_email, action, entity_type, entity_id, timestamp_utc, details
		FROM action_logs
		ORDER BY timestamp_utc DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AuditEntry, 0)
	for rows.Next() {
		var (
			e                                       model.AuditEntry
			userID, userEmail, eType, eID, details sql.NullString
		)
		if err := rows.Scan(&e.ID, &userID, &userEmail, &e.Action, &eType, &eID, &e.TimestampUTC, &details); err != nil {
			return nil, err
		}
		e.UserID = userID.String
		e.UserEmail = userEmail.String
		e.EntityType = eType.String
		e.EntityID = eID.String
		e.Details = details.String
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
