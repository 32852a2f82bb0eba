package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"galleryapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditPostgres_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditPostgres(db)
	now := time.Now().UTC()

	t.Run("explicit user", func(t *testing.T) {
		e := &model.AuditEntry{
			UserID:       "user-1",
			UserEmail:    "me@example.com",
			Action:       "UploadPhoto",
			EntityType:   "Photo",
			EntityID:     "photo-1",
			TimestampUTC: now,
			Details:      "sizeBytes=10; key=photos/photo-1.jpg",
		}

		mock.ExpectQuery("INSERT INTO action_logs").
			WithArgs(
				sql.NullString{String: "user-1", Valid: true},
				sql.NullString{String: "me@example.com", Valid: true},
				"UploadPhoto",
				sql.NullString{String: "Photo", Valid: true},
				sql.NullString{String: "photo-1", Valid: true},
				now,
				sql.NullString{String: e.Details, Valid: true},
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		assert.NoError(t, repo.Append(context.Background(), e))
		assert.Equal(t, int64(7), e.ID)
	})

	t.Run("actor filled from context", func(t *testing.T) {
		ctx := model.WithActor(context.Background(), model.Actor{ID: "user-2", Email: "a@b.c"})
		e := &model.AuditEntry{Action: "Storage.Save", EntityType: "StorageObject", EntityID: "photos/x.jpg", TimestampUTC: now}

		mock.ExpectQuery("INSERT INTO action_logs").
			WithArgs(
				sql.NullString{String: "user-2", Valid: true},
				sql.NullString{String: "a@b.c", Valid: true},
				"Storage.Save",
				sql.NullString{String: "StorageObject", Valid: true},
				sql.NullString{String: "photos/x.jpg", Valid: true},
				now,
				sql.NullString{},
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

		assert.NoError(t, repo.Append(ctx, e))
	})

	t.Run("anonymous", func(t *testing.T) {
		e := &model.AuditEntry{Action: "SearchPhotos", TimestampUTC: now}

		mock.ExpectQuery("INSERT INTO action_logs").
			WithArgs(
				sql.NullString{},
				sql.NullString{},
				"SearchPhotos",
				sql.NullString{},
				sql.NullString{},
				now,
				sql.NullString{},
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))

		assert.NoError(t, repo.Append(context.Background(), e))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditPostgres_Recent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAuditPostgres(db)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM action_logs").
		WithArgs(300).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "user_email", "action", "entity_type", "entity_id", "timestamp_utc", "details"}).
			AddRow(int64(2), "user-1", "me@example.com", "Photo.Delete", "Photo", "photo-1", now, nil).
			AddRow(int64(1), nil, nil, "SearchPhotos", nil, nil, now.Add(-time.Minute), "tags=cats"))

	items, err := repo.Recent(context.Background(), 300)

	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Photo.Delete", items[0].Action)
	assert.Empty(t, items[1].UserID)
	assert.Equal(t, "tags=cats", items[1].Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}
