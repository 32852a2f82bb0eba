package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"galleryapi/internal/model"
	"galleryapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var photoCols = []string{"id", "owner_id", "storage_key", "original_filename", "content_type", "size_bytes", "uploaded_at", "description"}

func photoColsWithEmail() []string {
	return append(append([]string{}, photoCols...), "email")
}

func TestPhotoPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	photo := &model.Photo{
		ID:               "photo-1",
		OwnerID:          "user-1",
		StorageKey:       "photos/photo-1.jpg",
		OriginalFilename: "cat.JPG",
		ContentType:      "image/jpeg",
		SizeBytes:        1234,
		UploadedAt:       now,
		Tags:             []string{"cats", "dog"},
	}
	quota := model.QuotaState{UploadsToday: 1, Date: today}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO photos").
		WithArgs(photo.ID, photo.OwnerID, photo.StorageKey, photo.OriginalFilename, photo.ContentType, photo.SizeBytes, photo.UploadedAt, photo.Description).
		WillReturnRows(sqlmock.NewRows(photoCols).
			AddRow(photo.ID, photo.OwnerID, photo.StorageKey, photo.OriginalFilename, photo.ContentType, photo.SizeBytes, photo.UploadedAt, photo.Description))

	for i, tag := range photo.Tags {
		mock.ExpectQuery("INSERT INTO hashtags").
			WithArgs(sqlmock.AnyArg(), tag).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("tag-" + tag))
		mock.ExpectExec("INSERT INTO photo_hashtags").
			WithArgs(photo.ID, "tag-"+photo.Tags[i]).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	mock.ExpectExec("UPDATE users SET uploads_today").
		WithArgs(photo.OwnerID, quota.UploadsToday, quota.Date).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	stored, err := repo.Create(ctx, photo, quota)

	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, photo.ID, stored.ID)
	assert.Equal(t, photo.Tags, stored.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_Create_RollsBackOnQuotaFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	photo := &model.Photo{ID: "p", OwnerID: "u", StorageKey: "photos/p.jpg", SizeBytes: 1, UploadedAt: now}

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO photos").
		WillReturnRows(sqlmock.NewRows(photoCols).
			AddRow(photo.ID, photo.OwnerID, photo.StorageKey, nil, nil, photo.SizeBytes, photo.UploadedAt, nil))
	mock.ExpectExec("UPDATE users SET uploads_today").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err = repo.Create(ctx, photo, model.QuotaState{UploadsToday: 1, Date: now})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_FindByIDWithTags(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM photos p").
			WithArgs("photo-1").
			WillReturnRows(sqlmock.NewRows(photoColsWithEmail()).
				AddRow("photo-1", "user-1", "photos/photo-1.jpg", "cat.jpg", "image/jpeg", 12, time.Now(), "a cat", "me@example.com"))
		mock.ExpectQuery("SELECT h.tag").
			WithArgs("photo-1").
			WillReturnRows(sqlmock.NewRows([]string{"tag"}).AddRow("cats").AddRow("pets"))

		p, err := repo.FindByIDWithTags(ctx, "photo-1")

		assert.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, []string{"cats", "pets"}, p.Tags)
		assert.Equal(t, "me@example.com", p.OwnerEmail)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM photos p").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindByIDWithTags(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})
}

func TestPhotoPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM photo_hashtags").
		WithArgs("photo-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM photos").
		WithArgs("photo-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(ctx, "photo-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_UpdateMetadata_MissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE photos SET description").
		WithArgs("missing", "new text").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.UpdateMetadata(context.Background(), "missing", "new text", nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPhotoPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPhotoPostgres(db)
	ctx := context.Background()

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM photos p").
		WithArgs("%alice%", int64(1024), from, to, "cats", 200).
		WillReturnRows(sqlmock.NewRows(photoColsWithEmail()).
			AddRow("photo-1", "user-1", "photos/photo-1.jpg", "cat.jpg", "image/jpeg", 2048, from.Add(24*time.Hour), nil, "alice@example.com"))

	items, err := repo.Search(ctx, repository.SearchQuery{
		AuthorEmail:  "alice",
		MinSizeBytes: 1024,
		From:         from,
		To:           to,
		Tags:         []string{"cats"},
	})

	assert.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "photo-1", items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
