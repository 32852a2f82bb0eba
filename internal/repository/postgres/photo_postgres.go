package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"galleryapi/internal/model"
	"galleryapi/internal/repository"
)

// PhotoPostgres is a PostgreSQL implementation of repository.PhotoRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PhotoPostgres struct {
	db *sql.DB
}

// NewPhotoPostgres creates a new PhotoPostgres repository.
func NewPhotoPostgres(db *sql.DB) *PhotoPostgres {
	return &PhotoPostgres{db: db}
}

var _ repository.PhotoRepository = (*PhotoPostgres)(nil)

const photoColumns = `p.id, p.owner_id, p.storage_key, p.original_filename, p.content_type, p.size_bytes, p.uploaded_at, p.description`

// Create commits the photo row, tag associations, and the owner's quota state
// in a single transaction.
func (r *PhotoPostgres) Create(ctx context.Context, photo *model.Photo, quota model.QuotaState) (*model.Photo, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const qPhoto = `
		INSERT INTO photos (id, owner_id, storage_key, original_filename, content_type, size_bytes, uploaded_at, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, owner_id, storage_key, original_filename, content_type, size_bytes, uploaded_at, description
	`
	row := tx.QueryRowContext(ctx, qPhoto,
		photo.ID,
		photo.OwnerID,
		photo.StorageKey,
		photo.OriginalFilename,
		photo.ContentType,
		photo.SizeBytes,
		photo.UploadedAt,
		photo.Description,
	)
	out, err := scanPhoto(row)
	if err != nil {
		return nil, fmt.Errorf("insert photo: %w", err)
	}

	for _, tag := range photo.Tags {
		if err := linkTag(ctx, tx, photo.ID, tag); err != nil {
			return nil, err
		}
	}

	const qQuota = `UPDATE users SET uploads_today = $2, uploads_today_date = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, qQuota, photo.OwnerID, quota.UploadsToday, quota.Date); err != nil {
		return nil, fmt.Errorf("update quota state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	out.Tags = photo.Tags
	return out, nil
}

// linkTag upserts the hashtag by value and attaches it to the photo.
func linkTag(ctx context.Context, tx *sql.Tx, photoID, tag string) error {
	const qTag = `
		INSERT INTO hashtags (id, tag) VALUES ($1, $2)
		ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
		RETURNING id
	`
	var hashtagID string
	if err := tx.QueryRowContext(ctx, qTag, uuid.NewString(), tag).Scan(&hashtagID); err != nil {
		return fmt.Errorf("upsert hashtag %q: %w", tag, err)
	}

	const qLink = `
		INSERT INTO photo_hashtags (photo_id, hashtag_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	if _, err := tx.ExecContext(ctx, qLink, photoID, hashtagID); err != nil {
		return fmt.Errorf("link hashtag %q: %w", tag, err)
	}
	return nil
}

// FindByID fetches a single photo without its tags.
func (r *PhotoPostgres) FindByID(ctx context.Context, id string) (*model.Photo, error) {
	q := `
		SELECT ` + photoColumns + `, u.email
		FROM photos p
		LEFT JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	return scanPhotoWithEmail(row)
}

// FindByIDWithTags fetches a photo and its tag list.
func (r *PhotoPostgres) FindByIDWithTags(ctx context.Context, id string) (*model.Photo, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	const qTags = `
		SELECT h.tag
		FROM hashtags h
		JOIN photo_hashtags ph ON ph.hashtag_id = h.id
		WHERE ph.photo_id = $1
		ORDER BY h.tag
	`
	rows, err := r.db.QueryContext(ctx, qTags, id)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		p.Tags = append(p.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes the tag links and the photo row in one transaction.
// A missing row is not an error.
func (r *PhotoPostgres) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_hashtags WHERE photo_id = $1`, id); err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	return tx.Commit()
}

// UpdateMetadata replaces description and tag set transactionally. The tag
// set is rebuilt: all links dropped, wanted ones re-attached.
func (r *PhotoPostgres) UpdateMetadata(ctx context.Context, id, description string, tags []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE photos SET description = $2 WHERE id = $1`, id, description)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM photo_hashtags WHERE photo_id = $1`, id); err != nil {
		return fmt.Errorf("clear tag links: %w", err)
	}
	for _, tag := range tags {
		if err := linkTag(ctx, tx, id, tag); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Search applies all set filters and returns the newest matches first.
func (r *PhotoPostgres) Search(ctx context.Context, q repository.SearchQuery) ([]model.Photo, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.AuthorEmail != "" {
		where = append(where, "u.email ILIKE "+arg("%"+q.AuthorEmail+"%"))
	}
	if q.MinSizeBytes > 0 {
		where = append(where, "p.size_bytes >= "+arg(q.MinSizeBytes))
	}
	if q.MaxSizeBytes > 0 {
		where = append(where, "p.size_bytes <= "+arg(q.MaxSizeBytes))
	}
	if !q.From.IsZero() {
		where = append(where, "p.uploaded_at >= "+arg(q.From))
	}
	if !q.To.IsZero() {
		where = append(where, "p.uploaded_at < "+arg(q.To))
	}
	for _, tag := range q.Tags {
		where = append(where, `EXISTS (
			SELECT 1 FROM photo_hashtags ph
			JOIN hashtags h ON h.id = ph.hashtag_id
			WHERE ph.photo_id = p.id AND h.tag = `+arg(tag)+`)`)
	}

	query := `
		SELECT ` + photoColumns + `, u.email
		FROM photos p
		LEFT JOIN users u ON u.id = p.owner_id
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 200
	}
	query += " ORDER BY p.uploaded_at DESC, p.id DESC LIMIT " + arg(limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// Recent returns the newest photos for the admin listing.
func (r *PhotoPostgres) Recent(ctx context.Context, limit int) ([]model.Photo, error) {
	q := `
		SELECT ` + photoColumns + `, u.email
		FROM photos p
		LEFT JOIN users u ON u.id = p.owner_id
		ORDER BY p.uploaded_at DESC, p.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPhotos(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row rowScanner) (*model.Photo, error) {
	var (
		p           model.Photo
		filename    sql.NullString
		contentType sql.NullString
		description sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.StorageKey,
		&filename,
		&contentType,
		&p.SizeBytes,
		&p.UploadedAt,
		&description,
	); err != nil {
		return nil, err
	}
	p.OriginalFilename = filename.String
	p.ContentType = contentType.String
	p.Description = description.String
	return &p, nil
}

func scanPhotoWithEmail(row rowScanner) (*model.Photo, error) {
	var (
		p           model.Photo
		filename    sql.NullString
		contentType sql.NullString
		description sql.NullString
		email       sql.NullString
	)
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.StorageKey,
		&filename,
		&contentType,
		&p.SizeBytes,
		&p.UploadedAt,
		&description,
		&email,
	); err != nil {
		return nil, err
	}
	p.OriginalFilename = filename.String
	p.ContentType = contentType.String
	p.Description = description.String
	p.OwnerEmail = email.String
	return &p, nil
}

func collectPhotos(rows *sql.Rows) ([]model.Photo, error) {
	items := make([]model.Photo, 0)
	for rows.Next() {
		p, err := scanPhotoWithEmail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
