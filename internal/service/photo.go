package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"galleryapi/internal/imaging"
	"galleryapi/internal/model"
	"galleryapi/internal/repository"
	"galleryapi/internal/storage"
)

// SearchParams are the user-facing search filters. ToDate is inclusive; the
// repository receives an exclusive end of the following midnight.
type SearchParams struct {
	AuthorEmail string
	MinSizeMB   float64
	MaxSizeMB   float64
	FromDate    time.Time
	ToDate      time.Time
	RawTags     string
}

// ProcessedResult is the outcome of a transform-and-download request.
type ProcessedResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// PhotoService coordinates reads, edits and deletes across storage, metadata
// and the audit log, keeping blob and record consistent.
type PhotoService interface {
	// Get returns a photo's metadata including tags.
	Get(ctx context.Context, id string) (*model.Photo, error)

	// OpenOriginal streams the original blob. The audit entry is written
	// before the blob is opened, recording intent.
	OpenOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error)

	// DownloadOriginal is OpenOriginal plus a download-specific audit record
	// and the original filename for the attachment.
	DownloadOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error)

	// DownloadProcessed streams the blob through the image transformer.
	DownloadProcessed(ctx context.Context, id string, opts imaging.Options) (*ProcessedResult, error)

	// EditMetadata updates description and tag set.
	EditMetadata(ctx context.Context, id, description, rawTags string) error

	// Delete removes blob first, then metadata; a failed blob deletion
	// leaves the record in place.
	Delete(ctx context.Context, id string) error

	// Search returns photos matching the filters, newest first, capped at 200.
	Search(ctx context.Context, p SearchParams) ([]model.Photo, error)

	// Recent returns the newest photos for the admin listing.
	Recent(ctx context.Context) ([]model.Photo, error)

	// RecentAuditEntries returns the newest audit log rows for the admin view.
	RecentAuditEntries(ctx context.Context) ([]model.AuditEntry, error)
}

type photoService struct {
	store       storage.Storage
	photos      repository.PhotoRepository
	audit       repository.AuditRepository
	transformer imaging.Transformer
	now         func() time.Time
}

// NewPhotoService constructs the lifecycle facade. store should be the
// audited storage composed at startup.
func NewPhotoService(store storage.Storage, photos repository.PhotoRepository, audit repository.AuditRepository, transformer imaging.Transformer) PhotoService {
	return &photoService{store: store, photos: photos, audit: audit, transformer: transformer, now: time.Now}
}

func (s *photoService) Get(ctx context.Context, id string) (*model.Photo, error) {
	photo, err := s.photos.FindByIDWithTags(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return photo, nil
}

func (s *photoService) OpenOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error) {
	return s.open(ctx, id, "Photo.OpenOriginal", "")
}

func (s *photoService) DownloadOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error) {
	return s.open(ctx, id, "DownloadOriginal", "")
}

// open looks the photo up, records the access, then opens the blob. The
// intent-first ordering means a failed open still leaves an entry behind.
func (s *photoService) open(ctx context.Context, id, action, details string) (io.ReadCloser, *model.Photo, error) {
	photo, err := s.photos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if details == "" {
		details = photo.StorageKey
	}
	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       action,
		EntityType:   "Photo",
		EntityID:     photo.ID,
		TimestampUTC: s.now().UTC(),
		Details:      details,
	})

	rc, err := s.store.OpenRead(ctx, photo.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}
	return rc, photo, nil
}

func (s *photoService) DownloadProcessed(ctx context.Context, id string, opts imaging.Options) (*ProcessedResult, error) {
	photo, err := s.photos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rc, err := s.store.OpenRead(ctx, photo.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}
	defer rc.Close()

	data, contentType, ext, err := s.transformer.Transform(ctx, rc, opts)
	if err != nil {
		return nil, fmt.Errorf("transform image: %w", err)
	}

	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       "DownloadProcessed",
		EntityType:   "Photo",
		EntityID:     photo.ID,
		TimestampUTC: s.now().UTC(),
		Details: fmt.Sprintf("format=%s; w=%d; h=%d; sepia=%t; blur=%g",
			opts.Format, opts.ResizeWidth, opts.ResizeHeight, opts.Sepia, opts.Blur),
	})

	base := strings.TrimSuffix(photo.OriginalFilename, filepath.Ext(photo.OriginalFilename))
	if base == "" {
		base = "photo"
	}
	return &ProcessedResult{
		Data:        data,
		ContentType: contentType,
		Filename:    base + "_processed" + ext,
	}, nil
}

func (s *photoService) EditMetadata(ctx context.Context, id, description, rawTags string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	tags := ParseTags(rawTags)
	if err := s.photos.UpdateMetadata(ctx, id, strings.TrimSpace(description), tags); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       "EditPhotoMetadata",
		EntityType:   "Photo",
		EntityID:     id,
		TimestampUTC: s.now().UTC(),
		Details:      fmt.Sprintf("desc=%s; tags=%s", strings.TrimSpace(description), strings.Join(tags, ",")),
	})
	return nil
}

// Delete removes the blob before the metadata so a record never points at a
// missing blob for longer than one failed step. If the blob deletion fails,
// the record stays: a dangling record is recoverable by hand, an unreachable
// orphaned blob is not.
func (s *photoService) Delete(ctx context.Context, id string) error {
	photo, err := s.photos.FindByIDWithTags(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.Delete(ctx, photo.StorageKey); err != nil {
		return fmt.Errorf("delete blob: %w", err)
	}

	if err := s.photos.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}

	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       "Photo.Delete",
		EntityType:   "Photo",
		EntityID:     id,
		TimestampUTC: s.now().UTC(),
	})
	return nil
}

func (s *photoService) Search(ctx context.Context, p SearchParams) ([]model.Photo, error) {
	q := repository.SearchQuery{
		AuthorEmail: strings.TrimSpace(p.AuthorEmail),
		Tags:        ParseTags(p.RawTags),
		Limit:       200,
	}
	if p.MinSizeMB > 0 {
		q.MinSizeBytes = int64(p.MinSizeMB * 1024 * 1024)
	}
	if p.MaxSizeMB > 0 {
		q.MaxSizeBytes = int64(p.MaxSizeMB * 1024 * 1024)
	}
	if !p.FromDate.IsZero() {
		q.From = p.FromDate.UTC().Truncate(24 * time.Hour)
	}
	if !p.ToDate.IsZero() {
		q.To = p.ToDate.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	}

	items, err := s.photos.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       "SearchPhotos",
		EntityType:   "Photo",
		TimestampUTC: s.now().UTC(),
		Details: fmt.Sprintf("tags=%s; author=%s; minMb=%g; maxMb=%g; results=%d",
			p.RawTags, p.AuthorEmail, p.MinSizeMB, p.MaxSizeMB, len(items)),
	})
	return items, nil
}

func (s *photoService) Recent(ctx context.Context) ([]model.Photo, error) {
	return s.photos.Recent(ctx, 200)
}

func (s *photoService) RecentAuditEntries(ctx context.Context) ([]model.AuditEntry, error) {
	return s.audit.Recent(ctx, 300)
}
