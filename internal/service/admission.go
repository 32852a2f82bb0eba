package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"galleryapi/internal/model"
	"galleryapi/internal/plan"
	"galleryapi/internal/repository"
	"galleryapi/internal/storage"
)

var (
	ErrReaderNil          = errors.New("content reader is nil")
	ErrNotFound           = errors.New("photo not found")
	ErrFileTooLarge       = errors.New("file exceeds the plan's size limit")
	ErrDailyLimitExceeded = errors.New("daily upload limit reached")
)

// UploadRequest carries one candidate upload.
type UploadRequest struct {
	UserID      string
	Content     io.Reader
	Size        int64
	Filename    string
	ContentType string
	Description string
	RawTags     string
}

// UploadService admits photo uploads: quota check, key assignment, blob
// persistence, metadata commit, and the final audit record, as one
// coordinated unit of work.
type UploadService interface {
	Admit(ctx context.Context, req UploadRequest) (*model.Photo, error)
}

type uploadService struct {
	store  storage.Storage
	photos repository.PhotoRepository
	users  repository.UserRepository
	audit  repository.AuditRepository
	now    func() time.Time
}

// NewUploadService constructs the admission service. store should be the
// audited storage composed at startup.
func NewUploadService(store storage.Storage, photos repository.PhotoRepository, users repository.UserRepository, audit repository.AuditRepository) UploadService {
	return &uploadService{store: store, photos: photos, users: users, audit: audit, now: time.Now}
}

// Admit runs the admission pipeline. Quota rejections come back as
// ErrFileTooLarge / ErrDailyLimitExceeded; they are expected validation
// outcomes, not failures.
//
// The quota counter check-then-increment is not serialized across requests:
// two concurrent uploads by one user can both pass the daily-limit check
// before either commits. That window is accepted for this system's
// consistency bar.
func (s *uploadService) Admit(ctx context.Context, req UploadRequest) (*model.Photo, error) {
	if req.Content == nil {
		return nil, ErrReaderNil
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", req.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	quota := rolloverQuota(user.Quota, s.today())
	pol := plan.PolicyFor(user.Plan)

	if req.Size > pol.MaxBytesPerPhoto {
		return nil, fmt.Errorf("%w: max %d MB on %s", ErrFileTooLarge, pol.MaxBytesPerPhoto/(1024*1024), pol.Name)
	}
	if quota.UploadsToday >= pol.MaxUploadsPerDay {
		return nil, fmt.Errorf("%w: %d/day on %s", ErrDailyLimitExceeded, pol.MaxUploadsPerDay, pol.Name)
	}

	photoID := uuid.NewString()
	key := storageKey(photoID, req.Filename)

	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := s.store.Save(ctx, key, req.Content, req.Size, contentType); err != nil {
		return nil, fmt.Errorf("persist blob: %w", err)
	}

	photo := &model.Photo{
		ID:               photoID,
		OwnerID:          user.ID,
		OwnerEmail:       user.Email,
		StorageKey:       key,
		OriginalFilename: req.Filename,
		ContentType:      contentType,
		SizeBytes:        req.Size,
		UploadedAt:       s.now().UTC(),
		Description:      strings.TrimSpace(req.Description),
		Tags:             ParseTags(req.RawTags),
	}

	quota.UploadsToday++
	stored, err := s.photos.Create(ctx, photo, quota)
	if err != nil {
		// The blob is already written; a failed metadata commit leaves it
		// orphaned. That is accepted and not reconciled automatically.
		return nil, fmt.Errorf("commit metadata: %w", err)
	}

	s.appendAudit(ctx, &model.AuditEntry{
		UserID:       user.ID,
		UserEmail:    user.Email,
		Action:       "UploadPhoto",
		EntityType:   "Photo",
		EntityID:     stored.ID,
		TimestampUTC: s.now().UTC(),
		Details:      fmt.Sprintf("sizeBytes=%d; key=%s", stored.SizeBytes, stored.StorageKey),
	})
	return stored, nil
}

// today is the current UTC date at midnight.
func (s *uploadService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// rolloverQuota resets the counter when the stored date is not today.
// Rollover only happens on access; there is no background job.
func rolloverQuota(q model.QuotaState, today time.Time) model.QuotaState {
	if !q.Date.Equal(today) {
		return model.QuotaState{UploadsToday: 0, Date: today}
	}
	return q
}

// storageKey derives the blob key for a fresh photo id. Extension comes from
// the client filename, lowercased, defaulting to .jpg.
func storageKey(photoID, filename string) string {
	ext := filepath.Ext(filename)
	if strings.TrimSpace(ext) == "" {
		ext = ".jpg"
	}
	return "photos/" + photoID + strings.ToLower(ext)
}

func (s *uploadService) appendAudit(ctx context.Context, e *model.AuditEntry) {
	appendAudit(ctx, s.audit, e)
}

// appendAudit writes an audit entry, logging instead of failing: audit is
// best-effort observability, never a gate on the operation it describes.
func appendAudit(ctx context.Context, sink repository.AuditRepository, e *model.AuditEntry) {
	if err := sink.Append(ctx, e); err != nil {
		b, _ := json.Marshal(map[string]any{
			"ts":     time.Now().UTC().Format(time.RFC3339Nano),
			"level":  "error",
			"msg":    "audit_write_failed",
			"action": e.Action,
			"error":  err.Error(),
		})
		log.SetFlags(0)
		log.Println(string(b))
	}
}
