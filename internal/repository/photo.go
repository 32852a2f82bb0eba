package repository

import (
	"context"
	"time"

	"galleryapi/internal/model"
)

// SearchQuery holds the photo search filters. Zero values mean "not set".
// To is an exclusive upper bound on the upload time.
type SearchQuery struct {
	AuthorEmail  string
	MinSizeBytes int64
	MaxSizeBytes int64
	From         time.Time
	To           time.Time
	Tags         []string
	Limit        int
}

// PhotoRepository defines data access for photo metadata and its tag
// associations. No business logic here — strictly persistence operations.
type PhotoRepository interface {
	// Create inserts the photo row, its normalized tag associations
	// (creating hashtags as needed), and the owner's updated quota state as
	// ONE transaction. The blob must already be persisted by the caller; if
	// this commit fails the blob is orphaned, which the upload flow accepts.
	Create(ctx context.Context, photo *model.Photo, quota model.QuotaState) (*model.Photo, error)

	// FindByID returns a photo without its tags.
	FindByID(ctx context.Context, id string) (*model.Photo, error)

	// FindByIDWithTags returns a photo including its tag list.
	FindByIDWithTags(ctx context.Context, id string) (*model.Photo, error)

	// Delete removes the photo's tag associations and its row in one
	// transaction. A missing row is not an error.
	Delete(ctx context.Context, id string) error

	// UpdateMetadata replaces the description and the tag set in one
	// transaction. Hashtags are created as needed; orphaned links are removed.
	UpdateMetadata(ctx context.Context, id, description string, tags []string) error

	// Search returns photos matching all set filters, newest first.
	Search(ctx context.Context, q SearchQuery) ([]model.Photo, error)

	// Recent returns the newest photos, for the admin listing.
	Recent(ctx context.Context, limit int) ([]model.Photo, error)
}
