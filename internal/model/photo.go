package model

import "time"

// Photo is the metadata record for one uploaded image.
// This is a pure domain model with no database-specific dependencies or tags;
// the blob itself lives in object or local storage under StorageKey.
type Photo struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	OwnerEmail       string    `json:"owner_email,omitempty"`
	StorageKey       string    `json:"storage_key"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	ContentType      string    `json:"content_type,omitempty"`
	SizeBytes        int64     `json:"size_bytes"`
	UploadedAt       time.Time `json:"uploaded_at"`
	Description      string    `json:"description,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
}
