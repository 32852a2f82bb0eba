package repository

import (
	"context"

	"galleryapi/internal/model"
)

// UserRepository exposes the identity slice this service owns: plan tier and
// quota counters. Authentication data lives elsewhere.
type UserRepository interface {
	// FindByID returns the user with plan and quota state.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// UpdatePlan sets the user's tier. The change takes effect immediately.
	UpdatePlan(ctx context.Context, id string, tier model.PlanTier) error
}
