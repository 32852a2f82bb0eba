package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"galleryapi/internal/model"
	"galleryapi/internal/plan"
	"galleryapi/internal/repository"
)

// ErrUnknownPlan is returned when a plan change names a tier outside the
// supported set.
var ErrUnknownPlan = errors.New("unknown plan tier")

// UserService exposes account reads and plan changes.
type UserService interface {
	// Get returns the user with current plan and quota counters.
	Get(ctx context.Context, id string) (*model.User, error)

	// ChangePlan switches a user to the given tier. The new limits apply
	// from the next upload; today's counter is untouched.
	ChangePlan(ctx context.Context, id string, tier model.PlanTier) error
}

type userService struct {
	users repository.UserRepository
	audit repository.AuditRepository
	now   func() time.Time
}

func NewUserService(users repository.UserRepository, audit repository.AuditRepository) UserService {
	return &userService{users: users, audit: audit, now: time.Now}
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *userService) ChangePlan(ctx context.Context, id string, tier model.PlanTier) error {
	switch tier {
	case model.PlanFree, model.PlanPro, model.PlanGold:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPlan, tier)
	}

	if err := s.users.UpdatePlan(ctx, id, tier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	pol := plan.PolicyFor(tier)
	appendAudit(ctx, s.audit, &model.AuditEntry{
		Action:       "ChangePlan",
		EntityType:   "User",
		EntityID:     id,
		TimestampUTC: s.now().UTC(),
		Details:      fmt.Sprintf("plan=%s; maxUploadsPerDay=%d", pol.Name, pol.MaxUploadsPerDay),
	})
	return nil
}
