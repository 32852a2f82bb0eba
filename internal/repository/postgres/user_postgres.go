package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"galleryapi/internal/model"
	"galleryapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

// FindByID returns the user with plan and quota counters.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `
		SELECT id, email, plan, uploads_today, uploads_today_date
		FROM users
		WHERE id = $1
	`
	var (
		u    model.User
		plan string
		date sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &plan, &u.Quota.UploadsToday, &date)
	if err != nil {
		return nil, err
	}
	u.Plan = model.PlanTier(plan)
	if date.Valid {
		u.Quota.Date = date.Time
	}
	return &u, nil
}

// UpdatePlan sets the tier immediately; there is no proration logic.
func (r *UserPostgres) UpdatePlan(ctx context.Context, id string, tier model.PlanTier) error {
	const q = `UPDATE users SET plan = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, string(tier))
	if err != nil {
		return fmt.Errorf("update plan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
