package model

import "time"

// PlanTier is a user's subscription level. It gates per-day upload count and
// per-photo size limits.
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
	PlanGold PlanTier = "gold"
)

// QuotaState tracks a user's upload counter for the current UTC day.
// The counter is only meaningful together with Date: when Date is not today,
// the counter is logically zero (lazy rollover, no background job).
type QuotaState struct {
	UploadsToday int       `json:"uploads_today"`
	Date         time.Time `json:"uploads_today_date"`
}

// User is the identity slice this service needs: plan and quota counters.
// Authentication itself is an external collaborator.
type User struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Plan  PlanTier   `json:"plan"`
	Quota QuotaState `json:"quota"`
}
