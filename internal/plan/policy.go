// Package plan holds the per-tier upload policies. Policies are a fixed table
// resolved by PolicyFor; there is no persistence or configuration behind them.
package plan

import "galleryapi/internal/model"

// Policy describes the upload limits one subscription tier grants.
type Policy struct {
	Name             string
	MaxUploadsPerDay int
	MaxBytesPerPhoto int64
}

const mib = 1024 * 1024

// PolicyFor resolves the policy for a tier. Unknown tiers fall back to the
// free policy rather than erroring; that is the fail-safe default.
func PolicyFor(tier model.PlanTier) Policy {
	switch tier {
	case model.PlanPro:
		return Policy{Name: "PRO", MaxUploadsPerDay: 20, MaxBytesPerPhoto: 10 * mib}
	case model.PlanGold:
		return Policy{Name: "GOLD", MaxUploadsPerDay: 100, MaxBytesPerPhoto: 25 * mib}
	default:
		return Policy{Name: "FREE", MaxUploadsPerDay: 3, MaxBytesPerPhoto: 2 * mib}
	}
}
