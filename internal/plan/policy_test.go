package plan

import (
	"testing"

	"galleryapi/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		name        string
		tier        model.PlanTier
		wantName    string
		wantPerDay  int
		wantMaxSize int64
	}{
		{"free", model.PlanFree, "FREE", 3, 2 * 1024 * 1024},
		{"pro", model.PlanPro, "PRO", 20, 10 * 1024 * 1024},
		{"gold", model.PlanGold, "GOLD", 100, 25 * 1024 * 1024},
		{"unknown tier falls back to free", model.PlanTier("platinum"), "FREE", 3, 2 * 1024 * 1024},
		{"empty tier falls back to free", model.PlanTier(""), "FREE", 3, 2 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PolicyFor(tt.tier)
			assert.Equal(t, tt.wantName, p.Name)
			assert.Equal(t, tt.wantPerDay, p.MaxUploadsPerDay)
			assert.Equal(t, tt.wantMaxSize, p.MaxBytesPerPhoto)
		})
	}
}
