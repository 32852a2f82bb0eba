package storage

import (
	"context"
	"strings"
	"testing"

	"galleryapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRouter_ReEvaluatesProviderPerCall(t *testing.T) {
	ctx := context.Background()

	local := new(mocks.MockStorage)
	object := new(mocks.MockStorage)
	local.On("Delete", ctx, "photos/a.jpg").Return(nil).Once()
	object.On("Delete", ctx, "photos/a.jpg").Return(nil).Once()

	provider := "Local"
	r := NewRouter(func() string { return provider }, local, object)

	assert.NoError(t, r.Delete(ctx, "photos/a.jpg"))

	// Flip the configuration between calls; no restart, no re-wiring.
	provider = "Minio"
	assert.NoError(t, r.Delete(ctx, "photos/a.jpg"))

	local.AssertExpectations(t)
	object.AssertExpectations(t)
}

func TestRouter_ProviderMatching(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		provider   string
		wantObject bool
	}{
		{"Minio", true},
		{"minio", true},
		{" MINIO ", true},
		{"Local", false},
		{"", false},
		{"s3", false},
	}

	for _, tt := range tests {
		t.Run("provider="+strings.TrimSpace(tt.provider), func(t *testing.T) {
			local := new(mocks.MockStorage)
			object := new(mocks.MockStorage)
			target := local
			if tt.wantObject {
				target = object
			}
			target.On("Save", ctx, "k", mock.Anything, int64(1), "image/png").Return(nil).Once()

			r := NewRouter(func() string { return tt.provider }, local, object)
			assert.NoError(t, r.Save(ctx, "k", strings.NewReader("x"), 1, "image/png"))

			local.AssertExpectations(t)
			object.AssertExpectations(t)
		})
	}
}
