package mocks

import (
	"context"

	"galleryapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePlan(ctx context.Context, id string, tier model.PlanTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}
