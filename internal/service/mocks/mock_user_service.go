package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"galleryapi/internal/model"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ChangePlan(ctx context.Context, id string, tier model.PlanTier) error {
	args := m.Called(ctx, id, tier)
	return args.Error(0)
}
