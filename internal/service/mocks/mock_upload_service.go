package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"galleryapi/internal/model"
	"galleryapi/internal/service"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Admit(ctx context.Context, req service.UploadRequest) (*model.Photo, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}
