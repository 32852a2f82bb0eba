package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"galleryapi/internal/imaging"
	"galleryapi/internal/model"
	"galleryapi/internal/service"
)

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Get(ctx context.Context, id string) (*model.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Photo), args.Error(1)
}

func (m *MockPhotoService) OpenOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error) {
	return splitOpenResult(m.Called(ctx, id))
}

func (m *MockPhotoService) DownloadOriginal(ctx context.Context, id string) (io.ReadCloser, *model.Photo, error) {
	return splitOpenResult(m.Called(ctx, id))
}

func splitOpenResult(args mock.Arguments) (io.ReadCloser, *model.Photo, error) {
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var photo *model.Photo
	if args.Get(1) != nil {
		photo = args.Get(1).(*model.Photo)
	}
	return rc, photo, args.Error(2)
}

func (m *MockPhotoService) DownloadProcessed(ctx context.Context, id string, opts imaging.Options) (*service.ProcessedResult, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessedResult), args.Error(1)
}

func (m *MockPhotoService) EditMetadata(ctx context.Context, id, description, rawTags string) error {
	args := m.Called(ctx, id, description, rawTags)
	return args.Error(0)
}

func (m *MockPhotoService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPhotoService) Search(ctx context.Context, p service.SearchParams) ([]model.Photo, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Photo), args.Error(1)
}

func (m *MockPhotoService) Recent(ctx context.Context) ([]model.Photo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Photo), args.Error(1)
}

func (m *MockPhotoService) RecentAuditEntries(ctx context.Context) ([]model.AuditEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}
