package mocks

import (
	"context"

	"modelviewer/internal/model"
	"modelviewer/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Save(ctx context.Context, in service.SaveSettingsInput) (*model.Settings, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) ListForMedia(ctx context.Context, mediaID string) ([]model.Settings, error) {
	args := m.Called(ctx, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Settings), args.Error(1)
}
