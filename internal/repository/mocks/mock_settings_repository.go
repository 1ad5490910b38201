package mocks

import (
	"context"

	"modelviewer/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) UpsertByMediaID(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsRepository) ListByMediaID(ctx context.Context, mediaID string) ([]model.Settings, error) {
	args := m.Called(ctx, mediaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Settings), args.Error(1)
}

func (m *MockSettingsRepository) DeleteByMediaID(ctx context.Context, mediaID string) error {
	args := m.Called(ctx, mediaID)
	return args.Error(0)
}
