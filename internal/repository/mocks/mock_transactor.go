package mocks

import (
	"context"

	"modelviewer/internal/repository"
	"github.com/stretchr/testify/mock"
)

// MockTransactor hands Repos to the unit of work unless the expectation
// returns an error, which simulates a failed begin.
type MockTransactor struct {
	mock.Mock
	Repos repository.Repositories
}

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Repos)
}
