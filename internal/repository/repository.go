package repository

import (
	"context"
	"errors"

	"modelviewer/internal/model"
)

// ErrNotFound is returned by every implementation when a lookup or delete
// matches nothing. Engine-specific no-row errors never escape this package tree.
var ErrNotFound = errors.New("record not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("record conflict")

// MediaRepository is the persistence boundary for media records.
// No business logic here, strictly persistence operations.
type MediaRepository interface {
	// Create inserts a new media record and returns the stored row.
	Create(ctx context.Context, m *model.Media) (*model.Media, error)

	// FindLatest returns the media with the greatest creation time, ties broken by id.
	FindLatest(ctx context.Context) (*model.Media, error)

	// FindByID returns a media by its ID.
	FindByID(ctx context.Context, id string) (*model.Media, error)

	// Delete removes a media by ID. It returns ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, id string) error
}

// SettingsRepository is the persistence boundary for viewer settings.
type SettingsRepository interface {
	// UpsertByMediaID creates the settings of s.MediaID or fully overwrites the
	// existing record, and returns the stored row.
	UpsertByMediaID(ctx context.Context, s *model.Settings) (*model.Settings, error)

	// ListByMediaID returns the settings of a media ordered by update time, newest first.
	ListByMediaID(ctx context.Context, mediaID string) ([]model.Settings, error)

	// DeleteByMediaID removes all settings of a media. Deleting nothing is not an error.
	DeleteByMediaID(ctx context.Context, mediaID string) error
}

// Repositories groups the adapters handed to a unit of work.
type Repositories struct {
	Media    MediaRepository
	Settings SettingsRepository
}

// Transactor runs fn against repositories bound to one logical unit.
// SQL implementations use a transaction; document stores without one run the
// steps in order and stop at the first failure.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
