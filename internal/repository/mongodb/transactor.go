package mongodb

import (
	"context"

	"modelviewer/internal/repository"
)

// Transactor runs units of work sequentially against plain collections.
// Standalone MongoDB deployments have no multi-document transactions, so a
// failing step leaves earlier steps applied; callers treat this as a saga.
type Transactor struct {
	repos repository.Repositories
}

func NewTransactor(media *MediaMongo, settings *SettingsMongo) *Transactor {
	return &Transactor{repos: repository.Repositories{Media: media, Settings: settings}}
}

var _ repository.Transactor = (*Transactor)(nil)

func (t *Transactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(t.repos)
}
