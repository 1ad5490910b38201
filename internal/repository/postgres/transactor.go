package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"modelviewer/internal/repository"
)

// Transactor runs units of work inside a database/sql transaction.
type Transactor struct {
	db *sql.DB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

var _ repository.Transactor = (*Transactor)(nil)

// WithinTx commits when fn returns nil and rolls back otherwise, including on panic.
func (t *Transactor) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	repos := repository.Repositories{
		Media:    NewMediaPostgres(tx),
		Settings: NewSettingsPostgres(tx),
	}
	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
