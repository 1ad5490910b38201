package postgres

import (
	"context"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

// MediaPostgres is a PostgreSQL implementation of repository.MediaRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type MediaPostgres struct {
	db DBTX
}

// NewMediaPostgres creates a new MediaPostgres repository.
func NewMediaPostgres(db DBTX) *MediaPostgres {
	return &MediaPostgres{db: db}
}

var _ repository.MediaRepository = (*MediaPostgres)(nil)

const mediaColumns = `id, media_url, storage_key, file_type, original_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedia(row rowScanner) (*model.Media, error) {
	var m model.Media
	if err := row.Scan(
		&m.ID,
		&m.MediaURL,
		&m.StorageKey,
		&m.FileType,
		&m.OriginalName,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// Create inserts a new media row and returns the stored record.
func (r *MediaPostgres) Create(ctx context.Context, m *model.Media) (*model.Media, error) {
	const q = `
		INSERT INTO media (id, media_url, storage_key, file_type, original_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + mediaColumns
	row := r.db.QueryRowContext(ctx, q,
		m.ID,
		m.MediaURL,
		m.StorageKey,
		string(m.FileType),
		m.OriginalName,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return scanMedia(row)
}

// FindLatest returns the most recently created media.
func (r *MediaPostgres) FindLatest(ctx context.Context) (*model.Media, error) {
	const q = `
		SELECT ` + mediaColumns + `
		FROM media
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	return scanMedia(r.db.QueryRowContext(ctx, q))
}

// FindByID fetches a single media by its ID.
func (r *MediaPostgres) FindByID(ctx context.Context, id string) (*model.Media, error) {
	const q = `
		SELECT ` + mediaColumns + `
		FROM media
		WHERE id = $1
	`
	return scanMedia(r.db.QueryRowContext(ctx, q, id))
}

// Delete removes a media by ID.
func (r *MediaPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM media WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
