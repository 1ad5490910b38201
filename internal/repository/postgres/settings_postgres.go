package postgres

import (
	"context"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

// SettingsPostgres is a PostgreSQL implementation of repository.SettingsRepository.
// The UNIQUE constraint on media_id backs the one-record-per-media rule.
type SettingsPostgres struct {
	db DBTX
}

// NewSettingsPostgres creates a new SettingsPostgres repository.
func NewSettingsPostgres(db DBTX) *SettingsPostgres {
	return &SettingsPostgres{db: db}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

const settingsColumns = `id, media_id, background_color, wireframe_mode, material_type, hdri_preset, created_at, updated_at`

func scanSettings(row rowScanner) (*model.Settings, error) {
	var s model.Settings
	if err := row.Scan(
		&s.ID,
		&s.MediaID,
		&s.BackgroundColor,
		&s.WireframeMode,
		&s.MaterialType,
		&s.HDRIPreset,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// UpsertByMediaID inserts the settings row or overwrites every editable
// column of the existing one. The original id and created_at are kept.
func (r *SettingsPostgres) UpsertByMediaID(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	const q = `
		INSERT INTO settings (id, media_id, background_color, wireframe_mode, material_type, hdri_preset, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (media_id) DO UPDATE SET
			background_color = EXCLUDED.background_color,
			wireframe_mode   = EXCLUDED.wireframe_mode,
			material_type    = EXCLUDED.material_type,
			hdri_preset      = EXCLUDED.hdri_preset,
			updated_at       = EXCLUDED.updated_at
		RETURNING ` + settingsColumns
	row := r.db.QueryRowContext(ctx, q,
		s.ID,
		s.MediaID,
		s.BackgroundColor,
		s.WireframeMode,
		string(s.MaterialType),
		string(s.HDRIPreset),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return scanSettings(row)
}

// ListByMediaID returns the settings of a media, newest update first.
func (r *SettingsPostgres) ListByMediaID(ctx context.Context, mediaID string) ([]model.Settings, error) {
	const q = `
		SELECT ` + settingsColumns + `
		FROM settings
		WHERE media_id = $1
		ORDER BY updated_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, mediaID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	items := make([]model.Settings, 0, 1)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByMediaID removes the settings of a media. Deleting nothing is fine.
func (r *SettingsPostgres) DeleteByMediaID(ctx context.Context, mediaID string) error {
	const q = `DELETE FROM settings WHERE media_id = $1`
	if _, err := r.db.ExecContext(ctx, q, mediaID); err != nil {
		return translate(err)
	}
	return nil
}
