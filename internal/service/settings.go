package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"modelviewer/internal/apperr"
	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

const (
	msgSettingsRequired = "media_id and backgroundColor are required"
	msgNoSettings       = "No settings found for this media"
)

// SaveSettingsInput is a full settings write for one media. Nil or empty
// optional fields are stored as their defaults, never kept from the prior record.
type SaveSettingsInput struct {
	MediaID         string
	BackgroundColor string
	WireframeMode   *bool
	MaterialType    *string
	HDRIPreset      *string
}

// SettingsService defines the viewer settings use cases.
type SettingsService interface {
	// Save creates or overwrites the settings of a media and returns the stored record.
	Save(ctx context.Context, in SaveSettingsInput) (*model.Settings, error)

	// ListForMedia returns the settings of a media, most recently updated first.
	ListForMedia(ctx context.Context, mediaID string) ([]model.Settings, error)
}

type settingsService struct {
	settings repository.SettingsRepository
	media    repository.MediaRepository
	log      *zap.Logger
}

// NewSettingsService constructs a new SettingsService.
func NewSettingsService(settings repository.SettingsRepository, media repository.MediaRepository, log *zap.Logger) SettingsService {
	return &settingsService{settings: settings, media: media, log: log.Named("settings")}
}

func (s *settingsService) Save(ctx context.Context, in SaveSettingsInput) (*model.Settings, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.Save")
	defer span.End()

	rec, err := buildSettings(in)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("media.id", rec.MediaID))

	if _, err := s.media.FindByID(ctx, rec.MediaID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgMediaNotFound)
		}
		span.RecordError(err)
		return nil, apperr.Storage("failed to load media", err)
	}

	stored, err := s.settings.UpsertByMediaID(ctx, rec)
	if err != nil {
		// The media can vanish between the lookup and the write.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgMediaNotFound)
		}
		span.RecordError(err)
		s.log.Error("settings save failed", zap.String("media_id", rec.MediaID), zap.Error(err))
		return nil, apperr.Storage("failed to save settings", err)
	}

	s.log.Debug("settings saved", zap.String("media_id", stored.MediaID), zap.String("settings_id", stored.ID))
	return stored, nil
}

func (s *settingsService) ListForMedia(ctx context.Context, mediaID string) ([]model.Settings, error) {
	ctx, span := tracer.Start(ctx, "SettingsService.ListForMedia")
	defer span.End()

	if err := checkMediaID(mediaID); err != nil {
		return nil, err
	}

	list, err := s.settings.ListByMediaID(ctx, mediaID)
	if err != nil {
		span.RecordError(err)
		return nil, apperr.Storage("failed to load settings", err)
	}
	if len(list) == 0 {
		return nil, apperr.NotFound(msgNoSettings)
	}
	return list, nil
}

// buildSettings validates in and fills defaults for omitted fields.
func buildSettings(in SaveSettingsInput) (*model.Settings, error) {
	if in.MediaID == "" || in.BackgroundColor == "" {
		return nil, apperr.Validation(msgSettingsRequired)
	}
	if err := checkMediaID(in.MediaID); err != nil {
		return nil, err
	}
	if !model.ValidColor(in.BackgroundColor) {
		return nil, apperr.Validation("backgroundColor must be a hex colour such as #ffffff")
	}

	now := timeNow().UTC()
	rec := &model.Settings{
		ID:              uuid.New().String(),
		MediaID:         in.MediaID,
		BackgroundColor: in.BackgroundColor,
		WireframeMode:   model.DefaultWireframe,
		MaterialType:    model.DefaultMaterialKind,
		HDRIPreset:      model.DefaultEnvironmentPreset,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.WireframeMode != nil {
		rec.WireframeMode = *in.WireframeMode
	}
	if in.MaterialType != nil && *in.MaterialType != "" {
		m := model.MaterialKind(*in.MaterialType)
		if !m.Valid() {
			return nil, apperr.Validation("material_type must be one of standard, metallic, plastic, leather")
		}
		rec.MaterialType = m
	}
	if in.HDRIPreset != nil && *in.HDRIPreset != "" {
		p := model.EnvironmentPreset(*in.HDRIPreset)
		if !p.Valid() {
			return nil, apperr.Validation("hdri_preset must be one of sunset, dawn, night, warehouse, forest, apartment, studio, city")
		}
		rec.HDRIPreset = p
	}
	return rec, nil
}
