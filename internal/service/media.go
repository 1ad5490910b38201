package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"modelviewer/internal/apperr"
	"modelviewer/internal/model"
	"modelviewer/internal/repository"
	"modelviewer/internal/storage"
)

const (
	msgNoFile         = "No file uploaded"
	msgBadFileType    = "Only .glb and .gltf files are allowed"
	msgFileTooLarge   = "File size exceeds the maximum limit"
	msgNoMedia        = "No media found"
	msgMediaNotFound  = "Media not found"
	msgPartialDelete  = "media deletion partially failed"
	defaultKeyPrefix  = "3d-models"
	maxKeyBaseNameLen = 64
)

// MediaService defines the media lifecycle use cases.
type MediaService interface {
	// Upload validates the file, stores the blob and saves its record. The blob is
	// removed again if the record cannot be saved.
	Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*model.Media, error)

	// Latest returns the most recently created media.
	Latest(ctx context.Context) (*model.Media, error)

	// Get returns a media by its ID.
	Get(ctx context.Context, id string) (*model.Media, error)

	// Delete removes the blob, the settings and the record of a media.
	Delete(ctx context.Context, id string) error
}

// MediaOption configures a MediaService.
type MediaOption func(*mediaService)

// WithMaxUploadBytes rejects uploads larger than n bytes. Zero disables the check.
func WithMaxUploadBytes(n int64) MediaOption {
	return func(s *mediaService) { s.maxBytes = n }
}

// WithKeyPrefix sets the blob key prefix of uploaded models.
func WithKeyPrefix(prefix string) MediaOption {
	return func(s *mediaService) {
		if p := strings.Trim(prefix, "/"); p != "" {
			s.keyPrefix = p
		}
	}
}

type mediaService struct {
	store     storage.Storage
	repo      repository.MediaRepository
	tx        repository.Transactor
	log       *zap.Logger
	maxBytes  int64
	keyPrefix string
}

// NewMediaService constructs a new MediaService.
func NewMediaService(store storage.Storage, repo repository.MediaRepository, tx repository.Transactor, log *zap.Logger, opts ...MediaOption) MediaService {
	s := &mediaService{
		store:     store,
		repo:      repo,
		tx:        tx,
		log:       log.Named("media"),
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *mediaService) Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*model.Media, error) {
	ctx, span := tracer.Start(ctx, "MediaService.Upload")
	defer span.End()

	if r == nil || originalName == "" {
		return nil, apperr.Validation(msgNoFile)
	}
	kind, ok := model.FileKindFromName(originalName)
	if !ok {
		return nil, apperr.Validation(msgBadFileType)
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, apperr.Validation(msgFileTooLarge)
	}

	now := timeNow().UTC()
	key := objectKey(s.keyPrefix, now, originalName, kind)
	span.SetAttributes(attribute.String("media.storage_key", key), attribute.Int64("media.size", size))

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: uploadContentType(kind, contentType),
		Metadata: map[string]string{
			"original-filename": originalName,
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperr.Storage("failed to upload file", fmt.Errorf("upload to storage: %w", err))
	}

	m := &model.Media{
		ID:           uuid.New().String(),
		MediaURL:     s.store.URL(info.Key),
		StorageKey:   info.Key,
		FileType:     kind,
		OriginalName: originalName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.repo.Create(ctx, m)
	if err != nil {
		span.RecordError(err)
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			s.log.Error("upload rollback failed",
				zap.String("storage_key", info.Key),
				zap.Error(delErr),
			)
			return nil, apperr.Storage("failed to save media",
				fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr))
		}
		return nil, apperr.Storage("failed to save media", fmt.Errorf("db save failed: %w", err))
	}

	s.log.Info("media uploaded",
		zap.String("media_id", stored.ID),
		zap.String("storage_key", stored.StorageKey),
		zap.Int64("size", size),
	)
	return stored, nil
}

func (s *mediaService) Latest(ctx context.Context) (*model.Media, error) {
	ctx, span := tracer.Start(ctx, "MediaService.Latest")
	defer span.End()

	m, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgNoMedia)
		}
		span.RecordError(err)
		return nil, apperr.Storage("failed to load media", err)
	}
	return m, nil
}

func (s *mediaService) Get(ctx context.Context, id string) (*model.Media, error) {
	ctx, span := tracer.Start(ctx, "MediaService.Get")
	defer span.End()

	if err := checkMediaID(id); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *mediaService) find(ctx context.Context, id string) (*model.Media, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound(msgMediaNotFound)
		}
		return nil, apperr.Storage("failed to load media", err)
	}
	return m, nil
}

// Delete removes the blob first, without aborting on failure, then deletes
// settings and media as one unit. A blob that is gone but whose record
// survived is logged with its key so it can be traced.
func (s *mediaService) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "MediaService.Delete")
	defer span.End()

	if err := checkMediaID(id); err != nil {
		return err
	}
	m, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	log := s.log.With(zap.String("media_id", m.ID), zap.String("storage_key", m.StorageKey))

	if err := s.store.Delete(ctx, m.StorageKey); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			log.Warn("blob already missing, continuing delete")
		} else {
			log.Error("blob delete failed, continuing delete", zap.Error(err))
		}
	}

	err = s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Settings.DeleteByMediaID(ctx, m.ID); err != nil {
			return fmt.Errorf("delete settings: %w", err)
		}
		if err := r.Media.Delete(ctx, m.ID); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound(msgMediaNotFound)
		}
		log.Error(msgPartialDelete, zap.Error(err))
		return apperr.Storage(msgPartialDelete, err)
	}

	log.Info("media deleted")
	return nil
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// objectKey builds <prefix>/<unix-millis>-<8 hex>-<base>.<ext>. The random
// part keeps keys unique when two uploads land in the same millisecond.
func objectKey(prefix string, now time.Time, originalName string, kind model.FileKind) string {
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	base = strings.Trim(unsafeKeyChars.ReplaceAllString(base, "-"), "-.")
	if len(base) > maxKeyBaseNameLen {
		base = base[:maxKeyBaseNameLen]
	}
	if base == "" {
		base = "model"
	}
	rnd := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s/%d-%s-%s.%s", prefix, now.UnixMilli(), rnd, base, kind)
}

// uploadContentType keeps a declared glTF media type and otherwise derives it
// from the extension.
func uploadContentType(kind model.FileKind, declared string) string {
	for _, k := range model.FileKinds {
		if declared == k.ContentType() {
			return declared
		}
	}
	return kind.ContentType()
}
