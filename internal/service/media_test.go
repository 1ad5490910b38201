package service

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"modelviewer/internal/apperr"
	"modelviewer/internal/model"
	"modelviewer/internal/repository"
	repoMocks "modelviewer/internal/repository/mocks"
	"modelviewer/internal/storage"
	storeMocks "modelviewer/internal/storage/mocks"
)

const mediaID = "7d0c6f2e-2b9a-4a57-9f55-0e4c4f3a8b21"

var keyPattern = regexp.MustCompile(`^3d-models/\d+-[0-9a-f]{8}-chair\.glb$`)

func echoKey(_ context.Context, key string, _ io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
	return storage.ObjectInfo{Key: key}
}

func TestMediaService_Upload(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		originalName string
		contentType  string
		size         int64
		nilReader    bool
		setupMocks   func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader)
		wantKind     apperr.Kind
		wantErrMsg   string
	}{
		{
			name:         "happy path",
			originalName: "chair.glb",
			contentType:  "application/octet-stream",
			size:         4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader) {
				mStore.On("Put", mock.Anything, mock.MatchedBy(keyPattern.MatchString), r, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
					return o.Size == 4 && o.ContentType == "model/gltf-binary" && o.Metadata["original-filename"] == "chair.glb"
				})).Return(echoKey, nil)
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Media) bool {
					return m.ID != "" &&
						m.FileType == model.FileKindGLB &&
						m.OriginalName == "chair.glb" &&
						m.MediaURL == "http://blob.test/"+m.StorageKey &&
						!m.CreatedAt.IsZero()
				})).Return(&model.Media{ID: mediaID}, nil)
			},
		},
		{
			name:         "extension is case-insensitive",
			originalName: "scene.GLTF",
			size:         2,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader) {
				mStore.On("Put", mock.Anything, mock.MatchedBy(func(k string) bool { return strings.HasSuffix(k, "-scene.gltf") }), r,
					mock.MatchedBy(func(o storage.PutObjectOptions) bool { return o.ContentType == "model/gltf+json" })).
					Return(echoKey, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(&model.Media{ID: mediaID}, nil)
			},
		},
		{
			name:         "no file",
			originalName: "chair.glb",
			nilReader:    true,
			wantKind:     apperr.KindValidation,
			wantErrMsg:   "No file uploaded",
		},
		{
			name:         "disallowed extension",
			originalName: "chair.obj",
			size:         4,
			wantKind:     apperr.KindValidation,
			wantErrMsg:   "Only .glb and .gltf files are allowed",
		},
		{
			name:         "missing extension",
			originalName: "chair",
			size:         4,
			wantKind:     apperr.KindValidation,
			wantErrMsg:   "Only .glb and .gltf files are allowed",
		},
		{
			name:         "too large",
			originalName: "chair.glb",
			size:         1 << 20,
			wantKind:     apperr.KindValidation,
			wantErrMsg:   "File size exceeds the maximum limit",
		},
		{
			name:         "storage error",
			originalName: "chair.glb",
			size:         4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader) {
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("storage fail"))
			},
			wantKind:   apperr.KindStorage,
			wantErrMsg: "upload to storage: storage fail",
		},
		{
			name:         "repository error with successful rollback",
			originalName: "chair.glb",
			size:         4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader) {
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).Return(echoKey, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.MatchedBy(keyPattern.MatchString)).Return(nil)
			},
			wantKind:   apperr.KindStorage,
			wantErrMsg: "db save failed: db fail",
		},
		{
			name:         "repository error with failed rollback",
			originalName: "chair.glb",
			size:         4,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, r io.Reader) {
				mStore.On("Put", mock.Anything, mock.Anything, r, mock.Anything).Return(echoKey, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
			},
			wantKind:   apperr.KindStorage,
			wantErrMsg: "rollback delete failed: delete fail",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockMediaRepository)
			svc := NewMediaService(mStore, mRepo, new(repoMocks.MockTransactor), zap.NewNop(), WithMaxUploadBytes(1024))

			var r io.Reader
			if !tt.nilReader {
				r = strings.NewReader("glTF")
			}
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo, r)
			}

			m, err := svc.Upload(ctx, r, tt.originalName, tt.contentType, tt.size)

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, m)
			} else {
				require.NoError(t, err)
				assert.Equal(t, mediaID, m.ID)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestObjectKey(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	k1 := objectKey("3d-models", at, "My Chair (v2).glb", model.FileKindGLB)
	k2 := objectKey("3d-models", at, "My Chair (v2).glb", model.FileKindGLB)

	assert.Regexp(t, `^3d-models/1700000000123-[0-9a-f]{8}-My-Chair-v2\.glb$`, k1)
	assert.NotEqual(t, k1, k2)
	assert.Regexp(t, `-model\.gltf$`, objectKey("p", at, "???.gltf", model.FileKindGLTF))
}

func TestMediaService_Latest(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		repoErr  error
		wantKind apperr.Kind
		wantMsg  string
	}{
		{name: "happy path"},
		{name: "empty store", repoErr: repository.ErrNotFound, wantKind: apperr.KindNotFound, wantMsg: "No media found"},
		{name: "engine error", repoErr: errors.New("conn reset"), wantKind: apperr.KindStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockMediaRepository)
			if tt.repoErr != nil {
				mRepo.On("FindLatest", mock.Anything).Return(nil, tt.repoErr)
			} else {
				mRepo.On("FindLatest", mock.Anything).Return(&model.Media{ID: mediaID}, nil)
			}
			svc := NewMediaService(nil, mRepo, nil, zap.NewNop())

			m, err := svc.Latest(ctx)
			if tt.repoErr != nil {
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				if tt.wantMsg != "" {
					assert.Equal(t, tt.wantMsg, apperr.Message(err))
				}
				assert.Nil(t, m)
			} else {
				require.NoError(t, err)
				assert.Equal(t, mediaID, m.ID)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestMediaService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockMediaRepository)
		mRepo.On("FindByID", mock.Anything, mediaID).Return(&model.Media{ID: mediaID}, nil)

		m, err := NewMediaService(nil, mRepo, nil, zap.NewNop()).Get(ctx, mediaID)
		require.NoError(t, err)
		assert.Equal(t, mediaID, m.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockMediaRepository)
		mRepo.On("FindByID", mock.Anything, mediaID).Return(nil, repository.ErrNotFound)

		_, err := NewMediaService(nil, mRepo, nil, zap.NewNop()).Get(ctx, mediaID)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
		assert.Equal(t, "Media not found", apperr.Message(err))
	})

	t.Run("malformed id never reaches the store", func(t *testing.T) {
		mRepo := new(repoMocks.MockMediaRepository)

		_, err := NewMediaService(nil, mRepo, nil, zap.NewNop()).Get(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "invalid media id", apperr.Message(err))
		mRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestMediaService_Delete(t *testing.T) {
	ctx := context.Background()
	stored := &model.Media{ID: mediaID, StorageKey: "3d-models/1-abcd1234-chair.glb"}

	tests := []struct {
		name       string
		id         string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor)
		wantKind   apperr.Kind
		wantMsg    string
		wantLog    string
		wantLevel  zapcore.Level
	}{
		{
			name: "happy path",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(stored, nil)
				mStore.On("Delete", mock.Anything, stored.StorageKey).Return(nil)
				tx.On("WithinTx", mock.Anything).Return(nil)
				mSettings.On("DeleteByMediaID", mock.Anything, mediaID).Return(nil)
				mRepo.On("Delete", mock.Anything, mediaID).Return(nil)
			},
			wantLog:   "media deleted",
			wantLevel: zapcore.InfoLevel,
		},
		{
			name: "blob already missing is a warning",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(stored, nil)
				mStore.On("Delete", mock.Anything, stored.StorageKey).Return(storage.ErrObjectNotFound)
				tx.On("WithinTx", mock.Anything).Return(nil)
				mSettings.On("DeleteByMediaID", mock.Anything, mediaID).Return(nil)
				mRepo.On("Delete", mock.Anything, mediaID).Return(nil)
			},
			wantLog:   "blob already missing, continuing delete",
			wantLevel: zapcore.WarnLevel,
		},
		{
			name: "blob delete failure does not abort",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(stored, nil)
				mStore.On("Delete", mock.Anything, stored.StorageKey).Return(errors.New("timeout"))
				tx.On("WithinTx", mock.Anything).Return(nil)
				mSettings.On("DeleteByMediaID", mock.Anything, mediaID).Return(nil)
				mRepo.On("Delete", mock.Anything, mediaID).Return(nil)
			},
			wantLog:   "blob delete failed, continuing delete",
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name: "record delete failure is a partial failure",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(stored, nil)
				mStore.On("Delete", mock.Anything, stored.StorageKey).Return(nil)
				tx.On("WithinTx", mock.Anything).Return(nil)
				mSettings.On("DeleteByMediaID", mock.Anything, mediaID).Return(nil)
				mRepo.On("Delete", mock.Anything, mediaID).Return(errors.New("db fail"))
			},
			wantKind:  apperr.KindStorage,
			wantMsg:   "media deletion partially failed",
			wantLog:   "media deletion partially failed",
			wantLevel: zapcore.ErrorLevel,
		},
		{
			name: "begin failure is a partial failure",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(stored, nil)
				mStore.On("Delete", mock.Anything, stored.StorageKey).Return(nil)
				tx.On("WithinTx", mock.Anything).Return(errors.New("begin tx: conn refused"))
			},
			wantKind: apperr.KindStorage,
			wantMsg:  "media deletion partially failed",
		},
		{
			name: "not found",
			id:   mediaID,
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockMediaRepository, mSettings *repoMocks.MockSettingsRepository, tx *repoMocks.MockTransactor) {
				mRepo.On("FindByID", mock.Anything, mediaID).Return(nil, repository.ErrNotFound)
			},
			wantKind: apperr.KindNotFound,
			wantMsg:  "Media not found",
		},
		{
			name:     "malformed id",
			id:       "42",
			wantKind: apperr.KindValidation,
			wantMsg:  "invalid media id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockMediaRepository)
			mSettings := new(repoMocks.MockSettingsRepository)
			tx := &repoMocks.MockTransactor{Repos: repository.Repositories{Media: mRepo, Settings: mSettings}}
			if tt.setupMocks != nil {
				tt.setupMocks(mStore, mRepo, mSettings, tx)
			}

			core, logs := observer.New(zapcore.DebugLevel)
			svc := NewMediaService(mStore, mRepo, tx, zap.New(core))

			err := svc.Delete(ctx, tt.id)

			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))
				assert.Equal(t, tt.wantMsg, apperr.Message(err))
			} else {
				assert.NoError(t, err)
			}
			if tt.wantLog != "" {
				entries := logs.FilterMessage(tt.wantLog).All()
				require.Len(t, entries, 1)
				assert.Equal(t, tt.wantLevel, entries[0].Level)
				assert.Equal(t, stored.StorageKey, entries[0].ContextMap()["storage_key"])
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
			mSettings.AssertExpectations(t)
			tx.AssertExpectations(t)
		})
	}
}
