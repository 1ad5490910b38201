package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

func TestStore_MediaLatestTieBreak(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Media().Create(ctx, &model.Media{ID: "a", CreatedAt: at})
	require.NoError(t, err)
	_, err = s.Media().Create(ctx, &model.Media{ID: "b", CreatedAt: at})
	require.NoError(t, err)

	got, err := s.Media().FindLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got.ID)

	_, err = s.Media().Create(ctx, &model.Media{ID: "a"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestStore_SettingsUpsertKeepsOneRecord(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.Media().Create(ctx, &model.Media{ID: "m"})
	require.NoError(t, err)

	first, err := s.Settings().UpsertByMediaID(ctx, &model.Settings{ID: "s1", MediaID: "m", BackgroundColor: "#111111"})
	require.NoError(t, err)
	second, err := s.Settings().UpsertByMediaID(ctx, &model.Settings{ID: "s2", MediaID: "m", BackgroundColor: "#222222"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	list, err := s.Settings().ListByMediaID(ctx, "m")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "#222222", list[0].BackgroundColor)
}

func TestStore_SettingsRequireMedia(t *testing.T) {
	_, err := NewStore().Settings().UpsertByMediaID(context.Background(), &model.Settings{MediaID: "ghost"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _ = s.Media().Create(ctx, &model.Media{ID: "m"})
	_, _ = s.Settings().UpsertByMediaID(ctx, &model.Settings{MediaID: "m"})

	err := s.WithinTx(ctx, func(r repository.Repositories) error {
		if err := r.Settings.DeleteByMediaID(ctx, "m"); err != nil {
			return err
		}
		return r.Media.Delete(ctx, "m")
	})
	require.NoError(t, err)

	_, err = s.Media().FindByID(ctx, "m")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	list, _ := s.Settings().ListByMediaID(ctx, "m")
	assert.Empty(t, list)
	assert.ErrorIs(t, s.Media().Delete(ctx, "m"), repository.ErrNotFound)
}
