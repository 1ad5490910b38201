// Package memory keeps media and settings in process memory. It backs
// STORE_DRIVER=memory for local runs and end-to-end tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"modelviewer/internal/model"
	"modelviewer/internal/repository"
)

// Store implements the media and settings repositories plus a Transactor
// over maps guarded by one mutex.
type Store struct {
	mu       sync.RWMutex
	media    map[string]model.Media
	settings map[string]model.Settings // media id -> settings
}

func NewStore() *Store {
	return &Store{
		media:    make(map[string]model.Media),
		settings: make(map[string]model.Settings),
	}
}

// Media returns the store as a MediaRepository.
func (s *Store) Media() repository.MediaRepository { return mediaRepo{s} }

// Settings returns the store as a SettingsRepository.
func (s *Store) Settings() repository.SettingsRepository { return settingsRepo{s} }

// WithinTx runs fn against the store. Steps are applied as they run.
func (s *Store) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(repository.Repositories{Media: s.Media(), Settings: s.Settings()})
}

var _ repository.Transactor = (*Store)(nil)

type mediaRepo struct{ s *Store }

func (r mediaRepo) Create(_ context.Context, m *model.Media) (*model.Media, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.media[m.ID]; ok {
		return nil, repository.ErrConflict
	}
	r.s.media[m.ID] = *m
	out := *m
	return &out, nil
}

func (r mediaRepo) FindLatest(_ context.Context) (*model.Media, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if len(r.s.media) == 0 {
		return nil, repository.ErrNotFound
	}
	all := make([]model.Media, 0, len(r.s.media))
	for _, m := range r.s.media {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	out := all[0]
	return &out, nil
}

func (r mediaRepo) FindByID(_ context.Context, id string) (*model.Media, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r mediaRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.media, id)
	return nil
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) UpsertByMediaID(_ context.Context, in *model.Settings) (*model.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.media[in.MediaID]; !ok {
		return nil, repository.ErrNotFound
	}
	next := *in
	if prev, ok := r.s.settings[in.MediaID]; ok {
		next.ID = prev.ID
		next.CreatedAt = prev.CreatedAt
	}
	r.s.settings[in.MediaID] = next
	return &next, nil
}

func (r settingsRepo) ListByMediaID(_ context.Context, mediaID string) ([]model.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Settings, 0, 1)
	if st, ok := r.s.settings[mediaID]; ok {
		out = append(out, st)
	}
	return out, nil
}

func (r settingsRepo) DeleteByMediaID(_ context.Context, mediaID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.settings, mediaID)
	return nil
}
