package viewer

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"modelviewer/internal/apperr"
	"modelviewer/internal/client"
	"modelviewer/internal/model"
)

var (
	// ErrBusy is returned when a conflicting operation is already pending.
	ErrBusy = errors.New("viewer: operation already in progress")
	// ErrNoActiveMedia is returned by operations that need a loaded model.
	ErrNoActiveMedia = errors.New("viewer: no active media")
)

// API is the subset of the REST client the controller calls.
type API interface {
	LatestMedia(ctx context.Context) (*model.Media, error)
	UploadModel(ctx context.Context, filename string, r io.Reader) (*model.Media, error)
	DeleteMedia(ctx context.Context, id string) error
	SaveSettings(ctx context.Context, req client.SaveSettingsRequest) (*model.Settings, error)
	SettingsForMedia(ctx context.Context, id string) ([]model.Settings, error)
}

var _ API = (*client.Client)(nil)

// Controller owns a State and keeps it in sync with the API.
//
// Subscribers are called synchronously, in dispatch order, while the
// controller lock is held. They must not block or call back into the
// controller.
type Controller struct {
	api API
	log *zap.Logger

	mu      sync.Mutex
	state   State
	seq     uint64
	subs    map[int]func(State)
	nextSub int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewController(api API, log *zap.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		api:    api,
		log:    log.Named("viewer"),
		state:  InitialState(),
		subs:   make(map[int]func(State)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change and returns a func that
// removes it.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Mount loads the latest media unless one is already loaded or loading.
// Failures, including an empty library, leave the viewer empty.
func (c *Controller) Mount(ctx context.Context) {
	c.mu.Lock()
	if !ShouldFetchLatest(c.state) {
		c.mu.Unlock()
		return
	}
	c.dispatchLocked(FetchLatestStarted{})
	c.mu.Unlock()

	m, err := c.api.LatestMedia(ctx)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			c.log.Warn("latest media fetch failed", zap.Error(err))
		}
		c.dispatch(FetchLatestFailed{Err: err})
		return
	}
	c.dispatch(FetchLatestSucceeded{Media: *m})
}

// UploadModel uploads r as filename and makes it the active media.
func (c *Controller) UploadModel(ctx context.Context, filename string, r io.Reader) error {
	c.mu.Lock()
	if !CanUpload(c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	c.dispatchLocked(UploadStarted{})
	c.mu.Unlock()

	m, err := c.api.UploadModel(ctx, filename, r)
	if err != nil {
		c.dispatch(UploadFailed{Message: errorText(err)})
		return err
	}
	c.dispatch(UploadSucceeded{Media: *m})
	return nil
}

// DeleteModel deletes the active media. The local model is cleared only
// once the API confirms.
func (c *Controller) DeleteModel(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Media.Active() {
		c.mu.Unlock()
		return ErrNoActiveMedia
	}
	if !CanDelete(c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	id := c.state.Media.ID
	c.dispatchLocked(DeleteStarted{})
	c.mu.Unlock()

	if err := c.api.DeleteMedia(ctx, id); err != nil {
		c.dispatch(DeleteFailed{Message: errorText(err)})
		return err
	}
	c.dispatch(DeleteSucceeded{MediaID: id})
	return nil
}

// SaveSettings persists the in-memory settings for the active media.
func (c *Controller) SaveSettings(ctx context.Context) error {
	c.mu.Lock()
	if !c.state.Media.Active() {
		c.mu.Unlock()
		return ErrNoActiveMedia
	}
	if !CanSave(c.state) {
		c.mu.Unlock()
		return ErrBusy
	}
	v := c.state.Settings.Values
	req := client.SaveSettingsRequest{
		MediaID:         c.state.Media.ID,
		BackgroundColor: v.BackgroundColor,
		WireframeMode:   v.Wireframe,
		MaterialType:    v.MaterialKind,
		HDRIPreset:      v.EnvironmentPreset,
	}
	c.dispatchLocked(SaveStarted{})
	c.mu.Unlock()

	s, err := c.api.SaveSettings(ctx, req)
	if err != nil {
		c.dispatch(SaveFailed{Message: errorText(err)})
		return err
	}
	c.dispatch(SaveSucceeded{Settings: *s})
	return nil
}

// SetLocalSettings replaces the in-memory settings without a network call.
func (c *Controller) SetLocalSettings(p model.Preferences) {
	c.dispatch(SetLocalSettings{Values: p})
}

// ClearError dismisses the last error.
func (c *Controller) ClearError() {
	c.dispatch(ClearError{})
}

// Wait blocks until background settings fetches have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels background fetches and waits for them.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}

func (c *Controller) dispatch(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked(a)
}

// dispatchLocked reduces a, notifies subscribers and starts a settings fetch
// when the active media changed. c.mu must be held.
func (c *Controller) dispatchLocked(a Action) {
	prev := c.state
	c.state = Reduce(prev, a)
	c.notifyLocked()

	if id := c.state.Media.ID; id != prev.Media.ID && id != "" {
		c.seq++
		tag := FetchTag{MediaID: id, Seq: c.seq}
		c.state = Reduce(c.state, SettingsFetchStarted{Tag: tag})
		c.notifyLocked()
		c.wg.Add(1)
		go c.fetchSettings(tag)
	}
}

func (c *Controller) notifyLocked() {
	for _, fn := range c.subs {
		fn(c.state)
	}
}

func (c *Controller) fetchSettings(tag FetchTag) {
	defer c.wg.Done()

	list, err := c.api.SettingsForMedia(c.ctx, tag.MediaID)

	var a Action
	switch {
	case err == nil && len(list) > 0:
		a = SettingsFetchSucceeded{Tag: tag, Settings: list[0]}
	case err == nil || apperr.KindOf(err) == apperr.KindNotFound:
		a = SettingsFetchNotFound{Tag: tag}
	default:
		a = SettingsFetchFailed{Tag: tag, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !FetchIsCurrent(c.state, tag) {
		c.log.Debug("stale settings response dropped",
			zap.String("media_id", tag.MediaID), zap.Uint64("seq", tag.Seq))
		return
	}
	if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
		c.log.Warn("settings fetch failed", zap.String("media_id", tag.MediaID), zap.Error(err))
	}
	c.dispatchLocked(a)
}

// errorText is the banner text for err: the API message when classified,
// the raw error otherwise.
func errorText(err error) string {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return apperr.Message(err)
	}
	return err.Error()
}
