package render

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"modelviewer/internal/model"
)

// Loader fetches and decodes the model at url.
type Loader interface {
	Load(ctx context.Context, url string) (*Scene, error)
}

// Surface is the rasterizer the viewport drives.
type Surface interface {
	SetClearColor(c Color)
	SetEnvironment(e Environment)
	// Present shows s. A nil scene clears the view.
	Present(s *Scene) error
}

// Viewport keeps a Surface in line with the active model and preferences.
// It is not safe for concurrent use.
type Viewport struct {
	loader  Loader
	surface Surface
	log     *zap.Logger

	url   string
	scene *Scene
}

func NewViewport(loader Loader, surface Surface, log *zap.Logger) *Viewport {
	return &Viewport{loader: loader, surface: surface, log: log.Named("render")}
}

// Update reloads the scene when url differs from the last call and
// re-applies prefs on every call. An empty url clears the scene.
func (v *Viewport) Update(ctx context.Context, url string, prefs model.Preferences) error {
	p := Derive(prefs)
	v.surface.SetClearColor(p.Background)
	v.surface.SetEnvironment(p.Environment)

	if url != v.url {
		v.url = url
		v.scene = nil
		if url != "" {
			s, err := v.loader.Load(ctx, url)
			if err != nil {
				v.url = ""
				_ = v.surface.Present(nil)
				return fmt.Errorf("load model: %w", err)
			}
			v.scene = s
			v.log.Info("model loaded", zap.String("url", url))
		}
	}

	n := Apply(v.scene, p)
	v.log.Debug("scene updated",
		zap.Int("meshes", n),
		zap.String("environment", string(p.Environment.Preset)),
		zap.Bool("wireframe", p.Wireframe))

	return v.surface.Present(v.scene)
}

// Scene returns the currently loaded scene, nil when none.
func (v *Viewport) Scene() *Scene { return v.scene }
