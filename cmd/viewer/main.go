// Command viewer is a headless viewer client. It keeps the render state of
// the latest model in sync with a running API and logs what a rasterizer
// would draw.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"modelviewer/internal/client"
	"modelviewer/internal/config"
	"modelviewer/internal/logger"
	"modelviewer/internal/model"
	"modelviewer/internal/render"
	"modelviewer/internal/viewer"
)

type options struct {
	apiURL    string
	upload    string
	color     string
	material  string
	preset    string
	wireframe string
	save      bool
	remove    bool
}

func main() {
	cfg := config.Load()

	var o options
	flag.StringVar(&o.apiURL, "api", cfg.Client.BaseURL, "API base URL")
	flag.StringVar(&o.upload, "upload", "", "path of a .glb or .gltf file to upload")
	flag.StringVar(&o.color, "background", "", "background colour, e.g. #202020")
	flag.StringVar(&o.material, "material", "", "material: standard, metallic, plastic or leather")
	flag.StringVar(&o.preset, "environment", "", "environment preset, e.g. studio")
	flag.StringVar(&o.wireframe, "wireframe", "", "true or false")
	flag.BoolVar(&o.save, "save", false, "save the settings of the active model")
	flag.BoolVar(&o.remove, "delete", false, "delete the active model")
	flag.Parse()

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	cfg.Client.BaseURL = o.apiURL
	if err := run(cfg, o, lg); err != nil {
		lg.Error("viewer failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, o options, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := viewer.NewController(client.New(cfg.Client), lg)
	defer ctrl.Close()

	viewport := render.NewViewport(render.NewHTTPLoader(nil), logSurface{lg.Named("surface")}, lg)

	// Latest state wins; the renderer skips intermediate states it could not keep up with.
	updates := make(chan viewer.State, 1)
	unsubscribe := ctrl.Subscribe(func(s viewer.State) {
		select {
		case <-updates:
		default:
		}
		updates <- s
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for s := range updates {
			if err := viewport.Update(ctx, s.Media.URL, s.Settings.Values); err != nil {
				lg.Warn("render update failed", zap.Error(err))
			}
		}
	}()
	defer func() {
		unsubscribe()
		close(updates)
		wg.Wait()
	}()

	ctrl.Mount(ctx)

	if o.upload != "" {
		f, err := os.Open(o.upload)
		if err != nil {
			return fmt.Errorf("open model: %w", err)
		}
		err = ctrl.UploadModel(ctx, filepath.Base(o.upload), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("upload: %w", err)
		}
	}
	ctrl.Wait()

	prefs, changed, err := applyFlags(ctrl.State().Settings.Values, o)
	if err != nil {
		return err
	}
	if changed {
		ctrl.SetLocalSettings(prefs)
	}
	if o.save {
		if err := ctrl.SaveSettings(ctx); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	if o.remove {
		if err := ctrl.DeleteModel(ctx); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}
	ctrl.Wait()

	s := ctrl.State()
	if !s.Media.Active() {
		lg.Info("no model loaded")
		return nil
	}
	lg.Info("viewer state",
		zap.String("media_id", s.Media.ID),
		zap.String("media_url", s.Media.URL),
		zap.String("background", s.Settings.Values.BackgroundColor),
		zap.String("material", string(s.Settings.Values.MaterialKind)),
		zap.String("environment", string(s.Settings.Values.EnvironmentPreset)),
		zap.Bool("wireframe", s.Settings.Values.Wireframe))
	return nil
}

// applyFlags overlays the settings flags on p.
func applyFlags(p model.Preferences, o options) (model.Preferences, bool, error) {
	changed := false
	if o.color != "" {
		if !model.ValidColor(o.color) {
			return p, false, fmt.Errorf("invalid -background %q", o.color)
		}
		p.BackgroundColor = o.color
		changed = true
	}
	if o.material != "" {
		if !model.MaterialKind(o.material).Valid() {
			return p, false, fmt.Errorf("invalid -material %q", o.material)
		}
		p.MaterialKind = model.MaterialKind(o.material)
		changed = true
	}
	if o.preset != "" {
		if !model.EnvironmentPreset(o.preset).Valid() {
			return p, false, fmt.Errorf("invalid -environment %q", o.preset)
		}
		p.EnvironmentPreset = model.EnvironmentPreset(o.preset)
		changed = true
	}
	switch o.wireframe {
	case "":
	case "true":
		p.Wireframe, changed = true, true
	case "false":
		p.Wireframe, changed = false, true
	default:
		return p, false, errors.New("-wireframe must be true or false")
	}
	return p, changed, nil
}

// logSurface stands in for a rasterizer.
type logSurface struct {
	log *zap.Logger
}

func (s logSurface) SetClearColor(c render.Color) {
	s.log.Debug("clear colour", zap.Float64("r", c.R), zap.Float64("g", c.G), zap.Float64("b", c.B))
}

func (s logSurface) SetEnvironment(e render.Environment) {
	s.log.Debug("environment", zap.String("preset", string(e.Preset)), zap.String("file", e.File))
}

func (s logSurface) Present(scene *render.Scene) error {
	n := 0
	scene.Meshes(func(*render.Mesh) { n++ })
	s.log.Info("frame", zap.Int("meshes", n))
	return nil
}
