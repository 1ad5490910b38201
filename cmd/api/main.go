package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"modelviewer/docs"
	"modelviewer/internal/config"
	"modelviewer/internal/database"
	"modelviewer/internal/database/migration"
	handlers "modelviewer/internal/http/handler"
	"modelviewer/internal/http/middleware"
	"modelviewer/internal/logger"
	"modelviewer/internal/otel"
	"modelviewer/internal/repository"
	"modelviewer/internal/repository/memory"
	"modelviewer/internal/repository/mongodb"
	"modelviewer/internal/repository/postgres"
	"modelviewer/internal/service"
	"modelviewer/internal/storage"
)

// backend is the persistence side selected by STORE_DRIVER.
type backend struct {
	media    repository.MediaRepository
	settings repository.SettingsRepository
	tx       repository.Transactor
	health   handlers.Pinger
	close    func(context.Context) error
}

// @title 3D Model Viewer API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, lg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			lg.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	be, err := openStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer func() {
		if err := be.close(context.Background()); err != nil {
			lg.Warn("store close failed", zap.Error(err))
		}
	}()

	objStore, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init object storage: %w", err)
	}

	mediaSvc := service.NewMediaService(objStore, be.media, be.tx, lg,
		service.WithMaxUploadBytes(cfg.Upload.MaxBytes),
		service.WithKeyPrefix(cfg.Upload.KeyPrefix),
	)
	settingsSvc := service.NewSettingsService(be.settings, be.media, lg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(cfg.IsDevelopment()),
		BodyLimit:    bodyLimit(cfg.Upload.MaxBytes),
	})

	// RequestID first so every later middleware and log line can see it
	app.Use(middleware.RequestID())
	app.Use(metrics.Handler())
	app.Use(middleware.Logger(lg))
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	deps := handlers.Deps{Media: mediaSvc, Settings: settingsSvc, Health: be.health}
	if cfg.StorageDriver == "memory" {
		deps.Blobs = objStore
	}
	handlers.RegisterRoutes(app, deps)

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server starting",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.String("storage", cfg.StorageDriver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// bodyLimit is the request body cap for an upload limit of maxBytes. It
// leaves room for multipart framing; the service enforces the exact limit.
// Fiber treats zero as its 4 MiB default, so a disabled limit maps to MaxInt.
func bodyLimit(maxBytes int64) int {
	if maxBytes <= 0 || maxBytes > math.MaxInt-multipartOverhead {
		return math.MaxInt
	}
	return int(maxBytes) + multipartOverhead
}

const multipartOverhead = 1 << 20

func openStore(ctx context.Context, cfg *config.AppConfig, lg *zap.Logger) (*backend, error) {
	switch cfg.StoreDriver {
	case "postgres":
		// PostgreSQL with pooling via database/sql
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, lg, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		return &backend{
			media:    postgres.NewMediaPostgres(db),
			settings: postgres.NewSettingsPostgres(db),
			tx:       postgres.NewTransactor(db),
			health:   db,
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case "mongo":
		client, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		mdb := client.Database(cfg.Mongo.Database)
		media := mongodb.NewMediaMongo(mdb.Collection(cfg.Mongo.MediaCollection))
		settings := mongodb.NewSettingsMongo(mdb.Collection(cfg.Mongo.SettingsCollection))
		for _, ensure := range []func(context.Context) error{media.EnsureIndexes, settings.EnsureIndexes} {
			if err := ensure(ctx); err != nil {
				_ = client.Disconnect(context.Background())
				return nil, fmt.Errorf("ensure mongo indexes: %w", err)
			}
		}
		return &backend{
			media:    media,
			settings: settings,
			tx:       mongodb.NewTransactor(media, settings),
			health: handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
			close: client.Disconnect,
		}, nil

	case "memory":
		lg.Warn("using in-memory store, data is lost on restart")
		s := memory.NewStore()
		return &backend{
			media:    s.Media(),
			settings: s.Settings(),
			tx:       s,
			health:   handlers.PingFunc(func(context.Context) error { return nil }),
			close:    func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openStorage(ctx context.Context, cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case "minio":
		// Reusable S3-compatible object storage client (MinIO)
		return storage.NewMinIO(ctx, cfg.MinIO)
	case "s3":
		return storage.NewS3(ctx, cfg.S3)
	case "memory":
		return storage.NewMemory("http://localhost:" + cfg.Port + "/blobs"), nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
