package handler

import (
	"github.com/gofiber/fiber/v2"

	"modelviewer/internal/service"
	"modelviewer/internal/storage"
)

// Deps are the collaborators the REST surface needs. Blobs is optional; when
// set, objects are served under /blobs/*.
type Deps struct {
	Media    service.MediaService
	Settings service.SettingsService
	Health   Pinger
	Blobs    storage.Storage
}

// RegisterRoutes attaches the API routes to app. Unmatched paths and methods
// fall through to Fiber's 404/405 errors, which ErrorHandler renders as 404.
func RegisterRoutes(app *fiber.App, d Deps) {
	app.Get("/health", HealthCheck(d.Health))
	app.Get("/healthz", LivenessProbe())

	media := app.Group("/media")
	media.Post("/upload", UploadMedia(d.Media))
	media.Get("/latest", LatestMedia(d.Media))
	media.Get("/:mediaId", GetMedia(d.Media))
	media.Delete("/:mediaId", DeleteMedia(d.Media))

	app.Post("/settings", SaveSettings(d.Settings))
	app.Get("/settings/:mediaId", ListSettings(d.Settings))

	if d.Blobs != nil {
		app.Get("/blobs/*", ServeBlob(d.Blobs))
	}
}
