// Package service holds the media and settings use cases. Services translate
// repository and storage failures into apperr kinds; handlers render them.
package service

import (
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"modelviewer/internal/apperr"
)

var tracer trace.Tracer = otel.Tracer("modelviewer/internal/service")

// timeNow is swapped by tests that need a fixed clock.
var timeNow = time.Now

// checkMediaID rejects empty and non-UUID ids before any store is touched.
func checkMediaID(id string) error {
	if id == "" {
		return apperr.Validation("media id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperr.Validation("invalid media id")
	}
	return nil
}
