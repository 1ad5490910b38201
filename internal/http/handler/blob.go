package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"modelviewer/internal/apperr"
	"modelviewer/internal/storage"
)

// ServeBlob streams an object of store. It backs media URLs when blobs live in
// process memory and no external object store serves them.
func ServeBlob(store storage.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Params("*")
		if key == "" {
			return apperr.NotFound("Object not found")
		}
		rc, info, err := store.Get(c.UserContext(), key)
		if err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				return apperr.NotFound("Object not found")
			}
			return apperr.Storage("failed to read object", err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		// fasthttp closes rc once the body is written.
		return c.SendStream(rc, size)
	}
}
