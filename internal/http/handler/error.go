package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"modelviewer/internal/apperr"
)

// errorPayload is the error body of every failed request.
type errorPayload struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Stack      string `json:"stack,omitempty"`
}

// ErrorHandler returns the Fiber global error handler. Classified errors keep
// their message; anything else is reported as an internal error. In
// development mode the full error chain is added as "stack".
func ErrorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := classify(err)
		res := errorPayload{
			Success:    false,
			StatusCode: status,
			Message:    msg,
		}
		if dev {
			res.Stack = err.Error()
		}
		return c.Status(status).JSON(res)
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		// A known path with the wrong method is still an unmatched route.
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return fiber.StatusNotFound, "Route not found"
		case fiber.StatusRequestEntityTooLarge:
			return fiber.StatusBadRequest, "File size exceeds the maximum limit"
		}
		return fe.Code, fe.Message
	}
	return apperr.HTTPStatus(err), apperr.Message(err)
}
