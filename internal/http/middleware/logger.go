package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes one structured line per request with request_id, method,
// path, status and latency_ms. 5xx responses log at error, 4xx at warn.
// Run it after RequestID and inside the error handler's reach so the status
// reflects the rendered error.
func Logger(log *zap.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// The global error handler has not run yet; let it render now so the
			// logged status matches the response.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			status = c.Response().StatusCode()
		}

		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		fields := []zap.Field{
			zap.String("request_id", RequestIDFromCtx(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
		}
		if err != nil && status >= fiber.StatusInternalServerError {
			fields = append(fields, zap.Error(err))
		}
		log.Log(level, "request", fields...)
		return nil
	}
}
