package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"

	"github.com/meikuraledutech/pipeline/config"
)

// newRequestID tags every request with a random UUID, reusing one sent by
// the client in X-Request-ID.
func newRequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	})
}

// requestLogger logs one line per request once the error handler has
// produced the final status.
func requestLogger(logger *log.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		status := c.Response().StatusCode()
		kv := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", requestid.FromContext(c),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", kv...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}
		return nil
	}
}

// newCORS builds the cross-origin middleware from the configured policy.
// A wildcard origin with credentials cannot be sent as "*", so the
// request origin is reflected instead.
func newCORS(c config.CORS) fiber.Handler {
	cc := cors.Config{
		AllowMethods:     c.AllowMethods,
		AllowHeaders:     c.AllowHeaders,
		ExposeHeaders:    c.ExposeHeaders,
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	}
	switch {
	case c.AllowsAnyOrigin() && c.AllowCredentials:
		cc.AllowOriginsFunc = func(string) bool { return true }
	case c.AllowsAnyOrigin():
		cc.AllowOrigins = []string{"*"}
	default:
		cc.AllowOrigins = c.AllowOrigins
	}
	return cors.New(cc)
}
