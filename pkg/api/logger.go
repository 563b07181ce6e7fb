package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger returns a middleware writing one structured line per request,
// levelled by response class.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		handlerErr := c.Next()

		status := c.Response().StatusCode()

		var event *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event = event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Int("bytes", len(c.Response().Body())).
			Dur("duration", time.Since(started)).
			Str("ip", c.IP())

		if handlerErr != nil {
			event.Err(handlerErr).Msg("Request failed")
		} else {
			event.Msg("Request served")
		}

		return nil
	}
}
