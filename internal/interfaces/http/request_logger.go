package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// RequestLogger registra método, ruta, status, latencia y actor de cada petición.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			// el ErrorHandler todavía no escribió la respuesta
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("actor", GetUserID(c)).
			Msg("request")
		return err
	}
}
