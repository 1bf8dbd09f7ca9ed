package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestDeadline deja en c.UserContext() un contexto con plazo que se cancela al terminar
// el request. fasthttp no avisa cuando el cliente corta la conexión, así que el plazo es lo
// que aborta una transacción colgada.
func RequestDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
