package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Donaciones-api/internal/interfaces/http"
)

func TestRequestDeadline_ContextoConPlazoYCancelado(t *testing.T) {
	var seen context.Context
	app := fiber.New()
	app.Use(apphttp.RequestDeadline(time.Minute))
	app.Get("/x", func(c *fiber.Ctx) error {
		seen = c.UserContext()
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NotNil(t, seen)
	_, ok := seen.Deadline()
	assert.True(t, ok, "el handler recibe un contexto con plazo")
	assert.ErrorIs(t, seen.Err(), context.Canceled, "se cancela al terminar el request")
}

func TestRequestDeadline_VencidoCortaLaOperacion(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Use(apphttp.RequestDeadline(10 * time.Millisecond))
	app.Get("/lento", func(c *fiber.Ctx) error {
		select {
		case <-c.UserContext().Done():
			return c.UserContext().Err()
		case <-time.After(5 * time.Second):
			return c.SendStatus(fiber.StatusOK)
		}
	})

	start := time.Now()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/lento", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Less(t, time.Since(start), 2*time.Second)
}
