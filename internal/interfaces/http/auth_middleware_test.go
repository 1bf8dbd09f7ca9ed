package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Donaciones-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Donaciones-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "donaciones-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con AuthMiddleware + RequireRole
// y un handler dummy que devuelve 200 si pasa los middlewares.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, apphttp.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_StaffAccedeRutaOperador(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin, apphttp.RoleStaff)
	resp := doRequest(t, app, tokenForRole(t, apphttp.RoleStaff))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_ViewerBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, apphttp.RoleViewer))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_EmisorDistinto_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RoleAdmin)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, apphttp.RoleAdmin, "otro-emisor", testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, testIssuer), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleStaff))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "staff", body["role"])
}
