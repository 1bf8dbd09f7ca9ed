package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Donaciones-api/internal/application/dto"
	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/pkg/jwt"
)

// Locals keys para UserID y Role en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// Roles reconocidos.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleViewer = "viewer"
)

// AuthMiddleware valida el Bearer Token JWT y extrae UserID y Role a c.Locals.
func AuthMiddleware(jwtSecret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		userID, role, err := jwt.Parse(jwtSecret, issuer, tokenString)
		if err != nil || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Va después de AuthMiddleware.
// Token sin rol: 401 MISSING_ROLE. Rol no permitido: 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no trae rol"})
		}
		if !allowed[role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

func actorFrom(c *fiber.Ctx) inventory.Actor {
	return inventory.Actor{ID: GetUserID(c), Role: GetRole(c)}
}
