package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalOrg0   = "org0"
	LocalOrg1   = "org1"
	LocalOrg2   = "org2"
	LocalOrg3   = "org3"
)

// AuthMiddleware valida el Bearer Token JWT y carga usuario, rol y ámbito
// orgánico a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("MISSING_TOKEN", "Authorization header requerido"))
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("INVALID_TOKEN", "formato: Bearer <token>"))
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("MISSING_TOKEN", "token vacío"))
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("INVALID_TOKEN", "token inválido o expirado"))
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalOrg0, claims.Org0)
		c.Locals(LocalOrg1, claims.Org1)
		c.Locals(LocalOrg2, claims.Org2)
		c.Locals(LocalOrg3, claims.Org3)
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados (después del middleware de
// auth). Token sin rol es 401; rol no permitido es 403.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fallo("MISSING_ROLE", "el token no incluye rol"))
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.Fallo("FORBIDDEN", "rol sin permiso para esta operación"))
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// GetOrgScope arma el ámbito orgánico del token. Org0 y Org1 son
// obligatorios: sin ellos devuelve ErrSinOrganica y el handler responde 403.
func GetOrgScope(c *fiber.Ctx) (entity.OrgScope, error) {
	scope := entity.OrgScope{
		Org0: localString(c, LocalOrg0),
		Org1: localString(c, LocalOrg1),
	}
	if scope.Org0 == "" || scope.Org1 == "" {
		return entity.OrgScope{}, domain.ErrSinOrganica
	}
	if org2 := localString(c, LocalOrg2); org2 != "" {
		scope.Org2 = &org2
	}
	if org3 := localString(c, LocalOrg3); org3 != "" {
		scope.Org3 = &org3
	}
	return scope, nil
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
