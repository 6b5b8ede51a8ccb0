package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/domain"
)

// responderError traduce errores de dominio al envelope y código HTTP.
// El mapeo es estable: los clientes ramifican por error.code, no por mensaje.
func responderError(c *fiber.Ctx, err error) error {
	var dup *domain.DuplicadoError
	if errors.As(err, &dup) {
		return c.Status(fiber.StatusConflict).JSON(dto.Fallo("AFILIADO_ALREADY_EXISTS", dup.Error()))
	}
	var reg *domain.RegistroError
	if errors.As(err, &reg) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fallo("REGISTRO_FALLIDO", reg.Error()))
	}
	switch {
	case errors.Is(err, domain.ErrNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fallo("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrSinOrganica):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fallo("ORG_SCOPE_MISSING", "el token no incluye ámbito orgánico (org0/org1)"))
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", "entrada inválida"))
	case errors.Is(err, domain.ErrEstatusInvalido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", "estatus fuera del catálogo"))
	case errors.Is(err, domain.ErrNominaNoDisponible):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Fallo("NOMINA_UNAVAILABLE", "motor de nómina no disponible"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fallo("INTERNAL", err.Error()))
	}
}
