package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/application/quincena"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// QuincenaHandler expone el libro de quincenas.
type QuincenaHandler struct {
	resolver *quincena.Resolver
}

// NewQuincenaHandler construye el handler.
func NewQuincenaHandler(resolver *quincena.Resolver) *QuincenaHandler {
	return &QuincenaHandler{resolver: resolver}
}

// Actual GET /api/quincenas/actual
// Devuelve el renglón vigente del libro para el ámbito del token.
func (h *QuincenaHandler) Actual(c *fiber.Ctx) error {
	scope, err := GetOrgScope(c)
	if err != nil {
		return responderError(c, err)
	}
	actual, err := h.resolver.Actual(c.UserContext(), scope)
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.Exito(dto.QuincenaActualResponse{
		Quincena:           actual.Quincena,
		Anio:               actual.Anio,
		Accion:             actual.Accion,
		AfiliadosCompletos: actual.AfiliadosCompletos,
		QuincenaID:         entity.QuincenaID(actual.Quincena, actual.Anio),
	}))
}
