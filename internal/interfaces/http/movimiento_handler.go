package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// MovimientoHandler maneja el registro de movimientos sobre afiliados.
// El tipo de movimiento lo fija la ruta, no el cuerpo: así un cliente no
// puede registrar un tipo distinto al de la operación que invocó.
type MovimientoHandler struct {
	uc *afiliado.MovimientoUseCase
}

// NewMovimientoHandler construye el handler.
func NewMovimientoHandler(uc *afiliado.MovimientoUseCase) *MovimientoHandler {
	return &MovimientoHandler{uc: uc}
}

// Sueldo POST /api/afiliados/:id/movimientos/sueldo
func (h *MovimientoHandler) Sueldo(c *fiber.Ctx) error {
	return h.registrar(c, entity.MovimientoModificacionSueldo)
}

// Baja POST /api/afiliados/:id/movimientos/baja
func (h *MovimientoHandler) Baja(c *fiber.Ctx) error {
	return h.registrar(c, entity.MovimientoBajaDefinitiva)
}

// Suspension POST /api/afiliados/:id/movimientos/suspension
func (h *MovimientoHandler) Suspension(c *fiber.Ctx) error {
	return h.registrar(c, entity.MovimientoSuspension)
}

// TerminoSuspension POST /api/afiliados/:id/movimientos/termino-suspension
// Con ?baja=true el término de suspensión se combina con baja definitiva.
func (h *MovimientoHandler) TerminoSuspension(c *fiber.Ctx) error {
	tipo := entity.MovimientoTerminoSuspension
	if c.QueryBool("baja") {
		tipo = entity.MovimientoBajaPorTerminoSusp
	}
	return h.registrar(c, tipo)
}

func (h *MovimientoHandler) registrar(c *fiber.Ctx, tipo int) error {
	id, err := paramID(c)
	if err != nil {
		return responderError(c, err)
	}
	scope, err := GetOrgScope(c)
	if err != nil {
		return responderError(c, err)
	}
	var in dto.MovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	var fecha *time.Time
	if in.FechaMovimiento != nil && *in.FechaMovimiento != "" {
		f, err := time.Parse("2006-01-02", *in.FechaMovimiento)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", "fechaMovimiento inválida, se espera AAAA-MM-DD"))
		}
		fecha = &f
	}
	m, err := h.uc.Registrar(c.UserContext(), id, scope, afiliado.MovimientoInput{
		TipoMovimientoID: tipo,
		Sueldo:           in.Sueldo,
		Porcentaje:       in.Porcentaje,
		Monto:            in.Monto,
		FechaMovimiento:  fecha,
		Observaciones:    in.Observaciones,
		QuincenaID:       in.QuincenaID,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Exito(dto.DesdeMovimiento(m)))
}
