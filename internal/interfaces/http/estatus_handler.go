package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
)

// acciones mapea las acciones de la ruta al estatus destino. "inicial"
// regresa cualquier estado a Registrado; a AplicadoNomina solo se llega por
// la aplicación masiva de quincena, nunca por esta ruta.
var acciones = map[string]int{
	"registrar": entity.EstatusRegistrado,
	"aprobar":   entity.EstatusAprobado,
	"revision":  entity.EstatusEnRevision,
	"rechazar":  entity.EstatusRechazado,
	"suspender": entity.EstatusSuspendido,
	"cancelar":  entity.EstatusCancelado,
	"inicial":   entity.EstatusRegistrado,
}

// EstatusHandler maneja las transiciones de estatus de afiliados.
type EstatusHandler struct {
	uc *afiliado.EstatusUseCase
}

// NewEstatusHandler construye el handler.
func NewEstatusHandler(uc *afiliado.EstatusUseCase) *EstatusHandler {
	return &EstatusHandler{uc: uc}
}

// Transicionar POST /api/afiliados/:id/estatus/:accion
func (h *EstatusHandler) Transicionar(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return responderError(c, err)
	}
	estatus, ok := acciones[c.Params("accion")]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("UNKNOWN_ACTION", "acción de estatus desconocida"))
	}
	var in dto.TransicionRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	hist, err := h.uc.Transition(c.UserContext(), id, estatus, afiliado.TransicionInput{
		Actor:         GetUserID(c),
		Motivo:        in.Motivo,
		Observaciones: in.Observaciones,
		IP:            c.IP(),
		UserAgent:     c.Get("User-Agent"),
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.Exito(dto.DesdeHistorial(hist)))
}

// TransicionarMasivo POST /api/afiliados/estatus
// Transición en bloque: cada id se procesa de forma independiente y la
// respuesta siempre es 200 con el desglose por afiliado.
func (h *EstatusHandler) TransicionarMasivo(c *fiber.Ctx) error {
	var in dto.TransicionMasivaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	if len(in.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("VALIDATION", "ids requeridos"))
	}
	estatus, ok := acciones[in.Accion]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("UNKNOWN_ACTION", "acción de estatus desconocida"))
	}
	resultados := h.uc.TransitionBatch(c.UserContext(), in.IDs, estatus, afiliado.TransicionInput{
		Actor:         GetUserID(c),
		Motivo:        in.Motivo,
		Observaciones: in.Observaciones,
		IP:            c.IP(),
		UserAgent:     c.Get("User-Agent"),
	})
	out := make([]dto.ResultadoTransicionDTO, 0, len(resultados))
	for _, r := range resultados {
		out = append(out, dto.ResultadoTransicionDTO{AfiliadoID: r.AfiliadoID, OK: r.OK, Error: r.Error})
	}
	return c.JSON(dto.Exito(out))
}
