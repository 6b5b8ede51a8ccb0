package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
	"github.com/jhoicas/afiliados-api/internal/domain"
	"github.com/jhoicas/afiliados-api/internal/domain/entity"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

// AfiliadoHandler maneja las peticiones HTTP de afiliados.
type AfiliadoHandler struct {
	altaUC         *afiliado.AltaUseCase
	afiliadoRepo   repository.AfiliadoRepository
	movimientoRepo repository.MovimientoRepository
	historialRepo  repository.HistorialRepository
}

// NewAfiliadoHandler construye el handler.
func NewAfiliadoHandler(
	altaUC *afiliado.AltaUseCase,
	afiliadoRepo repository.AfiliadoRepository,
	movimientoRepo repository.MovimientoRepository,
	historialRepo repository.HistorialRepository,
) *AfiliadoHandler {
	return &AfiliadoHandler{
		altaUC:         altaUC,
		afiliadoRepo:   afiliadoRepo,
		movimientoRepo: movimientoRepo,
		historialRepo:  historialRepo,
	}
}

// Alta POST /api/afiliados
// Da de alta al afiliado con su adscripción orgánica, sin movimiento.
func (h *AfiliadoHandler) Alta(c *fiber.Ctx) error {
	scope, err := GetOrgScope(c)
	if err != nil {
		return responderError(c, err)
	}
	var in struct {
		Afiliado dto.AltaAfiliadoRequest `json:"afiliado"`
		Organica dto.OrganicaRequest     `json:"organica"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	a, err := afiliadoDesdeRequest(in.Afiliado)
	if err != nil {
		return responderError(c, err)
	}
	res, err := h.altaUC.Alta(c.UserContext(), a, organicaDesdeRequest(in.Organica, scope))
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Exito(dto.DesdeAfiliado(res.Afiliado)))
}

// AltaCompleta POST /api/afiliados/completo
// Alta atómica: afiliado + orgánica + movimiento de alta en una transacción.
func (h *AfiliadoHandler) AltaCompleta(c *fiber.Ctx) error {
	scope, err := GetOrgScope(c)
	if err != nil {
		return responderError(c, err)
	}
	var in dto.AltaCompletaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_BODY", "cuerpo inválido"))
	}
	a, err := afiliadoDesdeRequest(in.Afiliado)
	if err != nil {
		return responderError(c, err)
	}
	m, err := movimientoDesdeRequest(in.Movimiento)
	if err != nil {
		return responderError(c, err)
	}
	res, err := h.altaUC.AltaCompleta(c.UserContext(), afiliado.AltaCompletaInput{
		Afiliado:   a,
		Organica:   organicaDesdeRequest(in.Organica, scope),
		Movimiento: m,
	})
	if err != nil {
		return responderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Exito(fiber.Map{
		"afiliado":   dto.DesdeAfiliado(res.Afiliado),
		"movimiento": dto.DesdeMovimiento(res.Movimiento),
	}))
}

// GetByID GET /api/afiliados/:id
func (h *AfiliadoHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return responderError(c, err)
	}
	a, err := h.afiliadoRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return responderError(c, err)
	}
	if a == nil {
		return responderError(c, domain.ErrNoEncontrado)
	}
	return c.JSON(dto.Exito(dto.DesdeAfiliado(a)))
}

// Movimientos GET /api/afiliados/:id/movimientos
func (h *AfiliadoHandler) Movimientos(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return responderError(c, err)
	}
	movs, err := h.movimientoRepo.ListActivosByAfiliado(c.UserContext(), id)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.DesdeMovimiento(m))
	}
	return c.JSON(dto.Exito(out))
}

// Historial GET /api/afiliados/:id/historial?limit=20&offset=0
func (h *AfiliadoHandler) Historial(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return responderError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fallo("INVALID_QUERY", "parámetros de paginación inválidos"))
	}
	page.DefaultPage()
	hist, err := h.historialRepo.ListByAfiliado(c.UserContext(), id, page.Limit, page.Offset)
	if err != nil {
		return responderError(c, err)
	}
	out := make([]dto.HistorialResponse, 0, len(hist))
	for _, hh := range hist {
		out = append(out, dto.DesdeHistorial(hh))
	}
	return c.JSON(dto.Exito(out))
}

// paramID lee el :id numérico de la ruta.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrEntradaInvalida
	}
	return id, nil
}

// afiliadoDesdeRequest arma la entidad desde el request. Las fechas viajan
// como "2006-01-02".
func afiliadoDesdeRequest(in dto.AltaAfiliadoRequest) (entity.Afiliado, error) {
	a := entity.Afiliado{
		Folio:              in.Folio,
		CURP:               in.CURP,
		RFC:                in.RFC,
		NSS:                in.NSS,
		Nombre:             in.Nombre,
		ApellidoPaterno:    in.ApellidoPaterno,
		ApellidoMaterno:    in.ApellidoMaterno,
		Sexo:               in.Sexo,
		Email:              in.Email,
		Telefono:           in.Telefono,
		QuincenaAplicacion: in.Quincena,
		AnioAplicacion:     in.Anio,
	}
	if in.FechaNacimiento != nil && *in.FechaNacimiento != "" {
		f, err := time.Parse("2006-01-02", *in.FechaNacimiento)
		if err != nil {
			return entity.Afiliado{}, domain.ErrEntradaInvalida
		}
		a.FechaNacimiento = &f
	}
	return a, nil
}

// organicaDesdeRequest arma la adscripción. El ámbito del token suple a los
// campos org0/org1 cuando vienen vacíos.
func organicaDesdeRequest(in dto.OrganicaRequest, scope entity.OrgScope) entity.AfiliadoOrganica {
	o := entity.AfiliadoOrganica{
		Org0:                in.Org0,
		Org1:                in.Org1,
		Org2:                in.Org2,
		Org3:                in.Org3,
		SueldoBase:          in.SueldoBase,
		SueldoCotizable:     in.SueldoCotizable,
		PorcentajeDescuento: in.PorcentajeDescuento,
	}
	if o.Org0 == "" && o.Org1 == "" {
		o.Org0 = scope.Org0
		o.Org1 = scope.Org1
		o.Org2 = scope.Org2
		o.Org3 = scope.Org3
	}
	return o
}

func movimientoDesdeRequest(in dto.MovimientoRequest) (entity.Movimiento, error) {
	m := entity.Movimiento{
		TipoMovimientoID: in.TipoMovimientoID,
		QuincenaID:       in.QuincenaID,
		Sueldo:           in.Sueldo,
		Porcentaje:       in.Porcentaje,
		Monto:            in.Monto,
		Observaciones:    in.Observaciones,
	}
	if in.FechaMovimiento != nil && *in.FechaMovimiento != "" {
		f, err := time.Parse("2006-01-02", *in.FechaMovimiento)
		if err != nil {
			return entity.Movimiento{}, domain.ErrEntradaInvalida
		}
		m.FechaMovimiento = &f
	}
	return m, nil
}
