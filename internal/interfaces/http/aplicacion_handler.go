package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/aplicacion"
	"github.com/jhoicas/afiliados-api/internal/application/dto"
)

// AplicacionHandler maneja la aplicación masiva de quincena. Ambas rutas
// responden 200 aunque haya renglones fallidos: el desglose por afiliado
// viaja en el cuerpo, nunca como falla de transporte.
type AplicacionHandler struct {
	processor *aplicacion.Processor
}

// NewAplicacionHandler construye el handler.
func NewAplicacionHandler(processor *aplicacion.Processor) *AplicacionHandler {
	return &AplicacionHandler{processor: processor}
}

// Previa POST /api/aplicacion/previa
// Genera los comandos de nómina por afiliado sin mutar nada.
func (h *AplicacionHandler) Previa(c *fiber.Ctx) error {
	return h.correr(c, aplicacion.ModoPrevia)
}

// Ejecutar POST /api/aplicacion/ejecutar
// Corre la vista previa y además transiciona a los listos y cierra la quincena.
func (h *AplicacionHandler) Ejecutar(c *fiber.Ctx) error {
	return h.correr(c, aplicacion.ModoAplicar)
}

func (h *AplicacionHandler) correr(c *fiber.Ctx, modo aplicacion.Modo) error {
	scope, err := GetOrgScope(c)
	if err != nil {
		return responderError(c, err)
	}
	res, err := h.processor.Run(c.UserContext(), scope, modo, GetUserID(c))
	if err != nil {
		return responderError(c, err)
	}
	return c.JSON(dto.Exito(dto.DesdeResultadoAplicacion(res)))
}
