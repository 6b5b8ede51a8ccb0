package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/application/aplicacion"
	"github.com/jhoicas/afiliados-api/internal/application/quincena"
	"github.com/jhoicas/afiliados-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AltaUC         *afiliado.AltaUseCase
	EstatusUC      *afiliado.EstatusUseCase
	MovimientoUC   *afiliado.MovimientoUseCase
	Processor      *aplicacion.Processor
	Resolver       *quincena.Resolver
	AfiliadoRepo   repository.AfiliadoRepository
	MovimientoRepo repository.MovimientoRepository
	HistorialRepo  repository.HistorialRepository
	JWTSecret      string
}

// Router registra las rutas de la API. Todo bajo /api exige Bearer Token;
// las mutaciones además exigen rol admin u operador.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	escribe := RequireRole("admin", "operador")

	// Afiliados
	afiliados := api.Group("/afiliados")
	afiliadoHandler := NewAfiliadoHandler(deps.AltaUC, deps.AfiliadoRepo, deps.MovimientoRepo, deps.HistorialRepo)
	afiliados.Post("/", escribe, afiliadoHandler.Alta)
	afiliados.Post("/completo", escribe, afiliadoHandler.AltaCompleta)
	afiliados.Get("/:id", afiliadoHandler.GetByID)
	afiliados.Get("/:id/movimientos", afiliadoHandler.Movimientos)
	afiliados.Get("/:id/historial", afiliadoHandler.Historial)

	// Movimientos (el tipo lo fija la ruta)
	movimientoHandler := NewMovimientoHandler(deps.MovimientoUC)
	afiliados.Post("/:id/movimientos/sueldo", escribe, movimientoHandler.Sueldo)
	afiliados.Post("/:id/movimientos/baja", escribe, movimientoHandler.Baja)
	afiliados.Post("/:id/movimientos/suspension", escribe, movimientoHandler.Suspension)
	afiliados.Post("/:id/movimientos/termino-suspension", escribe, movimientoHandler.TerminoSuspension)

	// Estatus
	estatusHandler := NewEstatusHandler(deps.EstatusUC)
	afiliados.Post("/estatus", escribe, estatusHandler.TransicionarMasivo)
	afiliados.Post("/:id/estatus/:accion", escribe, estatusHandler.Transicionar)

	// Aplicación de quincena
	apl := api.Group("/aplicacion")
	aplicacionHandler := NewAplicacionHandler(deps.Processor)
	apl.Post("/previa", escribe, aplicacionHandler.Previa)
	apl.Post("/ejecutar", RequireRole("admin"), aplicacionHandler.Ejecutar)

	// Quincenas
	quincenas := api.Group("/quincenas")
	quincenaHandler := NewQuincenaHandler(deps.Resolver)
	quincenas.Get("/actual", quincenaHandler.Actual)
}
