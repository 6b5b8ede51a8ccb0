package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/afiliados-api/internal/application/afiliado"
	"github.com/jhoicas/afiliados-api/internal/application/aplicacion"
	"github.com/jhoicas/afiliados-api/internal/application/quincena"
	infranomina "github.com/jhoicas/afiliados-api/internal/infrastructure/nomina"
	"github.com/jhoicas/afiliados-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/afiliados-api/internal/interfaces/http"
	"github.com/jhoicas/afiliados-api/pkg/config"
	"github.com/jhoicas/afiliados-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Motor de nómina: no conecta aquí. Un motor caído degrada el resolver
	// a sus respaldos, nunca impide arrancar.
	nominaClient := infranomina.NewClient(cfg.Nomina, log)
	defer nominaClient.Close(ctx)

	afiliadoRepo := postgres.NewAfiliadoRepository(pool)
	organicaRepo := postgres.NewOrganicaRepository(pool)
	movimientoRepo := postgres.NewMovimientoRepository(pool)
	historialRepo := postgres.NewHistorialRepository(pool)
	quincenaRepo := postgres.NewControlQuincenaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := quincena.NewResolver(quincenaRepo, nominaClient, log)
	altaUC := afiliado.NewAltaUseCase(txRunner, afiliadoRepo, resolver, log)
	estatusUC := afiliado.NewEstatusUseCase(txRunner, log)
	movimientoUC := afiliado.NewMovimientoUseCase(afiliadoRepo, movimientoRepo, resolver)
	processor := aplicacion.NewProcessor(
		afiliadoRepo, organicaRepo, movimientoRepo, quincenaRepo,
		txRunner, nominaClient, log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Afiliados API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AltaUC:         altaUC,
		EstatusUC:      estatusUC,
		MovimientoUC:   movimientoUC,
		Processor:      processor,
		Resolver:       resolver,
		AfiliadoRepo:   afiliadoRepo,
		MovimientoRepo: movimientoRepo,
		HistorialRepo:  historialRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
