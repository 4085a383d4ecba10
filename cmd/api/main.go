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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/crm-farma/internal/application/territory"
	"github.com/jhoicas/crm-farma/internal/infrastructure/metrics"
	"github.com/jhoicas/crm-farma/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/crm-farma/internal/interfaces/http"
	"github.com/jhoicas/crm-farma/pkg/config"
	"github.com/jhoicas/crm-farma/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.Territory.Timezone).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// El esquema de marcas varía entre instalaciones: se detecta una vez al arrancar.
	brandCaps, err := postgres.ProbeBrandCapabilities(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("detección del esquema de marcas")
	}
	log.Info().
		Bool("brands_active", brandCaps.HasActive).
		Str("brands_active_kind", string(brandCaps.ActiveKind)).
		Msg("esquema de marcas detectado")

	territoryCfg := territory.Config{
		DefaultPriority: cfg.Territory.DefaultPriority,
		Location:        cfg.Territory.Location(),
	}
	territoryMetrics := metrics.NewTerritoryMetrics(prometheus.DefaultRegisterer)

	txRunner := postgres.NewTxRunner(pool)
	commercialRepo := postgres.NewCommercialRepository(pool)
	assignmentRepo := postgres.NewAssignmentRepository(pool)

	bulkUC := territory.NewBulkAssignmentUseCase(txRunner, commercialRepo, brandCaps, territoryCfg, territoryMetrics, log)
	provinceUC := territory.NewProvinceAssignmentUseCase(bulkUC)
	assignmentUC := territory.NewAssignmentUseCase(assignmentRepo, territoryCfg)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Farma - Territorios",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BulkAssignment:     bulkUC,
		ProvinceAssignment: provinceUC,
		AssignmentUC:       assignmentUC,
		JWTSecret:          cfg.JWT.Secret,
		Gatherer:           prometheus.DefaultGatherer,
		Logger:             log,
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
