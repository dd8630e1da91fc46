package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/assistencia-api/internal/application/analytics"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/application/usecase"
	"github.com/jhoicas/assistencia-api/internal/infrastructure/cache"
	"github.com/jhoicas/assistencia-api/internal/infrastructure/events"
	"github.com/jhoicas/assistencia-api/internal/infrastructure/metrics"
	"github.com/jhoicas/assistencia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/assistencia-api/internal/interfaces/http"
	"github.com/jhoicas/assistencia-api/pkg/config"
	"github.com/jhoicas/assistencia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	recorder := metrics.NewRecorder("assistencia")

	bus := events.NewBus(log.Component("events"))
	defer func() {
		if err := bus.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar bus de eventos")
		}
	}()

	// Caché de listados de piezas: Redis si está configurado, si no se lee siempre de la BD.
	var partCache usecase.PartListCache = cache.NopPartListCache{}
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer rdb.Close()
			partCache = cache.NewPartListCache(rdb, cfg.Redis.TTL, log.Component("cache"))
		}
	}
	// Cada cambio de stock o de catálogo invalida los listados cacheados.
	if err := bus.SubscribePartChanged(ctx, func(ctx context.Context, _ inventory.PartChanged) error {
		return partCache.Invalidate(ctx)
	}); err != nil {
		log.Fatal().Err(err).Msg("suscripción a PartChanged")
	}

	partRepo := postgres.NewPartRepository(pool)
	orderRepo := postgres.NewServiceOrderRepository(pool)
	itemRepo := postgres.NewOrderItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	technicianRepo := postgres.NewTechnicianRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	ledger := inventory.NewLedger(txRunner, bus, recorder, log.Component("ledger"))
	orchestrator := inventory.NewOrchestrator(txRunner, partRepo, orderRepo, itemRepo, ledger, recorder, log.Component("orchestrator"))
	registerMovementUC := inventory.NewRegisterMovementUseCase(ledger, movementRepo)
	replenishmentUC := inventory.NewReplenishmentUseCase(partRepo, analyticsRepo, cfg.Inventory.LowStockThreshold)

	partUC := usecase.NewPartUseCase(partRepo, txRunner, partCache, bus, log.Component("parts"))
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	technicianUC := usecase.NewTechnicianUseCase(technicianRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, itemRepo, customerRepo, technicianRepo, orchestrator)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, cfg.Inventory.LowStockThreshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// Swagger UI: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.FilePath,
			Path:     "docs",
			Title:    "Assistencia API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		PartUC:        partUC,
		CustomerUC:    customerUC,
		TechnicianUC:  technicianUC,
		OrderUC:       orderUC,
		Movements:     registerMovementUC,
		Replenishment: replenishmentUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
		JWTAudience:   cfg.JWT.Audience,
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
	stop()

	log.Info().Msg("aplicación detenida")
}
