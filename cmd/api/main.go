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

	"github.com/jhoicas/Donaciones-api/internal/application/inventory"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/cache"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/migrations"
	"github.com/jhoicas/Donaciones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Donaciones-api/internal/interfaces/http"
	"github.com/jhoicas/Donaciones-api/pkg/config"
	"github.com/jhoicas/Donaciones-api/pkg/logger"
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
		Str("backend", cfg.App.StoreBackend).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}

	ctx := context.Background()

	var (
		tx    inventory.TxRunner
		repos inventory.Repos
	)
	switch cfg.App.StoreBackend {
	case config.BackendMemory:
		store := memory.NewStore()
		tx, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.App.MigrateOnStart {
			runMigrations(cfg, log)
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx, repos = postgres.NewTxRunner(pool), postgres.NewRepos(pool)
	}

	var reportCache inventory.ReportCache = inventory.NopCache{}
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedis(ctx, cfg.Redis.URL)
		if err != nil {
			// sin caché la API sigue funcionando
			log.Warn().Err(err).Msg("redis no disponible, reporte de vencimientos sin caché")
		} else {
			defer rdb.Close()
			reportCache = cache.NewExpiryCache(rdb, cfg.Redis.TTL())
		}
	}

	opts := inventory.Options{
		ExpiryWindowDays:    cfg.Inventory.ExpiryWindowDays,
		Location:            loc,
		MaxBatchAdjustments: cfg.Inventory.MaxBatchAdjustments,
		SerialRetry: inventory.RetryPolicy{
			Attempts:  cfg.Inventory.SerialRetryAttempts,
			BaseDelay: time.Duration(cfg.Inventory.SerialRetryBaseMS) * time.Millisecond,
			MaxDelay:  time.Duration(cfg.Inventory.SerialRetryMaxMS) * time.Millisecond,
		},
	}

	serials := inventory.NewSerialAllocator(tx, opts)
	deps := httpRouter.RouterDeps{
		Coordinator:   inventory.NewCoordinator(tx, serials, reportCache, opts),
		Serials:       serials,
		Stock:         inventory.NewStockUseCase(tx, repos, reportCache),
		Expiry:        inventory.NewExpiryUseCase(repos, reportCache, opts),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Stock),
		Logs:          inventory.NewLogUseCase(repos.Logs),
		Batches:       inventory.NewBatchQueryUseCase(repos),
		Parties:       inventory.NewPartyUseCase(repos, opts),
		Catalog:       inventory.NewCatalogUseCase(repos, opts),
		JWTSecret:     cfg.JWT.Secret,
		JWTIssuer:     cfg.JWT.Issuer,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())
	app.Use(httpRouter.RequestDeadline(cfg.HTTP.RequestTimeout()))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Donaciones API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, deps)

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

func runMigrations(cfg *config.Config, log *logger.Logger) {
	m, err := migrations.New(cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	defer func() { _ = m.Close() }()
	if err := m.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
