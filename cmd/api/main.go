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

	_ "github.com/jhoicas/ventas-sync-api/docs"
	"github.com/jhoicas/ventas-sync-api/internal/application/auth"
	"github.com/jhoicas/ventas-sync-api/internal/application/sales"
	"github.com/jhoicas/ventas-sync-api/internal/application/stock"
	"github.com/jhoicas/ventas-sync-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/ventas-sync-api/internal/infrastructure/pdf"
	"github.com/jhoicas/ventas-sync-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-sync-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/ventas-sync-api/internal/interfaces/http"
	"github.com/jhoicas/ventas-sync-api/pkg/config"
	"github.com/jhoicas/ventas-sync-api/pkg/logger"
)

// version se sobrescribe en el build con -ldflags "-X main.version=..."
var version = "dev"

// @title                       Ventas Sync API
// @version                     1.0
// @description                 Confirmación de ventas del punto de venta y sincronización de ventas offline.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", version).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.App.Name, version, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Caché de idempotencia opcional: sin REDIS_URL el motor consulta solo la base.
	var saleCache sales.IdempotencyCache
	if cfg.Redis.URL != "" {
		redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se continúa sin caché")
		} else {
			defer redisClient.Close()
			saleCache = cache.NewRedisSaleCache(redisClient, cfg.Redis.TTL)
		}
	}

	saleRepo := postgres.NewSaleRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	sellerRepo := postgres.NewSellerRepository(pool)
	txRunner := postgres.NewTxRunner(pool, postgres.TxOptions{
		LockTimeout:      cfg.Sync.LockTimeout,
		StatementTimeout: cfg.Sync.StatementTimeout,
	})

	engine := sales.NewConfirmSaleUseCase(txRunner, saleRepo, saleCache, log, sales.EngineConfig{
		MaxRetries:  cfg.Sync.MaxRetries,
		MaxEventAge: cfg.Sync.MaxEventAge,
	})
	syncUC := sales.NewSyncUseCase(engine, log, cfg.Sync.MaxBatch)
	statusUC := sales.NewStatusUseCase(saleRepo)
	receiptUC := sales.NewReceiptUseCase(saleRepo, productRepo, infrapdf.NewMarotoPDFGenerator(cfg.App.StoreName))
	stockUC := stock.NewStockUseCase(txRunner, stockRepo, log)
	authUC := auth.NewAuthUseCase(sellerRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyMax,
		ReadTimeout:  cfg.HTTP.ReadTime,
		WriteTimeout: cfg.HTTP.ReadTime,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Engine:    engine,
		SyncUC:    syncUC,
		StatusUC:  statusUC,
		ReceiptUC: receiptUC,
		StockUC:   stockUC,
		JWTSecret: cfg.JWT.Secret,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciar trazas pendientes")
	}

	log.Info().Msg("aplicación detenida")
}
