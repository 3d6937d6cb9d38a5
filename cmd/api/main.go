package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/billstock-api/internal/application/analytics"
	"github.com/jhoicas/billstock-api/internal/application/billing"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/application/payroll"
	"github.com/jhoicas/billstock-api/internal/application/ports"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
	infracache "github.com/jhoicas/billstock-api/internal/infrastructure/cache"
	"github.com/jhoicas/billstock-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/billstock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/billstock-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/billstock-api/internal/interfaces/http"
	"github.com/jhoicas/billstock-api/pkg/config"
	"github.com/jhoicas/billstock-api/pkg/logger"
)

// repositories un juego completo de repositorios sobre el mismo store.
type repositories struct {
	products    repository.ProductRepository
	adjustments repository.StockAdjustmentRepository
	bills       repository.BillRepository
	payments    repository.PaymentRepository
	sales       repository.SalesRecordRepository
	workers     repository.WorkerRepository
}

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// ── Store ────────────────────────────────────────────────────────────────
	var repos repositories
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		repos = repositories{
			products:    store.Products(),
			adjustments: store.StockAdjustments(),
			bills:       store.Bills(),
			payments:    store.Payments(),
			sales:       store.SalesRecords(),
			workers:     store.Workers(),
		}
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("aplicar schema")
			}
			log.Info().Msg("schema verificado")
		}
		repos = repositories{
			products:    postgres.NewProductRepository(pool),
			adjustments: postgres.NewStockAdjustmentRepository(pool),
			bills:       postgres.NewBillRepository(pool),
			payments:    postgres.NewPaymentRepository(pool),
			sales:       postgres.NewSalesRecordRepository(pool),
			workers:     postgres.NewWorkerRepository(pool),
		}
	}

	// ── Cache ────────────────────────────────────────────────────────────────
	var cache ports.Cache = infracache.NewMemoryCache(cfg.Store.CacheMaxEntries, cfg.Store.CacheTTL)
	if cfg.Redis.Enabled {
		rc := infracache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, cache deshabilitado")
			cache = infracache.NoopCache{}
		} else {
			defer rc.Close()
			cache = rc
		}
	}

	// ── Casos de uso ─────────────────────────────────────────────────────────
	stockEngine := inventory.NewStockEngine(repos.products, repos.adjustments, cfg.Policies, log.Component("stock"))
	salesRecorder := billing.NewSalesRecorder(repos.sales, repos.products, log.Component("sales"))
	paymentTracker := billing.NewPaymentTracker(repos.bills, repos.payments, cache, log.Component("payments"))
	billEngine := billing.NewBillEngine(repos.bills, stockEngine, salesRecorder, paymentTracker, cache,
		billing.EngineOptions{Policies: cfg.Policies, CacheTTL: cfg.Store.CacheTTL}, log.Component("billing"))
	billPDFUC := billing.NewPDFUseCase(repos.bills, repos.payments, infrapdf.NewMarotoPDFGenerator())
	productUC := inventory.NewProductUseCase(repos.products)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.products, repos.bills, repos.workers, salesRecorder, cache,
		cfg.Store.LowStockThreshold, cfg.Store.CacheTTL, log.Component("dashboard"))
	workerUC := payroll.NewWorkerUseCase(repos.workers, cache, log.Component("payroll"))

	// ── HTTP ─────────────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
		Output: log.Component("http"),
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "BillStock API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BillEngine:     billEngine,
		PaymentTracker: paymentTracker,
		BillPDF:        billPDFUC,
		ProductUC:      productUC,
		StockEngine:    stockEngine,
		DashboardUC:    dashboardUC,
		WorkerUC:       workerUC,
		JWTSecret:      cfg.JWT.Secret,
		JWTIssuer:      cfg.JWT.Issuer,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
