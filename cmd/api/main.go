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

	"github.com/jhoicas/Dashboard-api/internal/application/actions"
	"github.com/jhoicas/Dashboard-api/internal/application/auth"
	"github.com/jhoicas/Dashboard-api/internal/application/dashboard"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/blob"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/cache"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Dashboard-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Dashboard-api/internal/infrastructure/postgres/migrations"
	httpRouter "github.com/jhoicas/Dashboard-api/internal/interfaces/http"
	"github.com/jhoicas/Dashboard-api/pkg/config"
	"github.com/jhoicas/Dashboard-api/pkg/logger"
)

// viewCache caché de vistas que además recibe la señal de invalidación de las mutaciones.
type viewCache interface {
	dashboard.ViewCache
	actions.Invalidator
}

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
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.App.Migrate {
		db := postgres.OpenDB(pool)
		if err := migrations.Apply(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		db.Close()
		log.Info().Msg("migraciones aplicadas")
	}

	customerRepo := postgres.NewCustomerRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	revenueRepo := postgres.NewRevenueRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	blobStore, err := blob.NewS3Store(ctx, cfg.Blob)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al blob store")
	}

	// Caché de vistas: Redis si está configurado (compartida entre instancias), si no en memoria.
	var views viewCache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		redisCache := cache.NewRedisCache(rdb, cache.DefaultTTL)
		go func() {
			err := redisCache.Subscribe(ctx, func(path string) {
				log.Debug().Str("path", path).Msg("vista revalidada")
			})
			if err != nil {
				log.Warn().Err(err).Msg("suscripción de revalidación finalizada")
			}
		}()
		views = redisCache
	} else {
		memCache, err := cache.NewMemoryCache(64)
		if err != nil {
			log.Fatal().Err(err).Msg("caché en memoria")
		}
		views = memCache
	}

	m := metrics.New()

	actionsSvc := actions.New(actions.Deps{
		Customers:   customerRepo,
		Invoices:    invoiceRepo,
		Blobs:       blobStore,
		Invalidator: views,
		Tx:          txRunner,
		Observer:    m,
		Logger:      log.Named("actions"),
		Policy:      policyFromConfig(cfg.Actions),
	})
	log.Info().Interface("policy", actionsSvc.Policy()).Msg("política de mutaciones")

	// PDF: comprobante de la factura
	pdfGenerator := infrapdf.NewReceiptGenerator(cfg.App.Name, "")
	dashboardSvc := dashboard.NewService(customerRepo, invoiceRepo, revenueRepo, views, pdfGenerator, log.Named("dashboard"))

	authUC := auth.NewAuthUseCase(auth.NewCredentialsProvider(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}), log.Named("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.DocsPath); cfg.HTTP.DocsPath != "" && err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.DocsPath,
			Path:     "docs",
			Title:    "Dashboard API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Actions:      actionsSvc,
		Dashboard:    dashboardSvc,
		AuthUC:       authUC,
		Metrics:      m,
		Logger:       log.Named("http"),
		JWTSecret:    cfg.JWT.Secret,
		SecureCookie: cfg.App.Env == "production",
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
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func policyFromConfig(c config.ActionsConfig) actions.Policy {
	p := actions.DefaultPolicy()
	p.DateMode = actions.DateMode(c.InvoiceDateMode)
	p.StrictPhoto = c.StrictPhoto
	p.PhotoReplacement = c.PhotoReplacement
	p.TransactionalCustomerDelete = c.TransactionalCustomerDelete
	if c.MaxPhotoBytes > 0 {
		p.MaxPhotoBytes = c.MaxPhotoBytes
	}
	return p
}
