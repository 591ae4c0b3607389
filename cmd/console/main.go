package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/freight-console/internal/api/http"
	"github.com/spec-kit/freight-console/internal/api/http/handlers"
	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/config"
	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/gate"
	"github.com/spec-kit/freight-console/internal/navigation"
	"github.com/spec-kit/freight-console/internal/observability"
	"github.com/spec-kit/freight-console/internal/persistence"
	"github.com/spec-kit/freight-console/internal/service"
	"github.com/spec-kit/freight-console/internal/session"
	"github.com/spec-kit/freight-console/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	backend, checks, closeBackend := openSessionBackend(ctx, cfg, logger)
	defer closeBackend()

	routes, err := gate.LoadRouteTable(cfg.Routes.RoutesFile)
	if err != nil {
		logger.Fatal("failed to load routes", zap.Error(err))
	}
	menu, err := navigation.LoadMenu(cfg.Routes.MenuFile)
	if err != nil {
		logger.Fatal("failed to load menu", zap.Error(err))
	}

	validator := auth.NewTokenValidator()
	client, err := apiclient.New(apiclient.Config{
		BaseURL:       cfg.Upstream.BaseURL,
		Timeout:       cfg.Upstream.Timeout(),
		RatePerSecond: cfg.Upstream.RatePerSecond,
		RateBurst:     cfg.Upstream.RateBurst,
		LoginPath:     cfg.Routes.LoginPath,
		Validator:     validator,
		Logger:        logger,
		Metrics:       metrics,
	})
	if err != nil {
		logger.Fatal("failed to build upstream client", zap.Error(err))
	}
	authClient := apiclient.NewAuth(client)
	records := apiclient.NewRecords(client)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, metrics))

	sessions, err := session.NewRegistry(backend, authClient, cfg.Session.MaxActive,
		session.WithValidator(validator),
		session.WithEvents(dispatcher),
		session.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("failed to build session registry", zap.Error(err))
	}

	ledgerService := service.NewLedgerService(apiclient.NewLedgers(client), logger)
	routeGate := gate.New(routes, validator, cfg.Routes.LoginPath, cfg.Routes.UnauthorizedPath)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
		Session:    handlers.NewSessionHandler(authClient, validator),
		Navigation: handlers.NewNavigationHandler(menu),
		Ledgers:    handlers.NewLedgerHandler(ledgerService),
		Users:      handlers.NewRecordHandler(records.Users),
		Agencies:   handlers.NewRecordHandler(records.Agencies),
		Jobs:       handlers.NewRecordHandler(records.Jobs),
		Charges:    handlers.NewRecordHandler(records.Charges),
		Refunds:    handlers.NewRecordHandler(records.Refunds),
		Lookups:    handlers.NewLookupsHandler(apiclient.NewLookups(client)),
		Reports:    handlers.NewReportsHandler(apiclient.NewReports(client)),
		Views:      handlers.NewViewHandler(routeGate, dispatcher, metrics, logger, cfg.App.IndexFile),
		Registry:   sessions,
		SessionCookie: httptransport.SessionMiddlewareConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.CookieSecure,
			MaxAge:     cfg.Session.TTL(),
		},
		Gatherer:  registry,
		AssetsDir: cfg.App.AssetsDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// openSessionBackend connects the configured session storage and returns its
// readiness checks and a close function.
func openSessionBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Backend, map[string]handlers.Pinger, func()) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		redis := persistence.NewRedis(cfg.Redis, logger)
		backend := persistence.NewRedisBackend(redis.Client, cfg.Session.KeyPrefix, cfg.Session.TTL())
		return backend, map[string]handlers.Pinger{"redis": redis}, redis.Close

	case config.SessionBackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		return persistence.NewPostgresBackend(pg.PoolHandle()), map[string]handlers.Pinger{"postgres": pg}, pg.Close

	default:
		logger.Warn("session storage is in memory; sessions are lost on restart")
		return persistence.NewMemoryBackend(), map[string]handlers.Pinger{}, func() {}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
