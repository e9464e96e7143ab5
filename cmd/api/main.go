package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	httptransport "github.com/spec-kit/demand-analytics/internal/api/http"
	"github.com/spec-kit/demand-analytics/internal/api/http/handlers"
	"github.com/spec-kit/demand-analytics/internal/auth"
	"github.com/spec-kit/demand-analytics/internal/config"
	"github.com/spec-kit/demand-analytics/internal/events"
	"github.com/spec-kit/demand-analytics/internal/observability"
	"github.com/spec-kit/demand-analytics/internal/persistence"
	"github.com/spec-kit/demand-analytics/internal/repository"
	"github.com/spec-kit/demand-analytics/internal/service"
	"github.com/spec-kit/demand-analytics/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	location, err := cfg.Reports.Location()
	if err != nil {
		logger.Fatal("invalid reports timezone", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	demands, directory, err := buildStore(pg, cfg.Reports, logger)
	if err != nil {
		logger.Fatal("failed to build record store", zap.Error(err))
	}
	directory = cacheDirectory(directory, redis, cfg.Reports.NameCacheTTL(), metrics, logger)

	reportService := service.NewReportService(service.ReportDependencies{
		DemandRepo:   demands,
		Directory:    directory,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
		Location:     location,
		TopLimit:     cfg.Reports.TopLimit,
		QueryTimeout: cfg.Reports.QueryTimeout(),
	})

	authMiddleware := auth.NewAuthMiddleware(auth.NewTokenVerifier(cfg.Auth.JWTSecret))
	if !authMiddleware.Enabled() {
		logger.Warn("AUTH_JWT_SECRET not provided; report endpoints are unauthenticated")
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Reports:        handlers.NewReportsHandler(reportService),
		Metrics:        metrics,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

// buildStore returns the postgres-backed repositories, or a seeded in-memory store when no
// database is configured.
func buildStore(pg *persistence.Postgres, cfg config.ReportsConfig, logger *zap.Logger) (repository.DemandRepository, analytics.Directory, error) {
	if pg.Enabled() {
		pool := pg.PoolHandle()
		return repository.NewDemandRepository(pool), analytics.Directory{
			Units:      repository.NewNameRepository(pool, repository.TableOrganizationalUnits),
			Categories: repository.NewNameRepository(pool, repository.TableCategories),
			Operators:  repository.NewNameRepository(pool, repository.TableOperators),
		}, nil
	}

	store := repository.NewMemoryStore()
	if cfg.SeedDemoDemands > 0 {
		if err := repository.SeedDemo(store, time.Now(), cfg.SeedDemoDemands); err != nil {
			return nil, analytics.Directory{}, err
		}
		logger.Info("seeded in-memory record store", zap.Int("demands", cfg.SeedDemoDemands))
	}
	return store, analytics.Directory{
		Units:      store.UnitNames(),
		Categories: store.CategoryNames(),
		Operators:  store.OperatorNames(),
	}, nil
}

func cacheDirectory(directory analytics.Directory, redis *persistence.Redis, ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger) analytics.Directory {
	if !redis.Enabled() || ttl <= 0 {
		return directory
	}
	return analytics.Directory{
		Units:      repository.NewCachedNameLookup(directory.Units, redis.Client, repository.TableOrganizationalUnits, ttl, metrics, logger),
		Categories: repository.NewCachedNameLookup(directory.Categories, redis.Client, repository.TableCategories, ttl, metrics, logger),
		Operators:  repository.NewCachedNameLookup(directory.Operators, redis.Client, repository.TableOperators, ttl, metrics, logger),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
