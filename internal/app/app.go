// Package app assembles the pantry service: storage, services, HTTP stack and lifecycle.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pantryapi/docs"
	"pantryapi/internal/config"
	"pantryapi/internal/database"
	"pantryapi/internal/database/migration"
	"pantryapi/internal/http/handler"
	"pantryapi/internal/http/middleware"
	"pantryapi/internal/logger"
	"pantryapi/internal/otel"
	"pantryapi/internal/repository/postgres"
	"pantryapi/internal/service"
	"pantryapi/internal/storage"
)

const (
	appName         = "pantryapi"
	shutdownTimeout = 10 * time.Second
)

// App owns every long-lived resource of the running service.
type App struct {
	cfg             *config.AppConfig
	log             *logger.Logger
	db              *sql.DB
	http            *fiber.App
	shutdownTracing otel.ShutdownFunc
}

// New connects to the database, applies the schema, wires the services and builds
// the HTTP stack. Object storage is only contacted when it is configured.
func New(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*App, error) {
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{cfg: cfg, log: log, db: db, shutdownTracing: shutdownTracing}

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	repo := postgres.NewPantryItemPostgres(db)
	deps := handler.Deps{
		DB:    db,
		Items: service.NewPantryItemService(repo),
	}

	if cfg.MinIO.Enabled() {
		store, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		deps.Exporter = service.NewExportService(store, repo)
		log.Info(ctx).Str("bucket", cfg.MinIO.Bucket).Msg("object storage enabled")
	} else {
		log.Info(ctx).Msg("object storage disabled, export route not registered")
	}

	a.http, err = NewHTTP(cfg, log, deps, prometheus.NewRegistry())
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	return a, nil
}

// NewHTTP builds the Fiber application with global middleware, domain routes,
// /metrics and the Swagger UI.
func NewHTTP(cfg *config.AppConfig, log *logger.Logger, deps handler.Deps, reg *prometheus.Registry) (*fiber.App, error) {
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		ErrorHandler:          handler.ErrorHandler(log),
		EnablePrintRoutes:     cfg.Debug,
		DisableStartupMessage: !cfg.Debug,
	})

	// RequestID must precede Logger so every log line carries the id.
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Debug}))
	app.Use(middleware.RequestID(log))
	app.Use(middleware.Logger(log))
	app.Use(middleware.CORS())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath || c.Path() == "/healthz"
	})))
	app.Use(metrics.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handler.RegisterRoutes(app, deps)

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx).Str("addr", a.cfg.Addr()).Msg("http server listening")
		errCh <- a.http.Listen(a.cfg.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info(ctx).Msg("shutting down")
	if err := a.http.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the database pool and flushes pending spans.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if a.shutdownTracing != nil {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.shutdownTracing(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Migrate connects to the database and applies the schema without serving.
func Migrate(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	return migration.EnsureMigrated(ctx, db, log, cfg.Database.Host)
}
