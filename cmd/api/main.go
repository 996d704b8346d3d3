package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinic-console/internal/api/router"
	"github.com/wolfman30/clinic-console/internal/app/bootstrap"
	appconfig "github.com/wolfman30/clinic-console/internal/config"
	"github.com/wolfman30/clinic-console/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/clinic-console/internal/http/middleware"
	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/internal/reconcile"
	"github.com/wolfman30/clinic-console/internal/sources"
	"github.com/wolfman30/clinic-console/internal/tenancy"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting clinic-console API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"record_source", cfg.RecordSource,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metricsHandler, registry, reconcileMetrics := setupMetrics()
	app, err := buildApp(ctx, cfg, logger, registry, reconcileMetrics)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	r := router.New(&router.Config{
		Logger:             logger,
		Console:            app.console,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        app.limiter,
		ViewerAuthSecret:   cfg.ViewerJWTSecret,
		DefaultClinic:      cfg.DefaultClinic,
		ResolveViewer:      app.resolveViewer,
	})

	// No read or write timeouts: they would cut off /ws/timeline streams.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds a dedicated registry with runtime collectors and the
// pipeline metrics, and the /metrics handler that serves it.
func setupMetrics() (http.Handler, *prometheus.Registry, *metrics.ReconcileMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewReconcileMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), registry, m
}

type application struct {
	console       *handlers.ConsoleHandler
	limiter       *httpmiddleware.RateLimiter
	resolveViewer httpmiddleware.ViewerResolver
	closers       []func()
}

func (a *application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// buildApp wires sources, the verification gateway and the engine. The rate
// limiter's eviction loop stops when ctx is done.
func buildApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, registry *prometheus.Registry, m *metrics.ReconcileMetrics) (*application, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	app := &application{}
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	pool := bootstrap.ConnectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		app.closers = append(app.closers, pool.Close)
	}
	srcs, err := bootstrap.BuildSources(cfg, httpClient, pool)
	if err != nil {
		app.Close()
		return nil, err
	}

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		app.closers = append(app.closers, func() { _ = redisClient.Close() })
		logger.Info("verification cache enabled", "ttl", cfg.VerificationCacheTTL)
	}
	gateway, err := bootstrap.BuildGateway(cfg, httpClient, redisClient, logger, m)
	if err != nil {
		app.Close()
		return nil, err
	}

	engine := reconcile.NewEngine(reconcile.Config{
		Fetcher:  sources.NewFetcher(srcs.Appointments, srcs.Patients, srcs.Doctors, logger, m),
		Gateway:  gateway,
		Location: loc,
		MaxAge:   cfg.SnapshotMaxAge,
		Logger:   logger,
		Metrics:  m,
	})

	app.console = handlers.NewConsoleHandler(engine, registry, cfg.TimelineTick, logger)
	app.limiter = httpmiddleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go app.limiter.Run(5*time.Minute, ctx.Done())

	directory := srcs.Doctors
	app.resolveViewer = func(ctx context.Context, v tenancy.Viewer) tenancy.Viewer {
		return sources.ResolveViewer(ctx, directory, v)
	}
	return app, nil
}
