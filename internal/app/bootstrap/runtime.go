package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/clinic-console/internal/config"
	"github.com/wolfman30/clinic-console/internal/observability/metrics"
	"github.com/wolfman30/clinic-console/internal/sources"
	"github.com/wolfman30/clinic-console/internal/verification"
	"github.com/wolfman30/clinic-console/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// ConnectPostgresPool opens a pool for DATABASE_URL, or returns nil when the
// URL is empty or the database is unreachable.
func ConnectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if strings.TrimSpace(databaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// Sources is the set of record collaborators the fetcher reads from.
type Sources struct {
	Appointments sources.AppointmentSource
	Patients     sources.PatientSource
	Doctors      sources.DoctorDirectory
}

// BuildSources picks the record sources for cfg.RecordSource. The doctor
// directory is always the HTTP backend. pool is required for the postgres
// source.
func BuildSources(cfg *appconfig.Config, client *http.Client, pool *pgxpool.Pool) (Sources, error) {
	if cfg == nil {
		return Sources{}, fmt.Errorf("bootstrap: config is required")
	}
	backend, err := sources.NewHTTPSource(sources.HTTPConfig{BaseURL: cfg.BackendURL, HTTPClient: client})
	if err != nil {
		return Sources{}, fmt.Errorf("bootstrap: backend source: %w", err)
	}

	switch cfg.RecordSource {
	case appconfig.RecordSourcePostgres:
		if pool == nil {
			return Sources{}, fmt.Errorf("bootstrap: postgres record source requires a database")
		}
		pg := sources.NewPGSource(pool)
		return Sources{Appointments: pg, Patients: pg, Doctors: backend}, nil
	default:
		return Sources{Appointments: backend, Patients: backend, Doctors: backend}, nil
	}
}

// BuildGateway returns the verification gateway, cached in Redis when a
// client is available.
func BuildGateway(cfg *appconfig.Config, client *http.Client, redisClient *redis.Client, logger *logging.Logger, m *metrics.ReconcileMetrics) (verification.Gateway, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	gw, err := verification.NewHTTPGateway(verification.HTTPConfig{
		BaseURL:    cfg.VerificationURL,
		HTTPClient: client,
		Logger:     logger,
		Metrics:    m,
	})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: verification gateway: %w", err)
	}
	if redisClient == nil {
		return gw, nil
	}
	return verification.NewCachedGateway(gw, redisClient, cfg.VerificationCacheTTL, logger), nil
}
