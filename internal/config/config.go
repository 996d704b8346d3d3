package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Upstream collaborators
	BackendURL      string
	VerificationURL string
	UpstreamTimeout time.Duration
	RecordSource    string
	DatabaseURL     string

	// Viewer context
	ViewerTimezone  string
	ViewerJWTSecret string
	DefaultClinic   string

	CORSAllowedOrigins []string
	RateLimitRPS       int
	RateLimitBurst     int

	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool
	VerificationCacheTTL time.Duration

	SnapshotMaxAge time.Duration
	TimelineTick   time.Duration
}

const (
	RecordSourceHTTP     = "http"
	RecordSourcePostgres = "postgres"
)

func Load() *Config {
	backend := getEnv("BACKEND_URL", "http://localhost:5000")
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		BackendURL:      backend,
		VerificationURL: getEnv("VERIFICATION_URL", backend),
		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		RecordSource:    strings.ToLower(strings.TrimSpace(getEnv("RECORD_SOURCE", RecordSourceHTTP))),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		ViewerTimezone:  getEnv("VIEWER_TIMEZONE", "America/New_York"),
		ViewerJWTSecret: getEnv("VIEWER_JWT_SECRET", ""),
		DefaultClinic:   strings.TrimSpace(getEnv("DEFAULT_CLINIC", "")),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitRPS:       getEnvAsInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),

		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		VerificationCacheTTL: getEnvAsDuration("VERIFICATION_CACHE_TTL", 2*time.Minute),

		SnapshotMaxAge: getEnvAsDuration("SNAPSHOT_MAX_AGE", 30*time.Second),
		TimelineTick:   getEnvAsDuration("TIMELINE_TICK", time.Second),
	}
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.RecordSource {
	case RecordSourceHTTP:
		if strings.TrimSpace(c.BackendURL) == "" {
			return fmt.Errorf("config: BACKEND_URL is required for the http record source")
		}
	case RecordSourcePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the postgres record source")
		}
	default:
		return fmt.Errorf("config: unknown RECORD_SOURCE %q", c.RecordSource)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.TimelineTick <= 0 {
		return fmt.Errorf("config: TIMELINE_TICK must be positive")
	}
	return nil
}

// Location resolves the viewer timezone used for "today" and week bounds.
func (c *Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.ViewerTimezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: invalid VIEWER_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
