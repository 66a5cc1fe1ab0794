package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "propdesk.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
// PROPDESK_CONFIG overrides the YAML path.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if p := os.Getenv("PROPDESK_CONFIG"); p != "" {
		path = p
	}
	return LoadFrom(path)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PROPDESK_PORT")
	setString(&cfg.Server.CORSOrigin, "PROPDESK_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimit, "PROPDESK_BODY_LIMIT")
	setDuration(&cfg.Server.RequestTimeout, "PROPDESK_REQUEST_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "PROPDESK_SHUTDOWN_TIMEOUT")
	setDuration(&cfg.Server.IdempotencyTTL, "PROPDESK_IDEMPOTENCY_TTL")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "PROPDESK_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "PROPDESK_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "PROPDESK_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "PROPDESK_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "PROPDESK_PG_HEALTH_CHECK")

	setString(&cfg.NATS.URL, "NATS_URL")

	setString(&cfg.Logging.Level, "PROPDESK_LOG_LEVEL")
	setString(&cfg.Logging.Service, "PROPDESK_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "PROPDESK_LOG_ASYNC")

	// Cache
	setDuration(&cfg.Cache.DefaultTTL, "PROPDESK_CACHE_DEFAULT_TTL")
	setInt64(&cfg.Cache.L1MaxSizeMB, "PROPDESK_CACHE_L1_SIZE_MB")
	setDuration(&cfg.Cache.L1Expire, "PROPDESK_CACHE_L1_EXPIRE")
	setString(&cfg.Cache.L2Bucket, "PROPDESK_CACHE_L2_BUCKET")
	setDuration(&cfg.Cache.L2TTL, "PROPDESK_CACHE_L2_TTL")
	setBool(&cfg.Cache.Dedup, "PROPDESK_CACHE_DEDUP")
	setBool(&cfg.Cache.Revalidate, "PROPDESK_CACHE_REVALIDATE")
	setInt(&cfg.Cache.MaxConcurrentLoads, "PROPDESK_CACHE_MAX_CONCURRENT_LOADS")
	setDuration(&cfg.Cache.TTL.Payments, "PROPDESK_CACHE_TTL_PAYMENTS")
	setDuration(&cfg.Cache.TTL.Properties, "PROPDESK_CACHE_TTL_PROPERTIES")

	setInt(&cfg.Breaker.MaxFailures, "PROPDESK_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "PROPDESK_BREAKER_TIMEOUT")

	setFloat64(&cfg.Rate.RequestsPerSecond, "PROPDESK_RATE_RPS")
	setInt(&cfg.Rate.Burst, "PROPDESK_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "PROPDESK_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "PROPDESK_RATE_MAX_IDLE_TIME")

	// OpenTelemetry
	setBool(&cfg.OTEL.Enabled, "PROPDESK_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.OTEL.Insecure, "PROPDESK_OTEL_INSECURE")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setFloat64(&cfg.OTEL.SampleRate, "PROPDESK_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Server.BodyLimit < 1 {
		return errors.New("server.body_limit must be >= 1")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.Cache.DefaultTTL <= 0 {
		return errors.New("cache.default_ttl must be > 0")
	}
	if cfg.Cache.L1MaxSizeMB < 1 {
		return errors.New("cache.l1_max_size_mb must be >= 1")
	}
	if cfg.NATS.URL != "" && cfg.Cache.L2Bucket == "" {
		return errors.New("cache.l2_bucket is required when nats.url is set")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint == "" {
		return errors.New("otel.endpoint is required when otel is enabled")
	}
	if cfg.OTEL.SampleRate < 0 || cfg.OTEL.SampleRate > 1 {
		return errors.New("otel.sample_rate must be within [0, 1]")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
