package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the campaign API.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	ClickHouse ClickHouseConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
	Cache      CacheConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ClickHouseConfig configures the optional analytical stat archive.
type ClickHouseConfig struct {
	Enabled  bool
	Addr     string
	Database string
	User     string
	Password string
}

type AuthConfig struct {
	Enabled   bool
	MasterKey string
	SkipPaths []string
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// CacheConfig configures the derived-metrics memo.
type CacheConfig struct {
	// Backend is "memory" or "redis".
	Backend string
	// TTL for redis entries; zero means until invalidated.
	TTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("CAMPAIGN_API_HTTP_ADDR", ":8080"),
			Env:             getEnv("CAMPAIGN_API_ENV", "development"),
			ShutdownTimeout: getDurationEnv("CAMPAIGN_API_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("CAMPAIGN_API_DB_HOST", "localhost"),
			Port:     getIntEnv("CAMPAIGN_API_DB_PORT", 5432),
			User:     getEnv("CAMPAIGN_API_DB_USER", "campaigns"),
			Password: getEnv("CAMPAIGN_API_DB_PASSWORD", "campaigns_secret"),
			DBName:   getEnv("CAMPAIGN_API_DB_NAME", "campaigns"),
			SSLMode:  getEnv("CAMPAIGN_API_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("CAMPAIGN_API_DB_MAX_CONNS", 25),
			MinConns: getIntEnv("CAMPAIGN_API_DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("CAMPAIGN_API_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CAMPAIGN_API_REDIS_PASSWORD", ""),
			DB:       getIntEnv("CAMPAIGN_API_REDIS_DB", 0),
		},
		ClickHouse: ClickHouseConfig{
			Enabled:  getBoolEnv("CAMPAIGN_API_CLICKHOUSE_ENABLED", false),
			Addr:     getEnv("CAMPAIGN_API_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CAMPAIGN_API_CLICKHOUSE_DB", "campaigns"),
			User:     getEnv("CAMPAIGN_API_CLICKHOUSE_USER", "default"),
			Password: getEnv("CAMPAIGN_API_CLICKHOUSE_PASSWORD", ""),
		},
		Auth: AuthConfig{
			Enabled:   getBoolEnv("CAMPAIGN_API_AUTH_ENABLED", true),
			MasterKey: getEnv("CAMPAIGN_API_KEY_MASTER", ""),
			SkipPaths: getSliceEnv("CAMPAIGN_API_AUTH_SKIP_PATHS", []string{"/health", "/metrics"}),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("CAMPAIGN_API_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("CAMPAIGN_API_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("CAMPAIGN_API_RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("CAMPAIGN_API_LOG_LEVEL", "info"),
			Format: getEnv("CAMPAIGN_API_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("CAMPAIGN_API_METRICS_ENABLED", true),
			Path:    getEnv("CAMPAIGN_API_METRICS_PATH", "/metrics"),
		},
		Cache: CacheConfig{
			Backend: getEnv("CAMPAIGN_API_CACHE_BACKEND", "memory"),
			TTL:     getDurationEnv("CAMPAIGN_API_CACHE_TTL", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Auth.Enabled && c.Auth.MasterKey == "" {
		return fmt.Errorf("CAMPAIGN_API_KEY_MASTER is required when auth is enabled")
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
