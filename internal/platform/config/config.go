// Package config builds runtime configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs at startup.
type Config struct {
	Addr          string
	DatabaseURL   string
	JWTSigningKey string
	LogLevel      string
	LogFormat     string
	Redis         RedisConfig
	ReportCache   ReportCacheConfig
}

// RedisConfig holds connection settings for the optional Redis cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ReportCacheConfig controls the rendered-report payload cache.
type ReportCacheConfig struct {
	TTL time.Duration
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:          envOr("ASSETDOG_ADDR", ":8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),
		LogFormat:     envOr("LOG_FORMAT", "TEXT"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envOrInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envOrInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envOrDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envOrDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envOrDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		ReportCache: ReportCacheConfig{
			TTL: envOrDuration("REPORT_CACHE_TTL", 30*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
