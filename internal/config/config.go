package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL string

	RedisURL      string
	StatsCacheTTL time.Duration

	JWTSecret string

	ListenerMinReconnect time.Duration
	ListenerMaxReconnect time.Duration
	StreamOpenTimeout    time.Duration
	SessionIdleTimeout   time.Duration
	SSEKeepAlive         time.Duration

	MinIOEndpoint       string
	MinIOPublicEndpoint string
	MinIOAccessKey      string
	MinIOSecretKey      string
	MinIOCatalogBucket  string
	MinIOUseSSL         bool
	MinIOPublicUseSSL   bool
	CatalogMaxSize      int64

	LocalesPath   string
	DefaultLocale string

	CORSOrigins string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		StatsCacheTTL: getDurationEnv("STATS_CACHE_TTL", 30*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),

		ListenerMinReconnect: getDurationEnv("LISTENER_MIN_RECONNECT", 2*time.Second),
		ListenerMaxReconnect: getDurationEnv("LISTENER_MAX_RECONNECT", time.Minute),
		StreamOpenTimeout:    getDurationEnv("STREAM_OPEN_TIMEOUT", 10*time.Second),
		SessionIdleTimeout:   getDurationEnv("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SSEKeepAlive:         getDurationEnv("SSE_KEEPALIVE", 25*time.Second),

		MinIOEndpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOPublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
		MinIOAccessKey:      getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:      getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOCatalogBucket:  getEnv("MINIO_CATALOG_BUCKET", "agentsleads-catalogs"),
		MinIOUseSSL:         getBoolEnv("MINIO_USE_SSL", false),
		MinIOPublicUseSSL:   getBoolEnv("MINIO_PUBLIC_USE_SSL", true),
		CatalogMaxSize:      int64(getIntEnv("CATALOG_MAX_SIZE_MB", 20)) << 20,

		LocalesPath:   getEnv("LOCALES_PATH", "locales"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "es"),

		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
