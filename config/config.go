package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ServerAddr string
	DBDriver   string
	DBDSN      string
	JWTSecret  string
	LogLevel   string

	// CORSAllowedOrigins is a comma separated list, or "*".
	CORSAllowedOrigins string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration

	// MutualBatchConcurrency bounds the number of pair queries in flight
	// for a single batch mutual-count request.
	MutualBatchConcurrency int
}

var Cfg *Config

const DefaultCORSAllowedOrigins = "http://localhost:5173,http://localhost:3000"

func Load() {
	Cfg = &Config{
		ServerAddr: ":" + getEnv("PORT", "8080"),
		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBDSN:      getEnv("DB_DSN", getEnv("MYSQL_DSN", "root:root@tcp(localhost:3306)/friendgraph?charset=utf8mb4&parseTime=True&loc=UTC")),
		JWTSecret:  getEnv("JWT_SECRET", "friendgraph-secret-key-change-in-production"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", DefaultCORSAllowedOrigins),

		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		QueryTimeout:    getEnvDuration("QUERY_TIMEOUT", 5*time.Second),

		MutualBatchConcurrency: getEnvInt("MUTUAL_BATCH_CONCURRENCY", 8),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
