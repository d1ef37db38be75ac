package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "MYSQL_DSN", "QUERY_TIMEOUT", "DB_MAX_OPEN_CONNS", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	Load()

	assert.Equal(t, ":8080", Cfg.ServerAddr)
	assert.Equal(t, "mysql", Cfg.DBDriver)
	assert.Contains(t, Cfg.DBDSN, "parseTime=True")
	assert.Equal(t, 25, Cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Second, Cfg.QueryTimeout)
	assert.Equal(t, 8, Cfg.MutualBatchConcurrency)
	assert.Equal(t, DefaultCORSAllowedOrigins, Cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", "file:friendgraph.db")
	t.Setenv("QUERY_TIMEOUT", "250ms")
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")

	Load()

	assert.Equal(t, ":9090", Cfg.ServerAddr)
	assert.Equal(t, "sqlite", Cfg.DBDriver)
	assert.Equal(t, "file:friendgraph.db", Cfg.DBDSN)
	assert.Equal(t, 250*time.Millisecond, Cfg.QueryTimeout)
	assert.Equal(t, 3, Cfg.MaxOpenConns)
}

func TestLoad_MysqlDSNFallback(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("MYSQL_DSN", "u:p@tcp(db:3306)/x")

	Load()

	assert.Equal(t, "u:p@tcp(db:3306)/x", Cfg.DBDSN)
}

func TestGetEnvInt_IgnoresInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))

	t.Setenv("SOME_INT", "-2")
	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
}
