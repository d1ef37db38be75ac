package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"friendgraph/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

var (
	DB      *sql.DB
	Current Dialect
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Connect opens the configured database into the package globals.
func Connect() error {
	db, dialect, err := Open(config.Cfg.DBDriver, config.Cfg.DBDSN, PoolConfig{
		MaxOpenConns:    config.Cfg.MaxOpenConns,
		MaxIdleConns:    config.Cfg.MaxIdleConns,
		ConnMaxLifetime: config.Cfg.ConnMaxLifetime,
	})
	if err != nil {
		return err
	}

	DB = db
	Current = dialect

	slog.Info("Database connected successfully", "driver", dialect.Name)
	return nil
}

func Open(driver, dsn string, pool PoolConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, Dialect{}, err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, Dialect{}, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, Dialect{}, fmt.Errorf("ping %s: %w", dialect.Name, err)
	}

	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	return db, dialect, nil
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}

func CreateTables(db *sql.DB, dialect Dialect) error {
	for _, table := range dialect.Schema {
		if _, err := db.Exec(table); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}

	slog.Info("Database tables created successfully", "driver", dialect.Name)
	return nil
}
