// Package databasetest opens throwaway SQLite databases with the service
// schema for package tests.
package databasetest

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"friendgraph/database"
	"friendgraph/models"
)

// Open returns a fresh database in t.TempDir(), closed on cleanup.
func Open(t testing.TB) *sql.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "friendgraph.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, _, err := database.Open("sqlite", dsn, database.PoolConfig{MaxOpenConns: 8})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.CreateTables(db, database.SQLite))
	return db
}

// CreateUser inserts a profile row and returns its id.
func CreateUser(t testing.TB, db *sql.DB, fullName string) string {
	t.Helper()

	id := uuid.New().String()
	now := time.Now().UTC()
	InsertUser(t, db, models.User{
		ID:          id,
		FullName:    fullName,
		PhoneNumber: "+1555" + id[:7],
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return id
}

// InsertUser writes u as given, empty fields included.
func InsertUser(t testing.TB, db *sql.DB, u models.User) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO users (id, full_name, phone_number, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.FullName, u.PhoneNumber, u.CreatedAt, u.UpdatedAt,
	)
	require.NoError(t, err)
}

// CreateUsers inserts one user per name, preserving order.
func CreateUsers(t testing.TB, db *sql.DB, names ...string) []string {
	t.Helper()

	ids := make([]string, len(names))
	for i, name := range names {
		ids[i] = CreateUser(t, db, name)
	}
	return ids
}
