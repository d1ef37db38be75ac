package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friendgraph/database"
	"friendgraph/database/databasetest"
)

func TestDialectFor(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"mysql", "mysql"},
		{"sqlite", "sqlite"},
		{"sqlite3", "sqlite"},
		{"pgx", "pgx"},
		{"postgres", "pgx"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			d, err := database.DialectFor(tt.driver)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}

	_, err := database.DialectFor("oracle")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "SELECT a FROM t WHERE x = ? AND y = ? OR z = ?"

	assert.Equal(t, q, database.MySQL.Rebind(q))
	assert.Equal(t, q, database.SQLite.Rebind(q))
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2 OR z = $3", database.Postgres.Rebind(q))
}

func TestCreateTables_Idempotent(t *testing.T) {
	db := databasetest.Open(t)

	require.NoError(t, database.CreateTables(db, database.SQLite))
}

func TestSchema_RejectsSelfFriendship(t *testing.T) {
	db := databasetest.Open(t)
	id := databasetest.CreateUser(t, db, "Self")

	_, err := db.Exec(
		"INSERT INTO friendships (id, user_id, friend_id, status) VALUES (?, ?, ?, 'accepted')",
		"f1", id, id,
	)
	assert.Error(t, err)
}

func TestUpsertFriendship_ReplacesInPlace(t *testing.T) {
	db := databasetest.Open(t)
	ids := databasetest.CreateUsers(t, db, "A", "B")

	_, err := db.Exec(database.SQLite.UpsertFriendship, "f1", ids[0], ids[1], "declined", "2024-01-01 00:00:00", "2024-01-01 00:00:00")
	require.NoError(t, err)
	_, err = db.Exec(database.SQLite.UpsertFriendship, "f2", ids[0], ids[1], "requested", "2024-01-02 00:00:00", "2024-01-02 00:00:00")
	require.NoError(t, err)

	var count int
	var id, status string
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM friendships").Scan(&count))
	require.NoError(t, db.QueryRow("SELECT id, status FROM friendships").Scan(&id, &status))

	assert.Equal(t, 1, count)
	assert.Equal(t, "f1", id)
	assert.Equal(t, "requested", status)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := databasetest.Open(t)
	boom := errors.New("boom")

	err := database.WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO users (id, full_name, phone_number) VALUES ('u1', 'A', '1')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Zero(t, count)
}

func TestWithConn_ReleasesConnection(t *testing.T) {
	db := databasetest.Open(t)
	db.SetMaxOpenConns(1)

	for i := 0; i < 3; i++ {
		err := database.WithConn(context.Background(), db, func(conn *sql.Conn) error {
			return errors.New("query failed")
		})
		require.Error(t, err)
	}

	assert.Equal(t, 0, db.Stats().InUse)
}
