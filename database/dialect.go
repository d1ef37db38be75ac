package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect holds the SQL that differs between the supported engines. Every
// other statement in the repo is written once with '?' placeholders and
// passed through Rebind.
type Dialect struct {
	Name       string
	DriverName string
	Schema     []string

	// UpsertFriendship inserts (id, user_id, friend_id, status, created_at,
	// updated_at) or, on a duplicate (user_id, friend_id), rewrites status
	// and updated_at in place.
	UpsertFriendship string

	numbered bool
}

var (
	MySQL = Dialect{
		Name:       "mysql",
		DriverName: "mysql",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id           VARCHAR(36) PRIMARY KEY,
				full_name    VARCHAR(100) NOT NULL,
				phone_number VARCHAR(32) NOT NULL,
				created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS friendships (
				id          VARCHAR(36) PRIMARY KEY,
				user_id     VARCHAR(36) NOT NULL,
				friend_id   VARCHAR(36) NOT NULL,
				status      ENUM('requested', 'accepted', 'declined') NOT NULL DEFAULT 'requested',
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
				UNIQUE KEY uk_friendship (user_id, friend_id),
				INDEX idx_friend_status (friend_id, status),
				CONSTRAINT chk_no_self_friendship CHECK (user_id <> friend_id)
			)`,
		},
		UpsertFriendship: `INSERT INTO friendships (id, user_id, friend_id, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE status = VALUES(status), updated_at = VALUES(updated_at)`,
	}

	SQLite = Dialect{
		Name:       "sqlite",
		DriverName: "sqlite",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id           TEXT PRIMARY KEY,
				full_name    TEXT NOT NULL,
				phone_number TEXT NOT NULL,
				created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS friendships (
				id          TEXT PRIMARY KEY,
				user_id     TEXT NOT NULL,
				friend_id   TEXT NOT NULL,
				status      TEXT NOT NULL DEFAULT 'requested' CHECK (status IN ('requested', 'accepted', 'declined')),
				created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (user_id, friend_id),
				CHECK (user_id <> friend_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_friend_status ON friendships (friend_id, status)`,
		},
		UpsertFriendship: upsertOnConflict,
	}

	Postgres = Dialect{
		Name:       "pgx",
		DriverName: "pgx",
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id           VARCHAR(36) PRIMARY KEY,
				full_name    VARCHAR(100) NOT NULL,
				phone_number VARCHAR(32) NOT NULL,
				created_at   TIMESTAMPTZ DEFAULT now(),
				updated_at   TIMESTAMPTZ DEFAULT now()
			)`,
			`CREATE TABLE IF NOT EXISTS friendships (
				id          VARCHAR(36) PRIMARY KEY,
				user_id     VARCHAR(36) NOT NULL,
				friend_id   VARCHAR(36) NOT NULL,
				status      VARCHAR(16) NOT NULL DEFAULT 'requested' CHECK (status IN ('requested', 'accepted', 'declined')),
				created_at  TIMESTAMPTZ DEFAULT now(),
				updated_at  TIMESTAMPTZ DEFAULT now(),
				UNIQUE (user_id, friend_id),
				CHECK (user_id <> friend_id)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_friend_status ON friendships (friend_id, status)`,
		},
		UpsertFriendship: upsertOnConflict,
		numbered:         true,
	}
)

const upsertOnConflict = `INSERT INTO friendships (id, user_id, friend_id, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, friend_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "pgx", "postgres", "postgresql":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax. The
// queries in this repo never contain '?' inside string literals.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] != '?' {
			b.WriteByte(query[i])
			continue
		}
		n++
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
