package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"friendgraph/database"
)

// userTotalFriendCount yields (user_id, total_friend_count) for every user
// owning at least one accepted edge.
func userTotalFriendCount() relation {
	return relation{
		name: "user_total_friend_count",
		query: `SELECT user_id, COUNT(DISTINCT friend_id) AS total_friend_count
	FROM accepted_friendships
	GROUP BY user_id`,
		deps: []relation{acceptedEdges()},
	}
}

// TotalFriendCount returns the number of accepted friends of userID, 0 when
// the user has none.
func (r *Repository) TotalFriendCount(ctx context.Context, userID string) (count int, err error) {
	defer r.observe("total_friend_count", time.Now(), &err)

	query, args := selectAll(userTotalFriendCount(), " WHERE user_id = ?", userID).build()

	var n sql.NullInt64
	var owner string
	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&owner, &n)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("total friend count: %w", err)
	}

	return countValue("total_friend_count", "total_friend_count", n)
}

// countValue converts a scanned aggregate into a friend view count.
func countValue(operation, column string, n sql.NullInt64) (int, error) {
	if !n.Valid {
		return 0, &ShapeError{Operation: operation, Column: column, Reason: "unexpected NULL"}
	}
	if n.Int64 < 0 {
		return 0, &ShapeError{Operation: operation, Column: column, Reason: fmt.Sprintf("negative count %d", n.Int64)}
	}
	return int(n.Int64), nil
}
