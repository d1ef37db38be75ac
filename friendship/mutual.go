package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"friendgraph/database"
)

// mutualFriendCount yields at most one row (user_id, friend_id,
// mutual_friend_count) for the pair (userID, friendUserID). No row means the
// two share no accepted friend.
func mutualFriendCount(userID, friendUserID string) relation {
	return relation{
		name: "mutual_friend_count",
		query: `SELECT uf.user_id, ff.user_id AS friend_id, COUNT(*) AS mutual_friend_count
	FROM user_friends uf
	INNER JOIN friend_friends ff ON ff.friend_id = uf.friend_id
	WHERE uf.friend_id <> uf.user_id AND uf.friend_id <> ff.user_id
	GROUP BY uf.user_id, ff.user_id`,
		deps: []relation{
			friendsOf("user_friends", userID),
			friendsOf("friend_friends", friendUserID),
		},
	}
}

// mutualFriendsCount yields one row per accepted friend X of userID that
// shares at least one accepted friend C with userID, in a single grouped
// join. The edge X->C only counts when its owner is not C itself.
func mutualFriendsCount(userID string) relation {
	return relation{
		name: "mutual_friends_count",
		query: `SELECT uf.user_id, ff.user_id AS friend_id, COUNT(*) AS mutual_friend_count
	FROM requester_friends uf
	INNER JOIN accepted_friendships ff
		ON ff.friend_id = uf.friend_id AND ff.user_id <> uf.friend_id
	INNER JOIN requester_friends x ON x.friend_id = ff.user_id
	GROUP BY uf.user_id, ff.user_id`,
		deps: []relation{
			acceptedEdges(),
			friendsOf("requester_friends", userID),
		},
	}
}

// MutualFriendCount returns how many accepted friends userID and
// friendUserID have in common.
func (r *Repository) MutualFriendCount(ctx context.Context, userID, friendUserID string) (count int, err error) {
	defer r.observe("mutual_friend_count", time.Now(), &err)

	if userID == friendUserID {
		return 0, ErrSamePair
	}

	query, args := selectAll(mutualFriendCount(userID, friendUserID), "").build()

	var owner, friend string
	var n sql.NullInt64
	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&owner, &friend, &n)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("mutual friend count: %w", err)
	}

	return countValue("mutual_friend_count", "mutual_friend_count", n)
}

// MutualFriendCounts returns the mutual friend count between userID and each
// of its accepted friends. Friends with nothing in common are present with 0.
func (r *Repository) MutualFriendCounts(ctx context.Context, userID string) (counts map[string]int, err error) {
	defer r.observe("mutual_friends_count", time.Now(), &err)

	query, args := statement{
		with: []relation{mutualFriendsCount(userID)},
		body: `SELECT rf.friend_id, COALESCE(m.mutual_friend_count, 0)
FROM requester_friends rf
LEFT JOIN mutual_friends_count m ON m.friend_id = rf.friend_id`,
	}.build()

	counts = make(map[string]int)
	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var friendID string
			var n sql.NullInt64
			if err := rows.Scan(&friendID, &n); err != nil {
				return err
			}
			count, err := countValue("mutual_friends_count", "mutual_friend_count", n)
			if err != nil {
				return err
			}
			counts[friendID] = count
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("mutual friends count: %w", err)
	}

	return counts, nil
}
