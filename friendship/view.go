package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"friendgraph/database"
	"friendgraph/models"
)

// friendViews joins the requester's accepted friends with their profile, their
// total friend count and the given mutual count relation. Every listed friend
// owns at least the edge back to the requester, so the total count join is
// inner; the mutual count join is left and defaults to 0.
func friendViews(requesterID string, mutual relation, targetID string) statement {
	body := `SELECT friends.id, friends.full_name, friends.phone_number,
	t.total_friend_count, COALESCE(m.mutual_friend_count, 0) AS mutual_friend_count
FROM users friends
INNER JOIN friendships f ON f.friend_id = friends.id
INNER JOIN user_total_friend_count t ON t.user_id = friends.id
LEFT JOIN ` + mutual.name + ` m ON m.friend_id = friends.id
WHERE f.user_id = ? AND f.status = ?`
	args := []any{requesterID, models.StatusAccepted}

	if targetID != "" {
		body += " AND f.friend_id = ?"
		args = append(args, targetID)
	}
	body += "\nORDER BY friends.full_name, friends.id"

	return statement{
		with: []relation{userTotalFriendCount(), mutual},
		body: body,
		args: args,
	}
}

// GetFriendView returns targetID as seen by requesterID, or ErrFriendNotFound
// when there is no accepted edge requesterID->targetID.
func (r *Repository) GetFriendView(ctx context.Context, requesterID, targetID string) (view *models.FriendView, err error) {
	defer r.observe("get_friend_view", time.Now(), &err)

	query, args := friendViews(requesterID, mutualFriendCount(requesterID, targetID), targetID).build()

	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, r.dialect.Rebind(query), args...)
		v, err := scanFriendView("get_friend_view", row)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFriendNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get friend view: %w", err)
	}

	return view, nil
}

// GetAllFriendViews returns every accepted friend of requesterID with counts
// computed in one statement. The result is empty, not nil, when there are
// none.
func (r *Repository) GetAllFriendViews(ctx context.Context, requesterID string) (views []models.FriendView, err error) {
	defer r.observe("get_all_friend_views", time.Now(), &err)

	query, args := friendViews(requesterID, mutualFriendsCount(requesterID), "").build()

	views = []models.FriendView{}
	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.dialect.Rebind(query), args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			v, err := scanFriendView("get_all_friend_views", rows)
			if err != nil {
				return err
			}
			views = append(views, *v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get all friend views: %w", err)
	}

	return views, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFriendView(operation string, row scanner) (*models.FriendView, error) {
	var id, fullName, phoneNumber sql.NullString
	var total, mutual sql.NullInt64
	if err := row.Scan(&id, &fullName, &phoneNumber, &total, &mutual); err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name  string
		value sql.NullString
	}{
		{"id", id},
		{"full_name", fullName},
		{"phone_number", phoneNumber},
	} {
		if !col.value.Valid || col.value.String == "" {
			return nil, &ShapeError{Operation: operation, Column: col.name, Reason: "empty value"}
		}
	}

	totalCount, err := countValue(operation, "total_friend_count", total)
	if err != nil {
		return nil, err
	}
	mutualCount, err := countValue(operation, "mutual_friend_count", mutual)
	if err != nil {
		return nil, err
	}

	return &models.FriendView{
		ID:                id.String,
		FullName:          fullName.String,
		PhoneNumber:       phoneNumber.String,
		TotalFriendCount:  totalCount,
		MutualFriendCount: mutualCount,
	}, nil
}
