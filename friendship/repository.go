// Package friendship computes friend lists, total friend counts and mutual
// friend counts over the friendships edge table, and records the request,
// accept and decline transitions that produce those edges.
//
// An accepted friendship is stored as two accepted edges, one per direction.
// Edges with any other status never contribute to a count.
package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"friendgraph/database"
	"friendgraph/metrics"
	"friendgraph/models"
)

type Repository struct {
	db      *sql.DB
	dialect database.Dialect
}

func NewRepository(db *sql.DB, dialect database.Dialect) *Repository {
	return &Repository{db: db, dialect: dialect}
}

func (r *Repository) observe(operation string, start time.Time, errp *error) {
	result := metrics.ResultSuccess
	var shapeErr *ShapeError
	switch err := *errp; {
	case err == nil:
	case errors.As(err, &shapeErr):
		result = metrics.ResultInvalid
	case errors.Is(err, ErrFriendNotFound), errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrUserNotFound):
		result = metrics.ResultNotFound
	default:
		result = metrics.ResultError
	}
	metrics.ObserveQuery(operation, start, result)
}

// SendRequest records a friend request userID->friendID. A declined or
// pending edge for the same ordered pair is rewritten in place.
func (r *Repository) SendRequest(ctx context.Context, userID, friendID string) (err error) {
	defer r.observe("send_request", time.Now(), &err)

	if userID == friendID {
		return ErrSelfFriendship
	}

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, r.dialect.Rebind("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)"), friendID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("send request: %w", err)
		}
		if !exists {
			return ErrUserNotFound
		}

		var status string
		err = tx.QueryRowContext(ctx,
			r.dialect.Rebind("SELECT status FROM friendships WHERE user_id = ? AND friend_id = ?"),
			userID, friendID,
		).Scan(&status)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("send request: %w", err)
		}
		if status == models.StatusAccepted {
			return ErrAlreadyFriends
		}

		return r.upsert(ctx, tx, userID, friendID, models.StatusRequested)
	})
}

// AcceptRequest accepts the pending request friendID->userID and records the
// reverse edge, leaving both directions accepted.
func (r *Repository) AcceptRequest(ctx context.Context, userID, friendID string) (err error) {
	defer r.observe("accept_request", time.Now(), &err)

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := r.answer(ctx, tx, userID, friendID, models.StatusAccepted); err != nil {
			return err
		}
		return r.upsert(ctx, tx, userID, friendID, models.StatusAccepted)
	})
}

// DeclineRequest marks the pending request friendID->userID as declined.
func (r *Repository) DeclineRequest(ctx context.Context, userID, friendID string) (err error) {
	defer r.observe("decline_request", time.Now(), &err)

	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		return r.answer(ctx, tx, userID, friendID, models.StatusDeclined)
	})
}

// OutgoingRequests lists the edges userID sent that are not accepted, most
// recently changed first.
func (r *Repository) OutgoingRequests(ctx context.Context, userID string) (requests []models.Friendship, err error) {
	defer r.observe("outgoing_requests", time.Now(), &err)

	requests = []models.Friendship{}
	err = database.WithConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, r.dialect.Rebind(`
			SELECT id, user_id, friend_id, status, created_at, updated_at
			FROM friendships
			WHERE user_id = ? AND status <> ?
			ORDER BY updated_at DESC, id
		`), userID, models.StatusAccepted)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var f models.Friendship
			if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
				return err
			}
			requests = append(requests, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("outgoing requests: %w", err)
	}

	return requests, nil
}

// answer moves the pending edge friendID->userID to status.
func (r *Repository) answer(ctx context.Context, tx *sql.Tx, userID, friendID, status string) error {
	result, err := tx.ExecContext(ctx,
		r.dialect.Rebind("UPDATE friendships SET status = ?, updated_at = ? WHERE user_id = ? AND friend_id = ? AND status = ?"),
		status, time.Now().UTC(), friendID, userID, models.StatusRequested,
	)
	if err != nil {
		return fmt.Errorf("answer request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("answer request: %w", err)
	}
	if rowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *Repository) upsert(ctx context.Context, tx *sql.Tx, userID, friendID, status string) error {
	now := time.Now().UTC()
	_, err := tx.ExecContext(ctx, r.dialect.Rebind(r.dialect.UpsertFriendship),
		uuid.New().String(), userID, friendID, status, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert friendship: %w", err)
	}
	return nil
}
