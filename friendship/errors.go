package friendship

import (
	"errors"
	"fmt"
)

var (
	ErrFriendNotFound  = errors.New("friend not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrRequestNotFound = errors.New("friend request not found")
	ErrAlreadyFriends  = errors.New("already friends")
	ErrSelfFriendship  = errors.New("cannot add yourself as friend")
	ErrSamePair        = errors.New("mutual friend count needs two different users")
)

// ShapeError reports a composed row that does not match the friend view
// shape. It points at a broken join or aggregate, not at bad input.
type ShapeError struct {
	Operation string
	Column    string
	Reason    string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Operation, e.Column, e.Reason)
}
