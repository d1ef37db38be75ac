package models

import "time"

const (
	StatusRequested = "requested"
	StatusAccepted  = "accepted"
	StatusDeclined  = "declined"
)

type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"` // requested, accepted, declined
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FriendView is a friend's profile as seen by one requester.
type FriendView struct {
	ID                string `json:"id"`
	FullName          string `json:"full_name"`
	PhoneNumber       string `json:"phone_number"`
	TotalFriendCount  int    `json:"total_friend_count"`
	MutualFriendCount int    `json:"mutual_friend_count"`
}

type MutualFriendCount struct {
	UserID            string `json:"user_id"`
	FriendID          string `json:"friend_id"`
	MutualFriendCount int    `json:"mutual_friend_count"`
}
