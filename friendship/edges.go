package friendship

import "friendgraph/models"

// acceptedEdges is the directed edge set every count is computed from.
func acceptedEdges() relation {
	return relation{
		name:  "accepted_friendships",
		query: "SELECT user_id, friend_id FROM friendships WHERE status = ?",
		args:  []any{models.StatusAccepted},
	}
}

// friendsOf restricts the accepted edges to those owned by userID. name lets
// two restrictions live in one statement.
func friendsOf(name, userID string) relation {
	return relation{
		name:  name,
		query: "SELECT user_id, friend_id FROM accepted_friendships WHERE user_id = ?",
		args:  []any{userID},
		deps:  []relation{acceptedEdges()},
	}
}
