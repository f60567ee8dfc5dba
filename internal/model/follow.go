package model

import "time"

// Follow represents a directed edge in the `follows` table: the
// follower follows the following user. The pair
// (follower_id, following_id) is unique. Self-follows are rejected
// in the social service before any insert is attempted; the table
// itself carries no such constraint.
type Follow struct {
	ID          uint64    // follows.id
	FollowerID  uint64    // follows.follower_id
	FollowingID uint64    // follows.following_id
	CreatedAt   time.Time // follows.created_at
}
