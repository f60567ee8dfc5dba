package model

import "time"

// Like represents a row in the `likes` table. The pair
// (user_id, blog_id) is unique: a user can like a given blog at
// most once.
type Like struct {
	ID        uint64    // likes.id
	UserID    uint64    // likes.user_id
	BlogID    uint64    // likes.blog_id
	CreatedAt time.Time // likes.created_at
}
