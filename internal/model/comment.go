package model

import "time"

// Comment represents a row in the `comments` table. Any
// authenticated user may comment on any blog; only the comment's
// author may delete it.
//
// Fields:
//  ID             – primary key identifier.
//  BlogID         – blogs.id of the commented blog.
//  AuthorID       – users.id of the comment author.
//  Content        – comment text, never empty.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
//  AuthorUsername – derived: author's username, populated by joined selects.
type Comment struct {
	ID        uint64    // comments.id
	BlogID    uint64    // comments.blog_id
	AuthorID  uint64    // comments.author_id
	Content   string    // comments.content
	CreatedAt time.Time // comments.created_at
	UpdatedAt time.Time // comments.updated_at

	// Not a column; filled in by joined reads.
	AuthorUsername string
}
