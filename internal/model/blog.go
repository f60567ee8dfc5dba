package model

import "time"

// Blog represents a row in the `blogs` table. A blog belongs to
// exactly one author and owns its media attachments, likes and
// comments; deleting a blog removes all of them.
//
// Fields:
//  ID             – primary key identifier.
//  AuthorID       – users.id of the author.
//  Title          – blog title, never empty.
//  BodyText       – blog body, never empty.
//  IsPublished    – publication flag; new blogs are created published.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
//  AuthorUsername – derived: author's username, populated by joined selects.
//  LikesCount     – derived: number of likes, populated by joined selects.
type Blog struct {
	ID          uint64    // blogs.id
	AuthorID    uint64    // blogs.author_id
	Title       string    // blogs.title
	BodyText    string    // blogs.body_text
	IsPublished bool      // blogs.is_published
	CreatedAt   time.Time // blogs.created_at
	UpdatedAt   time.Time // blogs.updated_at

	// Not columns of the blogs table. Filled in by the repository
	// when reading, zero-valued on writes.
	AuthorUsername string
	LikesCount     int
}
