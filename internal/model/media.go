package model

import "time"

// Media type markers stored in media.media_type.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Media represents a row in the `media` table: one attachment of a
// blog, hosted externally and referenced by URL. Position is a
// zero-based append-only ordering: it is assigned as the count of
// media already attached to the blog at upload time and is not
// reused after deletion.
//
// Fields:
//  ID           – primary key identifier.
//  BlogID       – blogs.id of the owning blog.
//  UploaderID   – users.id of the uploader (always the blog author).
//  MediaType    – "image" or "video".
//  MediaURL     – URL of the stored object.
//  ThumbnailURL – optional thumbnail URL (empty when the backend has none).
//  Position     – zero-based slot within the blog's media list.
//  CreatedAt    – timestamp of creation.
type Media struct {
	ID           uint64    `json:"id"`            // media.id
	BlogID       uint64    `json:"blog_id"`       // media.blog_id
	UploaderID   uint64    `json:"uploader_id"`   // media.uploader_id
	MediaType    string    `json:"type"`          // media.media_type
	MediaURL     string    `json:"url"`           // media.media_url
	ThumbnailURL string    `json:"thumbnail_url,omitempty"` // media.thumbnail_url
	Position     int       `json:"position"`      // media.position
	CreatedAt    time.Time `json:"created_at"`    // media.created_at
}
