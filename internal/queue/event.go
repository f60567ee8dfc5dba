// Package queue defines message payloads exchanged over the
// message broker and the background consumer that records them.
package queue

// BlogPublishedEvent is published after a blog is successfully
// created. It carries enough information for downstream consumers
// to log or notify without querying the primary database.
type BlogPublishedEvent struct {
	BlogID      uint64 `json:"blog_id"`
	AuthorID    uint64 `json:"author_id"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"` // RFC 3339 UTC
}
