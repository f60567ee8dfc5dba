// Package storage abstracts the external media host. The core only
// needs to push a byte stream and get back a URL; everything else
// (CDN, thumbnails, lifecycle) belongs to the backend.
package storage

import (
	"context"
	"io"
)

// Object describes a stored media object as seen by the rest of
// the application.
type Object struct {
	URL          string // public URL of the uploaded object
	ThumbnailURL string // optional; empty when the backend produces none
}

// Backend uploads media to an external host. Implementations must
// honor the context for cancellation and surface failures to the
// caller; the services translate them into an upstream error.
type Backend interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) (*Object, error)
}
