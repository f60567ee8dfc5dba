// Package memory is an in-memory storage.Backend used in tests and
// local development when no S3 bucket is configured.
package memory

import (
	"context"
	"io"
	"sync"

	"github.com/fazilraphi/blig-blogs/internal/storage"
)

// Backend keeps uploaded objects in a map guarded by a mutex.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

// New creates an empty in-memory backend.
func New() *Backend {
	return &Backend{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Upload reads the stream fully and stores it under key. The
// returned URL uses a memory:// scheme; it is resolvable only by
// Get on the same backend.
func (b *Backend) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	b.types[key] = contentType
	return &storage.Object{URL: "memory://" + key}, nil
}

// Get returns a stored object's bytes and content type.
func (b *Backend) Get(key string) ([]byte, string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.objects[key]
	return data, b.types[key], ok
}

// Len reports how many objects were uploaded.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}
