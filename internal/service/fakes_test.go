package service_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
	"github.com/fazilraphi/blig-blogs/internal/storage"
)

// In-memory store fakes. They mirror the MySQL repositories'
// contracts: auto-increment ids, unique constraints reported as
// ErrConflict, missing rows as ErrNotFound. Everything is mutex
// guarded so concurrency tests are meaningful.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uint64]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return fmt.Errorf("duplicate user: %w", service.ErrConflict)
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *fakeUserStore) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user by email: %w", service.ErrNotFound)
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, service.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) SetProfileImage(_ context.Context, id uint64, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, service.ErrNotFound)
	}
	u.ProfileImageURL = url
	return nil
}

type fakeBlogStore struct {
	mu     sync.Mutex
	nextID uint64
	blogs  map[uint64]*model.Blog

	// Optional collaborators, mirroring the SQL joins and the
	// cascade delete transaction.
	likes    *fakeLikeStore
	media    *fakeMediaStore
	comments *fakeCommentStore
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{blogs: make(map[uint64]*model.Blog)}
}

func (s *fakeBlogStore) Create(_ context.Context, b *model.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *fakeBlogStore) GetByID(_ context.Context, id uint64) (*model.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return nil, fmt.Errorf("blog %d: %w", id, service.ErrNotFound)
	}
	cp := *b
	if s.likes != nil {
		cp.LikesCount = s.likes.countForBlog(id)
	}
	return &cp, nil
}

func (s *fakeBlogStore) List(_ context.Context, limit, offset int) ([]*model.Blog, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]*model.Blog, 0, len(s.blogs))
	for _, b := range s.blogs {
		cp := *b
		all = append(all, &cp)
	}
	// Newest first, id as tiebreaker, same as the SQL ORDER BY.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeBlogStore) Update(_ context.Context, b *model.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[b.ID]; !ok {
		return fmt.Errorf("blog %d: %w", b.ID, service.ErrNotFound)
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *fakeBlogStore) DeleteCascade(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[id]; !ok {
		return fmt.Errorf("blog %d: %w", id, service.ErrNotFound)
	}
	delete(s.blogs, id)
	if s.media != nil {
		s.media.deleteByBlog(id)
	}
	if s.comments != nil {
		s.comments.deleteByBlog(id)
	}
	return nil
}

type fakeMediaStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   []*model.Media
}

func newFakeMediaStore() *fakeMediaStore { return &fakeMediaStore{} }

func (s *fakeMediaStore) Create(_ context.Context, m *model.Media) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := 0
	for _, row := range s.rows {
		if row.BlogID == m.BlogID {
			pos++
		}
	}
	s.nextID++
	m.ID = s.nextID
	m.Position = pos
	m.CreatedAt = time.Now().UTC()
	cp := *m
	s.rows = append(s.rows, &cp)
	return nil
}

func (s *fakeMediaStore) ListByBlog(_ context.Context, blogID uint64) ([]*model.Media, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Media
	for _, row := range s.rows {
		if row.BlogID == blogID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *fakeMediaStore) deleteByBlog(blogID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.rows[:0]
	for _, row := range s.rows {
		if row.BlogID != blogID {
			kept = append(kept, row)
		}
	}
	s.rows = kept
}

type fakeCommentStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{rows: make(map[uint64]*model.Comment)}
}

func (s *fakeCommentStore) Create(_ context.Context, c *model.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = s.nextID
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	s.rows[c.ID] = &cp
	return nil
}

func (s *fakeCommentStore) GetByID(_ context.Context, id uint64) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, fmt.Errorf("comment %d: %w", id, service.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *fakeCommentStore) ListByBlog(_ context.Context, blogID uint64) ([]*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Comment
	for _, c := range s.rows {
		if c.BlogID == blogID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return fmt.Errorf("comment %d: %w", id, service.ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}

func (s *fakeCommentStore) deleteByBlog(blogID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.rows {
		if c.BlogID == blogID {
			delete(s.rows, id)
		}
	}
}

type followKey struct{ follower, following uint64 }

type fakeFollowStore struct {
	mu    sync.Mutex
	users *fakeUserStore
	seq   uint64
	edges map[followKey]uint64 // key -> insertion order
}

func newFakeFollowStore(users *fakeUserStore) *fakeFollowStore {
	return &fakeFollowStore{users: users, edges: make(map[followKey]uint64)}
}

func (s *fakeFollowStore) Create(_ context.Context, f *model.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := followKey{f.FollowerID, f.FollowingID}
	if _, ok := s.edges[k]; ok {
		return fmt.Errorf("already following: %w", service.ErrConflict)
	}
	s.seq++
	s.edges[k] = s.seq
	return nil
}

func (s *fakeFollowStore) Delete(_ context.Context, followerID, followingID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := followKey{followerID, followingID}
	if _, ok := s.edges[k]; !ok {
		return fmt.Errorf("not following: %w", service.ErrNotFound)
	}
	delete(s.edges, k)
	return nil
}

func (s *fakeFollowStore) Followers(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	return s.list(ctx, userID, false)
}

func (s *fakeFollowStore) Following(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	return s.list(ctx, userID, true)
}

func (s *fakeFollowStore) list(ctx context.Context, userID uint64, following bool) ([]model.UserSummary, error) {
	s.mu.Lock()
	type entry struct {
		id  uint64
		ord uint64
	}
	var ids []entry
	for k, ord := range s.edges {
		if following && k.follower == userID {
			ids = append(ids, entry{k.following, ord})
		}
		if !following && k.following == userID {
			ids = append(ids, entry{k.follower, ord})
		}
	}
	s.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i].ord < ids[j].ord })

	out := make([]model.UserSummary, 0, len(ids))
	for _, e := range ids {
		u, err := s.users.GetByID(ctx, e.id)
		if err != nil {
			return nil, err
		}
		out = append(out, model.UserSummary{ID: u.ID, Username: u.Username})
	}
	return out, nil
}

type likeKey struct{ user, blog uint64 }

type fakeLikeStore struct {
	mu    sync.Mutex
	edges map[likeKey]struct{}
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{edges: make(map[likeKey]struct{})}
}

func (s *fakeLikeStore) Create(_ context.Context, l *model.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey{l.UserID, l.BlogID}
	if _, ok := s.edges[k]; ok {
		return fmt.Errorf("already liked: %w", service.ErrConflict)
	}
	s.edges[k] = struct{}{}
	return nil
}

func (s *fakeLikeStore) Delete(_ context.Context, userID, blogID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := likeKey{userID, blogID}
	if _, ok := s.edges[k]; !ok {
		return fmt.Errorf("not liked: %w", service.ErrNotFound)
	}
	delete(s.edges, k)
	return nil
}

func (s *fakeLikeStore) countForBlog(blogID uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.edges {
		if k.blog == blogID {
			n++
		}
	}
	return n
}

type fakeRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expires_at
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.revoked[jti]; !ok {
		s.revoked[jti] = expiresAt
	}
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

func (s *fakeRevocationStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for jti, exp := range s.revoked {
		if exp.Before(before) {
			delete(s.revoked, jti)
			n++
		}
	}
	return n, nil
}

func (s *fakeRevocationStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.revoked)
}

// fakeBackend records uploads and hands back deterministic URLs.
type fakeBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{objects: make(map[string][]byte)}
}

func (b *fakeBackend) Upload(_ context.Context, key, _ string, r io.Reader) (*storage.Object, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return &storage.Object{URL: "https://media.test/" + key}, nil
}

func (b *fakeBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

// failingBackend refuses every upload, standing in for an
// unreachable media store.
type failingBackend struct{}

func (failingBackend) Upload(context.Context, string, string, io.Reader) (*storage.Object, error) {
	return nil, errors.New("connection refused")
}
