package service

import (
	"context"
	"fmt"

	"github.com/fazilraphi/blig-blogs/internal/model"
)

// FollowStore persists follow edges. Create must enforce the
// (follower, following) unique constraint atomically and report a
// duplicate as ErrConflict; Delete reports a missing edge as
// ErrNotFound.
type FollowStore interface {
	Create(ctx context.Context, f *model.Follow) error
	Delete(ctx context.Context, followerID, followingID uint64) error
	Followers(ctx context.Context, userID uint64) ([]model.UserSummary, error)
	Following(ctx context.Context, userID uint64) ([]model.UserSummary, error)
}

// LikeStore persists like edges with the same conflict/not-found
// contract as FollowStore, scoped to (user, blog).
type LikeStore interface {
	Create(ctx context.Context, l *model.Like) error
	Delete(ctx context.Context, userID, blogID uint64) error
}

// Social manages the follow and like graphs.
type Social struct {
	follows FollowStore
	likes   LikeStore
	users   UserStore
	blogs   BlogStore
}

// NewSocial wires the social graph service. users and blogs are
// consulted only for existence checks.
func NewSocial(follows FollowStore, likes LikeStore, users UserStore, blogs BlogStore) *Social {
	return &Social{follows: follows, likes: likes, users: users, blogs: blogs}
}

// Follow inserts a follow edge. Self-follow is rejected before any
// store call; the edge's unique constraint turns a concurrent
// duplicate into ErrConflict.
func (s *Social) Follow(ctx context.Context, followerID, targetID uint64) error {
	if followerID == targetID {
		return fmt.Errorf("cannot follow yourself: %w", ErrInvalidInput)
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.follows.Create(ctx, &model.Follow{FollowerID: followerID, FollowingID: targetID})
}

// Unfollow removes a follow edge; absent edges are ErrNotFound.
func (s *Social) Unfollow(ctx context.Context, followerID, targetID uint64) error {
	return s.follows.Delete(ctx, followerID, targetID)
}

// Followers lists the users following userID. Unknown users are
// ErrNotFound, matching the other entity lookups.
func (s *Social) Followers(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Followers(ctx, userID)
}

// Following lists the users userID follows.
func (s *Social) Following(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.follows.Following(ctx, userID)
}

// Like records that a user liked a blog. Duplicate likes are
// ErrConflict.
func (s *Social) Like(ctx context.Context, userID, blogID uint64) error {
	if _, err := s.blogs.GetByID(ctx, blogID); err != nil {
		return err
	}
	return s.likes.Create(ctx, &model.Like{UserID: userID, BlogID: blogID})
}

// Unlike removes a like; absent likes are ErrNotFound.
func (s *Social) Unlike(ctx context.Context, userID, blogID uint64) error {
	return s.likes.Delete(ctx, userID, blogID)
}
