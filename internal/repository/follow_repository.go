package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// FollowRepo persists follow edges in the 'follows' table. The
// unique key on (follower_id, following_id) is the atomic
// check-then-insert guard for duplicate follows.
type FollowRepo struct{ DB *sql.DB }

func NewFollowRepo(db *sql.DB) *FollowRepo { return &FollowRepo{DB: db} }

// Create inserts a follow edge; duplicates are conflicts.
func (r *FollowRepo) Create(ctx context.Context, f *model.Follow) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO follows (follower_id, following_id) VALUES (?,?)",
		f.FollowerID, f.FollowingID)
	if err != nil {
		if dupKey(err) {
			return fmt.Errorf("already following: %w", service.ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Delete removes a follow edge; a missing edge is not found.
func (r *FollowRepo) Delete(ctx context.Context, followerID, followingID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=? AND following_id=?",
		followerID, followingID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("not following: %w", service.ErrNotFound)
	}
	return nil
}

// Followers lists users following userID, oldest edge first.
func (r *FollowRepo) Followers(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	return r.listEdges(ctx,
		`SELECT u.id, u.username FROM follows f
		 JOIN users u ON u.id = f.follower_id
		 WHERE f.following_id=? ORDER BY f.created_at, f.id`, userID)
}

// Following lists users userID follows, oldest edge first.
func (r *FollowRepo) Following(ctx context.Context, userID uint64) ([]model.UserSummary, error) {
	return r.listEdges(ctx,
		`SELECT u.id, u.username FROM follows f
		 JOIN users u ON u.id = f.following_id
		 WHERE f.follower_id=? ORDER BY f.created_at, f.id`, userID)
}

func (r *FollowRepo) listEdges(ctx context.Context, query string, userID uint64) ([]model.UserSummary, error) {
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.UserSummary, 0)
	for rows.Next() {
		var s model.UserSummary
		if err := rows.Scan(&s.ID, &s.Username); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
