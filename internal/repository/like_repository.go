package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// LikeRepo persists like edges in the 'likes' table. The unique
// key on (user_id, blog_id) guarantees at most one like per user
// per blog under concurrency.
type LikeRepo struct{ DB *sql.DB }

func NewLikeRepo(db *sql.DB) *LikeRepo { return &LikeRepo{DB: db} }

// Create inserts a like; a duplicate is a conflict.
func (r *LikeRepo) Create(ctx context.Context, l *model.Like) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO likes (user_id, blog_id) VALUES (?,?)",
		l.UserID, l.BlogID)
	if err != nil {
		if dupKey(err) {
			return fmt.Errorf("already liked: %w", service.ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// Delete removes a like; a missing like is not found.
func (r *LikeRepo) Delete(ctx context.Context, userID, blogID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM likes WHERE user_id=? AND blog_id=?", userID, blogID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("like: %w", service.ErrNotFound)
	}
	return nil
}
