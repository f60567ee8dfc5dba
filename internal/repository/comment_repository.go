package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// CommentRepo persists comments in the 'comments' table.
type CommentRepo struct{ DB *sql.DB }

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{DB: db} }

// Create inserts a comment and populates ID and timestamps.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO comments (blog_id, author_id, content) VALUES (?,?,?)",
		c.BlogID, c.AuthorID, c.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM comments WHERE id=?", c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a comment by id.
func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.QueryRowContext(ctx,
		`SELECT c.id, c.blog_id, c.author_id, c.content, c.created_at, c.updated_at, u.username
		 FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id=?`, id).
		Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.Content, &c.CreatedAt, &c.UpdatedAt, &c.AuthorUsername)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %d: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByBlog returns a blog's comments ascending by creation time.
func (r *CommentRepo) ListByBlog(ctx context.Context, blogID uint64) ([]*model.Comment, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.blog_id, c.author_id, c.content, c.created_at, c.updated_at, u.username
		 FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.blog_id=? ORDER BY c.created_at, c.id`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Comment
	for rows.Next() {
		c := new(model.Comment)
		if err := rows.Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.Content,
			&c.CreatedAt, &c.UpdatedAt, &c.AuthorUsername); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a comment by id.
func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM comments WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("comment %d: %w", id, service.ErrNotFound)
	}
	return nil
}
