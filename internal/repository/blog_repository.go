package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// BlogRepo persists blogs in the 'blogs' table. Reads join the
// author's username and the like count into the derived fields of
// model.Blog.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

const blogSelect = `SELECT b.id, b.author_id, b.title, b.body_text, b.is_published,
       b.created_at, b.updated_at, u.username,
       (SELECT COUNT(*) FROM likes l WHERE l.blog_id = b.id)
FROM blogs b JOIN users u ON u.id = b.author_id`

// Create inserts a blog and performs a follow-up select so the
// caller receives the DB-assigned timestamps.
func (r *BlogRepo) Create(ctx context.Context, b *model.Blog) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO blogs (author_id, title, body_text, is_published) VALUES (?,?,?,?)",
		b.AuthorID, b.Title, b.BodyText, b.IsPublished)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	return r.DB.QueryRowContext(ctx,
		"SELECT created_at, updated_at FROM blogs WHERE id=?", b.ID).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a blog with derived fields populated.
func (r *BlogRepo) GetByID(ctx context.Context, id uint64) (*model.Blog, error) {
	var b model.Blog
	err := r.DB.QueryRowContext(ctx, blogSelect+" WHERE b.id=?", id).
		Scan(&b.ID, &b.AuthorID, &b.Title, &b.BodyText, &b.IsPublished,
			&b.CreatedAt, &b.UpdatedAt, &b.AuthorUsername, &b.LikesCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("blog %d: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns one page ordered newest first plus the total row
// count. An offset past the end yields an empty slice, not an
// error.
func (r *BlogRepo) List(ctx context.Context, limit, offset int) ([]*model.Blog, int, error) {
	rows, err := r.DB.QueryContext(ctx,
		blogSelect+" ORDER BY b.created_at DESC, b.id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]*model.Blog, 0, limit)
	for rows.Next() {
		b := new(model.Blog)
		if err := rows.Scan(&b.ID, &b.AuthorID, &b.Title, &b.BodyText, &b.IsPublished,
			&b.CreatedAt, &b.UpdatedAt, &b.AuthorUsername, &b.LikesCount); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM blogs").Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update writes title and body back to the row.
func (r *BlogRepo) Update(ctx context.Context, b *model.Blog) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE blogs SET title=?, body_text=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		b.Title, b.BodyText, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The row may exist with identical values; confirm absence
		// before reporting not found.
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
	}
	return r.DB.QueryRowContext(ctx,
		"SELECT updated_at FROM blogs WHERE id=?", b.ID).Scan(&b.UpdatedAt)
}

// DeleteCascade removes the blog and all dependent media, likes
// and comments in one transaction, so a failed delete leaves no
// partial state.
func (r *BlogRepo) DeleteCascade(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, q := range []string{
		"DELETE FROM media WHERE blog_id=?",
		"DELETE FROM likes WHERE blog_id=?",
		"DELETE FROM comments WHERE blog_id=?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM blogs WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = fmt.Errorf("blog %d: %w", id, service.ErrNotFound)
		return err
	}
	return nil
}
