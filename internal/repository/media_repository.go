package repository

import (
	"context"
	"database/sql"

	"github.com/fazilraphi/blig-blogs/internal/model"
)

// MediaRepo persists media rows in the 'media' table.
type MediaRepo struct{ DB *sql.DB }

func NewMediaRepo(db *sql.DB) *MediaRepo { return &MediaRepo{DB: db} }

// Create inserts a media row, assigning Position as the count of
// media already attached to the blog. Count and insert run in one
// transaction; two uploads racing on the same blog may still end
// up with equal positions, which the ordering contract tolerates
// (roughly append order, ties broken by id).
func (r *MediaRepo) Create(ctx context.Context, m *model.Media) (err error) {
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

	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM media WHERE blog_id=?", m.BlogID).Scan(&m.Position); err != nil {
		return err
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx,
		`INSERT INTO media (blog_id, uploader_id, media_type, media_url, thumbnail_url, position)
		 VALUES (?,?,?,?,NULLIF(?,''),?)`,
		m.BlogID, m.UploaderID, m.MediaType, m.MediaURL, m.ThumbnailURL, m.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// ListByBlog returns a blog's media ascending by position.
func (r *MediaRepo) ListByBlog(ctx context.Context, blogID uint64) ([]*model.Media, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, blog_id, uploader_id, media_type, media_url, COALESCE(thumbnail_url,''), position, created_at
		 FROM media WHERE blog_id=? ORDER BY position, id`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Media
	for rows.Next() {
		m := new(model.Media)
		if err := rows.Scan(&m.ID, &m.BlogID, &m.UploaderID, &m.MediaType,
			&m.MediaURL, &m.ThumbnailURL, &m.Position, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
