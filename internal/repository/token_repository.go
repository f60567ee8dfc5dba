package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RevokedTokenRepo maintains the revocation list in the
// 'revoked_tokens' table, indexed by the unique jti.
type RevokedTokenRepo struct{ DB *sql.DB }

func NewRevokedTokenRepo(db *sql.DB) *RevokedTokenRepo { return &RevokedTokenRepo{DB: db} }

// Revoke inserts a jti. INSERT IGNORE makes duplicate revocation a
// no-op rather than an error.
func (r *RevokedTokenRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO revoked_tokens (jti, expires_at) VALUES (?,?)",
		jti, expiresAt)
	return err
}

// IsRevoked reports whether a jti is on the revocation list. The
// unique index on jti keeps this an O(1) point lookup.
func (r *RevokedTokenRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM revoked_tokens WHERE jti=? LIMIT 1", jti).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpired evicts entries whose token expired before the
// cutoff; an expired token can no longer pass validation, so its
// revocation entry is dead weight.
func (r *RevokedTokenRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at < ?", before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
