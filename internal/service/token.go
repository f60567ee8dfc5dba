package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type markers carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// RevocationStore persists jtis of tokens that were logged out
// before their natural expiry. Revoke must be idempotent.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// TokenPair is the result of a successful login: a short-lived
// access token and a long-lived refresh token, both HS256 JWTs.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Tokens issues, validates and revokes JWTs. Every token carries a
// unique jti, the subject user id, an expiry and a typ marker so
// an access token can never be replayed as a refresh token.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	revoked    RevocationStore
}

// NewTokens builds a token service signing with secret. Typical
// TTLs are 15 minutes for access and 7 days for refresh tokens.
func NewTokens(secret string, accessTTL, refreshTTL time.Duration, revoked RevocationStore) *Tokens {
	return &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		revoked:    revoked,
	}
}

// IssuePair signs a fresh access/refresh token pair for a user.
func (t *Tokens) IssuePair(userID uint64) (TokenPair, error) {
	access, accessExp, err := t.sign(userID, TokenTypeAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := t.sign(userID, TokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Validate checks signature, expiry, typ and the revocation list,
// and returns the subject user id. Every failure is reported as
// ErrUnauthenticated so callers cannot distinguish why a token was
// rejected.
func (t *Tokens) Validate(ctx context.Context, raw, requiredType string) (uint64, error) {
	claims, err := t.parse(raw)
	if err != nil {
		return 0, err
	}
	if typ, _ := claims["typ"].(string); typ != requiredType {
		return 0, fmt.Errorf("wrong token type: %w", ErrUnauthenticated)
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return 0, fmt.Errorf("missing jti: %w", ErrUnauthenticated)
	}
	revoked, err := t.revoked.IsRevoked(ctx, jti)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, fmt.Errorf("token revoked: %w", ErrUnauthenticated)
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, fmt.Errorf("missing subject: %w", ErrUnauthenticated)
	}
	return uint64(sub), nil
}

// Revoke validates a token of the given type and adds its jti to
// the revocation list. Revoking an already-revoked token is a
// no-op.
func (t *Tokens) Revoke(ctx context.Context, raw, requiredType string) error {
	if _, err := t.Validate(ctx, raw, requiredType); err != nil {
		return err
	}
	claims, err := t.parse(raw)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	return t.revoked.Revoke(ctx, jti, time.Unix(int64(exp), 0).UTC())
}

// Refresh validates a refresh token and mints a new access token
// for the same subject. The refresh token itself is not rotated or
// revoked.
func (t *Tokens) Refresh(ctx context.Context, refreshRaw string) (string, time.Time, error) {
	userID, err := t.Validate(ctx, refreshRaw, TokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, err
	}
	return t.sign(userID, TokenTypeAccess, t.accessTTL)
}

// SweepExpired removes revocation entries whose token has expired
// anyway, bounding the table's growth. Returns the number of rows
// removed.
func (t *Tokens) SweepExpired(ctx context.Context) (int64, error) {
	return t.revoked.DeleteExpired(ctx, time.Now().UTC())
}

func (t *Tokens) sign(userID uint64, typ string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"jti": uuid.NewString(),
		"sub": userID,
		"typ": typ,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// parse verifies the signature and standard claims (exp included)
// and returns the claim map.
func (t *Tokens) parse(raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %w", ErrUnauthenticated)
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrUnauthenticated)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims: %w", ErrUnauthenticated)
	}
	return claims, nil
}
