package model

import "time"

// RevokedToken models an entry in the `revoked_tokens` table: the
// jti of a token that was logged out before its natural expiry.
// The token's own expiry is recorded so a periodic sweep can
// delete rows that no longer matter.
//
// Fields:
//  Jti       – unique token identifier embedded in the JWT.
//  ExpiresAt – expiry of the revoked token itself.
//  RevokedAt – when the token was revoked.
type RevokedToken struct {
	Jti       string    // revoked_tokens.jti
	ExpiresAt time.Time // revoked_tokens.expires_at
	RevokedAt time.Time // revoked_tokens.revoked_at
}
