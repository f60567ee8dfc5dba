// Package service implements the business rules of the blogging
// backend: credentials, tokens, content ownership and the social
// graph. Services operate over small store interfaces so the
// MySQL repositories and the in-memory test fakes are
// interchangeable. All failures are one of the sentinel kinds
// below, wrapped with context; callers classify them with
// errors.Is and the HTTP layer maps each kind to a status code.
package service

import "errors"

var (
	// ErrInvalidInput indicates malformed or missing required data.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthenticated indicates a missing/invalid/expired/revoked
	// token or bad credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates an authenticated actor operating on a
	// resource they do not own.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation such as a
	// duplicate registration, follow or like.
	ErrConflict = errors.New("conflict")

	// ErrUpstream indicates a failure in the external media store.
	ErrUpstream = errors.New("upstream failure")
)
