package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazilraphi/blig-blogs/internal/service"
)

type memRevocations struct {
	mu   sync.Mutex
	jtis map[string]time.Time
}

func newMemRevocations() *memRevocations {
	return &memRevocations{jtis: make(map[string]time.Time)}
}

func (m *memRevocations) Revoke(_ context.Context, jti string, exp time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = exp
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.jtis[jti]
	return ok, nil
}

func (m *memRevocations) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func runJWTAuth(t *testing.T, tokens *service.Tokens, authHeader string) (*httptest.ResponseRecorder, uint64) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID uint64
	next := func(c echo.Context) error {
		gotID, _ = c.Get(CtxUserID).(uint64)
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(tokens)(next)(c))
	return rec, gotID
}

func TestJWTAuthAcceptsValidAccessToken(t *testing.T) {
	tokens := service.NewTokens("secret", 15*time.Minute, time.Hour, newMemRevocations())
	pair, err := tokens.IssuePair(42)
	require.NoError(t, err)

	rec, gotID := runJWTAuth(t, tokens, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), gotID)
}

func TestJWTAuthRejections(t *testing.T) {
	revoked := newMemRevocations()
	tokens := service.NewTokens("secret", 15*time.Minute, time.Hour, revoked)
	pair, err := tokens.IssuePair(7)
	require.NoError(t, err)

	// No header at all.
	rec, _ := runJWTAuth(t, tokens, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Wrong scheme.
	rec, _ = runJWTAuth(t, tokens, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A refresh token is not an access token.
	rec, _ = runJWTAuth(t, tokens, "Bearer "+pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Revoked access token.
	require.NoError(t, tokens.Revoke(context.Background(), pair.AccessToken, service.TokenTypeAccess))
	rec, _ = runJWTAuth(t, tokens, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
