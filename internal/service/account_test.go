package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fazilraphi/blig-blogs/internal/service"
)

// bcrypt.MinCost keeps the hashing fast in tests.
const testBcryptCost = 4

func newAccounts(users *fakeUserStore, uploads *fakeBackend) *service.Accounts {
	return service.NewAccounts(users, uploads, testBcryptCost, 0)
}

func TestRegisterAndAuthenticate(t *testing.T) {
	users := newFakeUserStore()
	accounts := newAccounts(users, newFakeBackend())
	ctx := context.Background()

	id, err := accounts.Register(ctx, "alice", "Alice@Example.com", "s3cret")
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := users.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email, "email is normalized to lower case")
	assert.NotEqual(t, "s3cret", u.PasswordHash, "plaintext never reaches the store")

	got, err := accounts.Authenticate(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	// Normalization applies on login too.
	got, err = accounts.Authenticate(ctx, "  ALICE@example.com ", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestAuthenticateFailures(t *testing.T) {
	users := newFakeUserStore()
	accounts := newAccounts(users, newFakeBackend())
	ctx := context.Background()

	_, err := accounts.Register(ctx, "bob", "bob@example.com", "pw")
	require.NoError(t, err)

	_, err = accounts.Authenticate(ctx, "bob@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	// Unknown email yields the same error as a wrong password.
	_, err = accounts.Authenticate(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	users := newFakeUserStore()
	accounts := newAccounts(users, newFakeBackend())
	ctx := context.Background()

	_, err := accounts.Register(ctx, "carol", "carol@example.com", "pw")
	require.NoError(t, err)

	_, err = accounts.Register(ctx, "carol", "other@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrConflict, "duplicate username")

	_, err = accounts.Register(ctx, "other", "carol@example.com", "pw")
	assert.ErrorIs(t, err, service.ErrConflict, "duplicate email")
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	accounts := newAccounts(newFakeUserStore(), newFakeBackend())
	ctx := context.Background()

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@b.com", "pw"},
		{"a", "", "pw"},
		{"a", "a@b.com", ""},
	} {
		_, err := accounts.Register(ctx, tc.username, tc.email, tc.password)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	}
}

func TestRegisterConcurrentSameEmail(t *testing.T) {
	users := newFakeUserStore()
	accounts := newAccounts(users, newFakeBackend())

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = accounts.Register(context.Background(),
				fmt.Sprintf("user%d", i), "race@example.com", "pw")
		}(i)
	}
	wg.Wait()

	// Exactly one registration wins; the store's unique constraint
	// closes the check-then-insert race.
	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, service.ErrConflict)
		}
	}
	assert.Equal(t, 1, won)
}

func TestSetProfileImage(t *testing.T) {
	users := newFakeUserStore()
	uploads := newFakeBackend()
	accounts := newAccounts(users, uploads)
	ctx := context.Background()

	id, err := accounts.Register(ctx, "dave", "dave@example.com", "pw")
	require.NoError(t, err)

	url, err := accounts.SetProfileImage(ctx, id, "avatar.png", pngBytes())
	require.NoError(t, err)
	require.NotEmpty(t, url)

	u, err := accounts.Profile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, url, u.ProfileImageURL)
	assert.Equal(t, 1, uploads.count())
}

func TestSetProfileImageRejectsNonImage(t *testing.T) {
	users := newFakeUserStore()
	accounts := newAccounts(users, newFakeBackend())
	ctx := context.Background()

	id, err := accounts.Register(ctx, "erin", "erin@example.com", "pw")
	require.NoError(t, err)

	_, err = accounts.SetProfileImage(ctx, id, "notes.txt", []byte("plain text, not an image"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = accounts.SetProfileImage(ctx, id, "empty.png", nil)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = accounts.SetProfileImage(ctx, 9999, "avatar.png", pngBytes())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSetProfileImageRejectsOversized(t *testing.T) {
	users := newFakeUserStore()
	uploads := newFakeBackend()
	accounts := service.NewAccounts(users, uploads, testBcryptCost, 64)
	ctx := context.Background()

	id, err := accounts.Register(ctx, "gina", "gina@example.com", "pw")
	require.NoError(t, err)

	// A valid PNG payload one byte over the cap is rejected whole,
	// never truncated and stored.
	big := append(pngBytes(), make([]byte, 65-len(pngBytes()))...)
	require.Greater(t, len(big), 64)
	_, err = accounts.SetProfileImage(ctx, id, "huge.png", big)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Zero(t, uploads.count(), "nothing reaches the media store")

	u, err := accounts.Profile(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, u.ProfileImageURL)

	// At exactly the cap the upload goes through.
	ok := append(pngBytes(), make([]byte, 64-len(pngBytes()))...)
	_, err = accounts.SetProfileImage(ctx, id, "fits.png", ok)
	require.NoError(t, err)
	assert.Equal(t, 1, uploads.count())
}

func TestSetProfileImageUpstreamFailure(t *testing.T) {
	users := newFakeUserStore()
	accounts := service.NewAccounts(users, failingBackend{}, testBcryptCost, 0)
	ctx := context.Background()

	id, err := accounts.Register(ctx, "frank", "frank@example.com", "pw")
	require.NoError(t, err)

	_, err = accounts.SetProfileImage(ctx, id, "avatar.png", pngBytes())
	assert.ErrorIs(t, err, service.ErrUpstream)

	u, err := accounts.Profile(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, u.ProfileImageURL, "failed upload leaves the profile untouched")
}

// pngBytes returns a minimal payload that DetectContentType
// classifies as image/png.
func pngBytes() []byte {
	return []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
}
