package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/fazilraphi/blig-blogs/internal/model"
	"github.com/fazilraphi/blig-blogs/internal/storage"
	"github.com/fazilraphi/blig-blogs/internal/utils"
)

// UserStore persists user identities. Create must enforce the
// username/email unique constraints atomically and report a
// violation as ErrConflict, so two concurrent registrations for
// the same email cannot both succeed.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	SetProfileImage(ctx context.Context, id uint64, url string) error
}

// Accounts registers and authenticates users.
type Accounts struct {
	users     UserStore
	uploads   storage.Backend
	cost      int // bcrypt cost
	maxUpload int64
}

// NewAccounts wires the account service. uploads is used only for
// profile images and may be the in-memory backend. maxUpload <= 0
// selects the 10 MB default.
func NewAccounts(users UserStore, uploads storage.Backend, bcryptCost int, maxUpload int64) *Accounts {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Accounts{users: users, uploads: uploads, cost: bcryptCost, maxUpload: maxUpload}
}

// Register creates a user and returns its id. The username/email
// pair is checked with a single combined lookup; the store's
// unique constraints close the race between concurrent requests.
// The plaintext password never reaches the store.
func (a *Accounts) Register(ctx context.Context, username, email, password string) (uint64, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return 0, fmt.Errorf("username, email and password are required: %w", ErrInvalidInput)
	}

	exists, err := a.users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("user already exists: %w", ErrConflict)
	}

	hash, err := utils.HashPassword(password, a.cost)
	if err != nil {
		return 0, err
	}
	u := &model.User{Username: username, Email: email, PasswordHash: hash}
	if err := a.users.Create(ctx, u); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// Authenticate verifies email+password and returns the user id.
// Unknown email and wrong password are indistinguishable to the
// caller. The hash comparison is constant-time inside bcrypt.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return 0, fmt.Errorf("invalid credentials: %w", ErrUnauthenticated)
	}
	return u.ID, nil
}

// Profile returns the user record for the /me payload.
func (a *Accounts) Profile(ctx context.Context, userID uint64) (*model.User, error) {
	return a.users.GetByID(ctx, userID)
}

// SetProfileImage pushes an image through the media store and
// persists the resulting URL on the user row. Only image payloads
// are accepted.
func (a *Accounts) SetProfileImage(ctx context.Context, userID uint64, filename string, data []byte) (string, error) {
	if _, err := a.users.GetByID(ctx, userID); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no file provided: %w", ErrInvalidInput)
	}
	if int64(len(data)) > a.maxUpload {
		return "", fmt.Errorf("file exceeds %d bytes: %w", a.maxUpload, ErrInvalidInput)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("profile image must be an image: %w", ErrInvalidInput)
	}
	key := fmt.Sprintf("profile_images/%d/%s%s", userID, uuid.NewString(), path.Ext(filename))
	obj, err := a.uploads.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("media store upload: %v: %w", err, ErrUpstream)
	}
	if err := a.users.SetProfileImage(ctx, userID, obj.URL); err != nil {
		return "", err
	}
	return obj.URL, nil
}
