package model

import "time"

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted here because these structs
// are used internally by the repository layer; handlers define
// separate response types with appropriate JSON tags. The
// password is never stored in plain form, only its bcrypt hash.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Username        – unique display name.
//  Email           – unique email address.
//  PasswordHash    – bcrypt hashed password.
//  Bio             – optional free-text profile bio.
//  ProfileImageURL – optional URL of the profile image in the media store.
//  CreatedAt       – timestamp of creation.
type User struct {
	ID              uint64    // users.id
	Username        string    // users.username
	Email           string    // users.email
	PasswordHash    string    // users.password_hash
	Bio             string    // users.bio (empty when null)
	ProfileImageURL string    // users.profile_image_url (empty when null)
	CreatedAt       time.Time // users.created_at
}

// UserSummary is the minimal public projection of a user used in
// blog, comment and follow listings.
type UserSummary struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}
