package users

import "errors"

var (
	// ErrEmailExists is returned when creating an account with an email
	// that is already registered.
	ErrEmailExists = errors.New("email already registered")

	// ErrNotFound is returned when no account matches the given id or email.
	ErrNotFound = errors.New("user not found")
)

// User is a credentialed account. PasswordHash is persisted but never
// serialized in responses.
type User struct {
	ID           string `json:"id,omitempty"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name,omitempty"`
	IsAdmin      bool   `json:"isAdmin"`
}

// CreateInput is the signup payload.
type CreateInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateInput carries a partial update; nil fields are left untouched. A
// non-nil Password triggers a rehash.
type UpdateInput struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Name     *string `json:"name"`
	IsAdmin  *bool   `json:"isAdmin"`
}
