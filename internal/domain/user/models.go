package user

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrInvalidEmail  = errors.New("valid email is required")
	ErrBadCredential = errors.New("invalid email or password")
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateUserParams struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

// Validate checks the create parameters. Password strength is enforced
// before hashing, at the handler layer.
func (p CreateUserParams) Validate() error {
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if p.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	return nil
}
