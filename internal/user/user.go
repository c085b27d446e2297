package user

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")

	ErrUsernameTaken = fmt.Errorf("username: %w", ErrAlreadyExists)
	ErrEmailTaken    = fmt.Errorf("email: %w", ErrAlreadyExists)
)

// RegisterInput carries a validated sign-up request. Password is plain text
// and is hashed by the service.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}
