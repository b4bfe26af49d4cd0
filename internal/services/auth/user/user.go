// Package user defines the account record that anchors every owned row.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/platform/id"
)

const maxEmailLength = 254

// ErrInvalidEmail indicates an email that is blank or not a bare address.
var ErrInvalidEmail = apperrors.New(apperrors.CodeAuthInvalidEmail, "email must be a valid address")

// User represents an account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUserInput describes the data needed to create a user.
type CreateUserInput struct {
	Email        string
	PasswordHash string
}

// NormalizeEmail trims and lowercases raw and checks that it is a bare
// address without a display name.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > maxEmailLength {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// CreateUser builds a new user from input.
func CreateUser(input CreateUserInput, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return User{}, err
	}
	if strings.TrimSpace(input.PasswordHash) == "" {
		return User{}, fmt.Errorf("password hash is required")
	}

	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}

	createdAt := now().UTC()
	return User{
		ID:           userID,
		Email:        email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}
