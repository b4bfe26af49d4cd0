// Package credential enforces the password policy and hashes passwords with
// bcrypt.
package credential

import (
	"errors"
	"fmt"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordBytes is the shortest accepted password.
	MinPasswordBytes = 8
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

var (
	// ErrPasswordLength indicates a password outside the accepted length.
	ErrPasswordLength = apperrors.New(apperrors.CodeAuthPasswordLength, "password must be 8 to 72 bytes")
	// ErrMismatch indicates a password that does not match its hash.
	ErrMismatch = errors.New("password does not match")
)

// ValidatePassword checks the length policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordBytes || len(password) > MaxPasswordBytes {
		return ErrPasswordLength
	}
	return nil
}

// Hasher hashes and verifies passwords. The zero value uses bcrypt.DefaultCost.
type Hasher struct {
	Cost int
}

// Hash validates password and returns its bcrypt hash.
func (h Hasher) Hash(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports ErrMismatch when password does not match hash.
func (h Hasher) Verify(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return fmt.Errorf("verify password: %w", err)
}
