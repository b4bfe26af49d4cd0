// Package profile defines the per-user profile record.
package profile

import (
	"errors"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
)

const (
	// MaxFullNameRunes bounds the stored full name.
	MaxFullNameRunes = 120
	minPhoneDigits   = 8
	maxPhoneDigits   = 20
)

var (
	// ErrEmptyUserID indicates a missing owner.
	ErrEmptyUserID = errors.New("user id is required")
	// ErrFullNameTooLong indicates a full name over MaxFullNameRunes.
	ErrFullNameTooLong = apperrors.New(apperrors.CodeProfileFullNameTooLong, "full name is too long")
	// ErrInvalidPhone indicates a phone number with unexpected characters or digit count.
	ErrInvalidPhone = apperrors.New(apperrors.CodeProfilePhoneInvalid, "phone number is invalid")
)

// Profile holds the editable personal details of one account. Email mirrors
// the account and is never written through a profile.
type Profile struct {
	UserID      string
	Email       string
	FullName    string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Input is the mutable payload of a profile update.
type Input struct {
	FullName    string
	PhoneNumber string
}

// NormalizeInput trims input and validates it. An empty phone number is
// allowed.
func NormalizeInput(input Input) (Input, error) {
	input.FullName = strings.TrimSpace(input.FullName)
	input.PhoneNumber = strings.Join(strings.Fields(input.PhoneNumber), " ")

	if utf8.RuneCountInString(input.FullName) > MaxFullNameRunes {
		return Input{}, ErrFullNameTooLong
	}
	if input.PhoneNumber != "" {
		if err := validatePhone(input.PhoneNumber); err != nil {
			return Input{}, err
		}
	}
	return input, nil
}

func validatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r) && r <= unicode.MaxASCII:
			digits++
		case r == ' ', r == '+', r == '(', r == ')', r == '-':
		default:
			return ErrInvalidPhone
		}
	}
	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return ErrInvalidPhone
	}
	return nil
}

// New builds an empty profile for userID.
func New(userID string, now func() time.Time) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrEmptyUserID
	}
	if now == nil {
		now = time.Now
	}
	createdAt := now().UTC()
	return Profile{UserID: userID, CreatedAt: createdAt, UpdatedAt: createdAt}, nil
}
