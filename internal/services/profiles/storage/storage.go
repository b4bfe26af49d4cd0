// Package storage defines persistence contracts for profiles.
package storage

import (
	"context"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
)

// ErrNotFound indicates a requested profile is missing.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "profile not found")

// ProfileStore persists profiles keyed by user id.
type ProfileStore interface {
	// InsertProfile creates p unless a profile for the user exists and reports
	// whether a row was inserted.
	InsertProfile(ctx context.Context, p profile.Profile) (bool, error)
	GetProfile(ctx context.Context, userID string) (profile.Profile, error)
	// UpdateProfile overwrites the mutable fields and UpdatedAt of an existing
	// profile.
	UpdateProfile(ctx context.Context, p profile.Profile) error
}
