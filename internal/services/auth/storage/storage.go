// Package storage defines persistence contracts for accounts and sessions.
package storage

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/auth/user"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Session is one durable browser session.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can authenticate requests at now.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u user.User) error
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
}

// SessionStore persists browser sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
	// RevokeSession marks one session revoked. Unknown or already revoked
	// sessions are a no-op.
	RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error
	// RevokeUserSessions revokes every active session of userID and returns
	// how many were revoked.
	RevokeUserSessions(ctx context.Context, userID string, revokedAt time.Time) (int64, error)
	// DeleteExpiredSessions removes sessions that expired or were revoked
	// before cutoff and returns how many were deleted.
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store is the full auth persistence surface.
type Store interface {
	UserStore
	SessionStore
}
