// Package sqlite provides SQLite-backed auth persistence.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/subtrack/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/subtrack/internal/platform/storage/sqliteconn"
	"github.com/louisbranch/subtrack/internal/services/auth/storage"
	"github.com/louisbranch/subtrack/internal/services/auth/storage/sqlite/migrations"
	"github.com/louisbranch/subtrack/internal/services/auth/user"
)

// MigrationSet names the auth migrations inside the shared ledger.
const MigrationSet = "auth"

// Store implements auth persistence over SQLite.
type Store struct {
	sqlDB *sql.DB
	owned bool
}

// Open opens a SQLite file used only by this store and applies migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sqliteconn.Open(context.Background(), path, sqliteconn.Options{})
	if err != nil {
		return nil, err
	}
	store, err := New(context.Background(), sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	store.owned = true
	return store, nil
}

// New applies auth migrations to a shared handle and returns a store over it.
// Closing the store leaves the handle open.
func New(ctx context.Context, sqlDB *sql.DB) (*Store, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("sql db is required")
	}
	if _, err := sqlitemigrate.Apply(ctx, sqlDB, sqlitemigrate.Set{Name: MigrationSet, FS: migrations.FS}); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the handle when the store opened it.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil || !s.owned {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateUser inserts one account.
func (s *Store) CreateUser(ctx context.Context, u user.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("email is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		sqliteconn.ToMillis(u.CreatedAt),
		sqliteconn.ToMillis(u.UpdatedAt),
	)
	if err != nil {
		if sqliteconn.IsUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser returns one account by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	return s.getUser(ctx, "id", userID)
}

// GetUserByEmail returns one account by its normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return s.getUser(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (s *Store) getUser(ctx context.Context, column string, value string) (user.User, error) {
	if err := ctx.Err(); err != nil {
		return user.User{}, err
	}
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return user.User{}, fmt.Errorf("user %s is required", column)
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, email, password_hash, created_at, updated_at
		   FROM users
		  WHERE `+column+` = ?`,
		value,
	)
	var u user.User
	var createdAt, updatedAt int64
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = sqliteconn.FromMillis(createdAt)
	u.UpdatedAt = sqliteconn.FromMillis(updatedAt)
	return u, nil
}

// CreateSession inserts one session row.
func (s *Store) CreateSession(ctx context.Context, session storage.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(session.ID) == "" || strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("session id and user id are required")
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		return fmt.Errorf("session must expire after it is created")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO web_sessions (id, user_id, created_at, expires_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		sqliteconn.ToMillis(session.CreatedAt),
		sqliteconn.ToMillis(session.ExpiresAt),
		sqliteconn.NullMillis(session.RevokedAt),
	)
	if err != nil {
		if sqliteconn.IsUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession returns one session row.
func (s *Store) GetSession(ctx context.Context, sessionID string) (storage.Session, error) {
	if err := ctx.Err(); err != nil {
		return storage.Session{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Session{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return storage.Session{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, user_id, created_at, expires_at, revoked_at
		   FROM web_sessions
		  WHERE id = ?`,
		sessionID,
	)
	var session storage.Session
	var createdAt, expiresAt int64
	var revokedAt sql.NullInt64
	if err := row.Scan(&session.ID, &session.UserID, &createdAt, &expiresAt, &revokedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Session{}, storage.ErrNotFound
		}
		return storage.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = sqliteconn.FromMillis(createdAt)
	session.ExpiresAt = sqliteconn.FromMillis(expiresAt)
	session.RevokedAt = sqliteconn.FromNullMillis(revokedAt)
	return session, nil
}

// RevokeSession marks one session revoked.
func (s *Store) RevokeSession(ctx context.Context, sessionID string, revokedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	if _, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE web_sessions SET revoked_at = ? WHERE id = ? AND revoked_at IS NULL`,
		sqliteconn.ToMillis(revokedAt),
		sessionID,
	); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUserSessions revokes all active sessions of one user.
func (s *Store) RevokeUserSessions(ctx context.Context, userID string, revokedAt time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("user id is required")
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE web_sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`,
		sqliteconn.ToMillis(revokedAt),
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	return affected, nil
}

// DeleteExpiredSessions removes rows expired or revoked before cutoff.
func (s *Store) DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	millis := sqliteconn.ToMillis(cutoff)
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM web_sessions
		  WHERE expires_at <= ?
		     OR (revoked_at IS NOT NULL AND revoked_at <= ?)`,
		millis,
		millis,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return affected, nil
}

var _ storage.Store = (*Store)(nil)
