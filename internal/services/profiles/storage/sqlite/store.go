// Package sqlite provides a SQLite-backed profile store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitemigrate "github.com/louisbranch/subtrack/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/subtrack/internal/platform/storage/sqliteconn"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	"github.com/louisbranch/subtrack/internal/services/profiles/storage"
	"github.com/louisbranch/subtrack/internal/services/profiles/storage/sqlite/migrations"
)

// MigrationSet names the profile migrations inside the shared ledger.
const MigrationSet = "profiles"

// Store persists profiles in SQLite.
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

// New applies profile migrations to a shared handle and returns a store over it.
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

// InsertProfile creates one profile row if none exists for the user.
func (s *Store) InsertProfile(ctx context.Context, p profile.Profile) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return false, profile.ErrEmptyUserID
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO profiles (user_id, full_name, phone_number, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID,
		p.FullName,
		p.PhoneNumber,
		sqliteconn.ToMillis(p.CreatedAt),
		sqliteconn.ToMillis(p.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert profile: %w", err)
	}
	return affected > 0, nil
}

// GetProfile returns the profile of one user.
func (s *Store) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	if err := ctx.Err(); err != nil {
		return profile.Profile{}, err
	}
	if s == nil || s.sqlDB == nil {
		return profile.Profile{}, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return profile.Profile{}, profile.ErrEmptyUserID
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT user_id, full_name, phone_number, created_at, updated_at
		   FROM profiles
		  WHERE user_id = ?`,
		userID,
	)
	var p profile.Profile
	var createdAt, updatedAt int64
	if err := row.Scan(&p.UserID, &p.FullName, &p.PhoneNumber, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profile.Profile{}, storage.ErrNotFound
		}
		return profile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.CreatedAt = sqliteconn.FromMillis(createdAt)
	p.UpdatedAt = sqliteconn.FromMillis(updatedAt)
	return p, nil
}

// UpdateProfile rewrites the mutable fields of one profile.
func (s *Store) UpdateProfile(ctx context.Context, p profile.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID := strings.TrimSpace(p.UserID)
	if userID == "" {
		return profile.ErrEmptyUserID
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE profiles
		    SET full_name = ?, phone_number = ?, updated_at = ?
		  WHERE user_id = ?`,
		p.FullName,
		p.PhoneNumber,
		sqliteconn.ToMillis(p.UpdatedAt),
		userID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var _ storage.ProfileStore = (*Store)(nil)
