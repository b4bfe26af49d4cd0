// Package sqliteconn opens the SQLite database shared by subtrack stores and
// holds the small helpers every store uses.
package sqliteconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const dsnOptions = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

// Options tunes Open. The zero value is usable.
type Options struct {
	// Attempts bounds how many times the first ping is tried.
	Attempts uint
	// Delay is the initial wait between ping attempts.
	Delay time.Duration
	// Logger receives retry notices.
	Logger *zap.Logger
}

// Open opens path, creating its parent directory, and pings it until the file
// is no longer locked by another process.
func Open(ctx context.Context, path string, opts Options) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Attempts == 0 {
		opts.Attempts = 5
	}
	if opts.Delay <= 0 {
		opts.Delay = 100 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	sqlDB, err := sql.Open("sqlite", cleanPath+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	err = retry.Do(
		func() error {
			return sqlDB.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsBusy),
		retry.OnRetry(func(attempt uint, err error) {
			logger.Warn("sqlite busy, retrying ping", zap.String("path", cleanPath), zap.Uint("attempt", attempt+1), zap.Error(err))
		}),
	)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return sqlDB, nil
}

// IsBusy reports whether err is a transient lock error.
func IsBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
	}
	return false
}

// IsUniqueViolation reports whether err is a primary key or unique constraint
// failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// ToMillis converts t to the integer column format used by every table.
func ToMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

// FromMillis is the inverse of ToMillis.
func FromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// NullMillis converts an optional time to a nullable column value.
func NullMillis(t *time.Time) sql.NullInt64 {
	if t == nil || t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: ToMillis(*t), Valid: true}
}

// FromNullMillis is the inverse of NullMillis.
func FromNullMillis(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := FromMillis(value.Int64)
	return &t
}
