package sqliteconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), "  ", Options{}); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestOpenCreatesParentDirAndEnablesPragmas(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "subtrack.db")
	db, err := Open(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	var foreignKeys int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
		t.Fatalf("read foreign_keys pragma: %v", err)
	}
	if foreignKeys != 1 {
		t.Fatalf("foreign_keys = %d, want 1", foreignKeys)
	}
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("read journal_mode pragma: %v", err)
	}
	if journalMode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", journalMode)
	}
}

func TestOpenRespectsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Open(ctx, filepath.Join(t.TempDir(), "x.db"), Options{Attempts: 2, Delay: time.Millisecond}); err == nil {
		t.Fatal("expected canceled context error")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "unique.db"), Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec("CREATE TABLE items (name TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO items (name) VALUES ('a')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = db.Exec("INSERT INTO items (name) VALUES ('a')")
	if !IsUniqueViolation(err) {
		t.Fatalf("IsUniqueViolation(%v) = false, want true", err)
	}
	if IsUniqueViolation(nil) {
		t.Fatal("nil error should not classify")
	}
	if IsUniqueViolation(fmt.Errorf("wrapped: %w", sql.ErrNoRows)) {
		t.Fatal("no rows should not classify")
	}
	if IsBusy(errors.New("database is locked")) {
		t.Fatal("plain errors should not classify as busy")
	}
}

func TestMillisRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 4, 10, 30, 0, 123_000_000, time.FixedZone("BRT", -3*3600))
	if got := FromMillis(ToMillis(now)); !got.Equal(now) {
		t.Fatalf("FromMillis(ToMillis()) = %v, want %v", got, now)
	}
	if got := NullMillis(nil); got.Valid {
		t.Fatal("nil time should be invalid")
	}
	if got := FromNullMillis(NullMillis(&now)); got == nil || !got.Equal(now) {
		t.Fatalf("FromNullMillis(NullMillis()) = %v, want %v", got, now)
	}
}
