package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/subtrack/internal/services/auth/storage"
	"github.com/louisbranch/subtrack/internal/services/auth/user"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open(""); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestNewRequiresDB(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), nil); err == nil {
		t.Fatal("expected nil db error")
	}
}

func TestCreateGetUserRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Date(2026, time.February, 22, 16, 40, 0, 0, time.UTC)
	input := user.User{ID: "user-1", Email: "ana@example.com", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	if err := store.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := store.GetUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != input.ID || got.Email != input.Email || got.PasswordHash != input.PasswordHash {
		t.Fatalf("user = %+v, want %+v", got, input)
	}
	if !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, now)
	}

	byEmail, err := store.GetUserByEmail(context.Background(), "  ANA@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("user id = %q, want user-1", byEmail.ID)
	}
}

func TestCreateUserReturnsAlreadyExistsOnDuplicateEmail(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Now().UTC()
	if err := store.CreateUser(context.Background(), user.User{ID: "user-1", Email: "ana@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	err := store.CreateUser(context.Background(), user.User{ID: "user-2", Email: "ana@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create error = %v, want %v", err, storage.ErrAlreadyExists)
	}
}

func TestGetUserReturnsNotFound(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	if _, err := store.GetUser(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get user error = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.GetUserByEmail(context.Background(), "missing@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get user by email error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	seedUser(t, store, "user-1", "ana@example.com")

	session := storage.Session{ID: "sess-1", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("create session: %v", err)
	}
	got, err := store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.UserID != "user-1" || !got.ExpiresAt.Equal(session.ExpiresAt) || got.RevokedAt != nil {
		t.Fatalf("session = %+v, want %+v", got, session)
	}
	if !got.Active(now) {
		t.Fatal("expected session to be active")
	}

	if err := store.RevokeSession(ctx, "sess-1", now.Add(time.Minute)); err != nil {
		t.Fatalf("revoke session: %v", err)
	}
	got, err = store.GetSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("get revoked session: %v", err)
	}
	if got.RevokedAt == nil || !got.RevokedAt.Equal(now.Add(time.Minute)) {
		t.Fatalf("revoked_at = %v, want %v", got.RevokedAt, now.Add(time.Minute))
	}
	if got.Active(now.Add(2 * time.Minute)) {
		t.Fatal("expected revoked session to be inactive")
	}

	if err := store.RevokeSession(ctx, "unknown", now); err != nil {
		t.Fatalf("revoke unknown session should be a no-op: %v", err)
	}
}

func TestRevokeUserSessions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	seedUser(t, store, "user-1", "ana@example.com")
	seedUser(t, store, "user-2", "bia@example.com")
	for _, s := range []storage.Session{
		{ID: "a", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "b", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{ID: "c", UserID: "user-2", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
	} {
		if err := store.CreateSession(ctx, s); err != nil {
			t.Fatalf("create session %s: %v", s.ID, err)
		}
	}

	revoked, err := store.RevokeUserSessions(ctx, "user-1", now)
	if err != nil {
		t.Fatalf("revoke user sessions: %v", err)
	}
	if revoked != 2 {
		t.Fatalf("revoked = %d, want 2", revoked)
	}
	other, err := store.GetSession(ctx, "c")
	if err != nil {
		t.Fatalf("get other session: %v", err)
	}
	if other.RevokedAt != nil {
		t.Fatal("expected other user's session to stay active")
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	seedUser(t, store, "user-1", "ana@example.com")
	for _, s := range []storage.Session{
		{ID: "expired", UserID: "user-1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)},
		{ID: "revoked", UserID: "user-1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(time.Hour)},
		{ID: "live", UserID: "user-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
	} {
		if err := store.CreateSession(ctx, s); err != nil {
			t.Fatalf("create session %s: %v", s.ID, err)
		}
	}
	if err := store.RevokeSession(ctx, "revoked", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	deleted, err := store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("delete expired sessions: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
	if _, err := store.GetSession(ctx, "live"); err != nil {
		t.Fatalf("live session should remain: %v", err)
	}
	if _, err := store.GetSession(ctx, "expired"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expired session error = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestCreateSessionRejectsInvalidWindow(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	now := time.Now().UTC()
	err := store.CreateSession(context.Background(), storage.Session{ID: "s", UserID: "u", CreatedAt: now, ExpiresAt: now})
	if err == nil {
		t.Fatal("expected invalid window error")
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetUser(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("get user error = %v, want %v", err, context.Canceled)
	}
}

func seedUser(t *testing.T, store *Store, id string, email string) {
	t.Helper()
	now := time.Now().UTC()
	if err := store.CreateUser(context.Background(), user.User{ID: id, Email: email, PasswordHash: "h", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "auth.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
