package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/subtrack/internal/services/subscriptions/storage"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"github.com/shopspring/decimal"
)

var baseTime = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newSub(id string, userID string, name string, day int, cost string) subscription.Subscription {
	return subscription.Subscription{
		ID:          id,
		UserID:      userID,
		ServiceName: name,
		MonthlyCost: decimal.RequireFromString(cost),
		BillingDay:  day,
		Category:    "Streaming",
		Color:       subscription.DefaultColor,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
	}
}

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

func TestCreateAndGetSubscription(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	want := newSub("sub-1", "user-1", "Netflix", 5, "39.9")
	if err := store.CreateSubscription(ctx, want); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetSubscription(ctx, "user-1", "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ServiceName != want.ServiceName || got.BillingDay != want.BillingDay || got.Color != want.Color {
		t.Fatalf("got = %+v, want %+v", got, want)
	}
	if !got.MonthlyCost.Equal(decimal.RequireFromString("39.90")) {
		t.Fatalf("monthly cost = %s, want 39.90", got.MonthlyCost)
	}
	if !got.CreatedAt.Equal(baseTime) || !got.UpdatedAt.Equal(baseTime) {
		t.Fatalf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, baseTime)
	}
}

func TestGetSubscriptionScopedByOwner(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.CreateSubscription(ctx, newSub("sub-1", "user-1", "Netflix", 5, "39.90")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := store.GetSubscription(ctx, "user-2", "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, storage.ErrNotFound)
	}
	if _, err := store.GetSubscription(ctx, "user-1", "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestListSubscriptionsOrdering(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	for _, sub := range []subscription.Subscription{
		newSub("a", "user-1", "Spotify", 12, "21.90"),
		newSub("b", "user-1", "Netflix", 5, "39.90"),
		newSub("c", "user-1", "Disney+", 12, "27.90"),
		newSub("d", "user-2", "Max", 1, "34.90"),
	} {
		if err := store.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("create %s: %v", sub.ID, err)
		}
	}

	subs, err := store.ListSubscriptions(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var names []string
	for _, sub := range subs {
		names = append(names, sub.ServiceName)
	}
	want := []string{"Netflix", "Disney+", "Spotify"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	empty, err := store.ListSubscriptions(ctx, "user-3")
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("empty list = %#v, want empty slice", empty)
	}
}

func TestUpdateSubscription(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	sub := newSub("sub-1", "user-1", "Netflix", 5, "39.90")
	if err := store.CreateSubscription(ctx, sub); err != nil {
		t.Fatalf("create: %v", err)
	}

	later := baseTime.Add(time.Hour)
	sub.ServiceName = "Netflix Premium"
	sub.MonthlyCost = decimal.RequireFromString("59.90")
	sub.UpdatedAt = later
	if err := store.UpdateSubscription(ctx, sub); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetSubscription(ctx, "user-1", "sub-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ServiceName != "Netflix Premium" || !got.MonthlyCost.Equal(sub.MonthlyCost) {
		t.Fatalf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(baseTime) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("timestamps = %v/%v", got.CreatedAt, got.UpdatedAt)
	}

	sub.UserID = "user-2"
	if err := store.UpdateSubscription(ctx, sub); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign update err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestDeleteSubscription(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if err := store.CreateSubscription(ctx, newSub("sub-1", "user-1", "Netflix", 5, "39.90")); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.DeleteSubscription(ctx, "user-2", "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want %v", err, storage.ErrNotFound)
	}
	if err := store.DeleteSubscription(ctx, "user-1", "sub-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteSubscription(ctx, "user-1", "sub-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("second delete err = %v, want %v", err, storage.ErrNotFound)
	}
}

func TestMethodsRejectMissingIdentifiers(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()
	if _, err := store.ListSubscriptions(ctx, " "); !errors.Is(err, subscription.ErrEmptyUserID) {
		t.Fatalf("list err = %v, want %v", err, subscription.ErrEmptyUserID)
	}
	if _, err := store.GetSubscription(ctx, "user-1", ""); !errors.Is(err, subscription.ErrEmptyID) {
		t.Fatalf("get err = %v, want %v", err, subscription.ErrEmptyID)
	}
	if err := store.CreateSubscription(ctx, subscription.Subscription{ID: "x"}); !errors.Is(err, subscription.ErrEmptyUserID) {
		t.Fatalf("create err = %v, want %v", err, subscription.ErrEmptyUserID)
	}
}

func TestCanceledContext(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ListSubscriptions(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want %v", err, context.Canceled)
	}
}

func TestNilStoreIsNotConfigured(t *testing.T) {
	t.Parallel()

	var store *Store
	if _, err := store.ListSubscriptions(context.Background(), "user-1"); err == nil {
		t.Fatal("expected not configured error")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subscriptions.sqlite")
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
