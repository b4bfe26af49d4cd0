// Package sqlite provides a SQLite-backed subscription store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sqlitemigrate "github.com/louisbranch/subtrack/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/subtrack/internal/platform/storage/sqliteconn"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/storage"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/storage/sqlite/migrations"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"github.com/shopspring/decimal"
)

// MigrationSet names the subscription migrations inside the shared ledger.
const MigrationSet = "subscriptions"

const selectColumns = `id, user_id, service_name, monthly_cost, billing_day, category, color, created_at, updated_at`

// Store persists subscriptions in SQLite. Costs are stored as decimal text so
// no float rounding happens on the way in or out.
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

// New applies subscription migrations to a shared handle.
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

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func ownerAndID(userID string, id string) (string, string, error) {
	userID = strings.TrimSpace(userID)
	id = strings.TrimSpace(id)
	if userID == "" {
		return "", "", subscription.ErrEmptyUserID
	}
	if id == "" {
		return "", "", subscription.ErrEmptyID
	}
	return userID, id, nil
}

// ListSubscriptions returns every subscription of userID.
func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, subscription.ErrEmptyUserID
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+selectColumns+`
		   FROM subscriptions
		  WHERE user_id = ?
		  ORDER BY billing_day ASC, service_name ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	subs := make([]subscription.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// GetSubscription returns one subscription owned by userID.
func (s *Store) GetSubscription(ctx context.Context, userID string, id string) (subscription.Subscription, error) {
	if err := s.ready(ctx); err != nil {
		return subscription.Subscription{}, err
	}
	userID, id, err := ownerAndID(userID, id)
	if err != nil {
		return subscription.Subscription{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+selectColumns+`
		   FROM subscriptions
		  WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	sub, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return subscription.Subscription{}, storage.ErrNotFound
		}
		return subscription.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

// CreateSubscription inserts a new subscription.
func (s *Store) CreateSubscription(ctx context.Context, sub subscription.Subscription) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID, id, err := ownerAndID(sub.UserID, sub.ID)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO subscriptions (`+selectColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		userID,
		sub.ServiceName,
		sub.MonthlyCost.StringFixed(2),
		sub.BillingDay,
		sub.Category,
		sub.Color,
		sqliteconn.ToMillis(sub.CreatedAt),
		sqliteconn.ToMillis(sub.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

// UpdateSubscription rewrites one subscription owned by sub.UserID.
func (s *Store) UpdateSubscription(ctx context.Context, sub subscription.Subscription) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID, id, err := ownerAndID(sub.UserID, sub.ID)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE subscriptions
		    SET service_name = ?, monthly_cost = ?, billing_day = ?, category = ?, color = ?, updated_at = ?
		  WHERE id = ? AND user_id = ?`,
		sub.ServiceName,
		sub.MonthlyCost.StringFixed(2),
		sub.BillingDay,
		sub.Category,
		sub.Color,
		sqliteconn.ToMillis(sub.UpdatedAt),
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return requireAffected(result, "update subscription")
}

// DeleteSubscription removes one subscription owned by userID.
func (s *Store) DeleteSubscription(ctx context.Context, userID string, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	userID, id, err := ownerAndID(userID, id)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return requireAffected(result, "delete subscription")
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (subscription.Subscription, error) {
	var (
		sub                  subscription.Subscription
		cost                 string
		createdAt, updatedAt int64
	)
	if err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.ServiceName,
		&cost,
		&sub.BillingDay,
		&sub.Category,
		&sub.Color,
		&createdAt,
		&updatedAt,
	); err != nil {
		return subscription.Subscription{}, err
	}
	amount, err := decimal.NewFromString(cost)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("parse monthly cost %q: %w", cost, err)
	}
	sub.MonthlyCost = amount
	sub.CreatedAt = sqliteconn.FromMillis(createdAt)
	sub.UpdatedAt = sqliteconn.FromMillis(updatedAt)
	return sub, nil
}

var _ storage.SubscriptionStore = (*Store)(nil)
