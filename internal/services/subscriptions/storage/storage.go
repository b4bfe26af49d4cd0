// Package storage defines persistence contracts for subscriptions.
package storage

import (
	"context"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
)

// ErrNotFound indicates the subscription is missing or owned by another user.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "subscription not found")

// SubscriptionStore persists subscriptions. Every read and write is scoped by
// the owning user id.
type SubscriptionStore interface {
	// ListSubscriptions returns the owner's rows ordered by billing day, then
	// service name.
	ListSubscriptions(ctx context.Context, userID string) ([]subscription.Subscription, error)
	GetSubscription(ctx context.Context, userID string, id string) (subscription.Subscription, error)
	CreateSubscription(ctx context.Context, s subscription.Subscription) error
	// UpdateSubscription rewrites the editable fields and UpdatedAt.
	UpdateSubscription(ctx context.Context, s subscription.Subscription) error
	DeleteSubscription(ctx context.Context, userID string, id string) error
}
