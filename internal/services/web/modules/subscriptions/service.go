package subscriptions

import (
	"context"
	"strings"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
)

const serviceUnavailableMessage = "subscription service is not configured"

type service struct {
	subs module.SubscriptionService
}

type unavailableService struct{}

func (unavailableService) Overview(context.Context, string) ([]subscription.Subscription, subscription.Stats, error) {
	return nil, subscription.Stats{}, apperrors.E(apperrors.KindUnavailable, serviceUnavailableMessage)
}

func (unavailableService) Get(context.Context, string, string) (subscription.Subscription, error) {
	return subscription.Subscription{}, apperrors.E(apperrors.KindUnavailable, serviceUnavailableMessage)
}

func (unavailableService) Create(context.Context, string, subscription.Input) (subscription.Subscription, error) {
	return subscription.Subscription{}, apperrors.E(apperrors.KindUnavailable, serviceUnavailableMessage)
}

func (unavailableService) Update(context.Context, string, string, subscription.Input) (subscription.Subscription, error) {
	return subscription.Subscription{}, apperrors.E(apperrors.KindUnavailable, serviceUnavailableMessage)
}

func (unavailableService) Delete(context.Context, string, string) error {
	return apperrors.E(apperrors.KindUnavailable, serviceUnavailableMessage)
}

func newService(subs module.SubscriptionService) service {
	if subs == nil {
		return service{subs: unavailableService{}}
	}
	return service{subs: subs}
}

func (s service) overview(ctx context.Context, userID string) ([]subscription.Subscription, subscription.Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.subs.Overview(ctx, userID)
}

func (s service) get(ctx context.Context, userID string, id string) (subscription.Subscription, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return subscription.Subscription{}, apperrors.E(apperrors.KindNotFound, "subscription id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.subs.Get(ctx, userID, id)
}

func (s service) create(ctx context.Context, userID string, input subscription.Input) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	_, err := s.subs.Create(ctx, userID, input)
	return err
}

func (s service) update(ctx context.Context, userID string, id string, input subscription.Input) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.E(apperrors.KindNotFound, "subscription id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	_, err := s.subs.Update(ctx, userID, id, input)
	return err
}

func (s service) remove(ctx context.Context, userID string, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.E(apperrors.KindNotFound, "subscription id is required")
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.subs.Delete(ctx, userID, id)
}
