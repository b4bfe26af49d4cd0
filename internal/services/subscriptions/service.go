package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/subtrack/internal/platform/id"
	platformotel "github.com/louisbranch/subtrack/internal/platform/otel"
	"github.com/louisbranch/subtrack/internal/services/changefeed"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/storage"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = platformotel.Tracer("github.com/louisbranch/subtrack/internal/services/subscriptions")

// ErrNotFound indicates the subscription is missing or belongs to another user.
var ErrNotFound = storage.ErrNotFound

// Deps wires a Service.
type Deps struct {
	Store       storage.SubscriptionStore
	Publisher   changefeed.Publisher
	Logger      *zap.Logger
	Now         func() time.Time
	IDGenerator func() (string, error)
}

// Service runs owner-scoped CRUD over subscriptions and announces every
// committed write on the change feed.
type Service struct {
	store     storage.SubscriptionStore
	publisher changefeed.Publisher
	logger    *zap.Logger
	now       func() time.Time
	idGen     func() (string, error)
}

// NewService validates deps and fills defaults. A nil publisher disables
// change events.
func NewService(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("subscription store is required")
	}
	svc := &Service{
		store:     deps.Store,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		now:       deps.Now,
		idGen:     deps.IDGenerator,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.idGen == nil {
		svc.idGen = id.NewID
	}
	return svc, nil
}

// List returns the subscriptions of userID ordered by billing day.
func (s *Service) List(ctx context.Context, userID string) ([]subscription.Subscription, error) {
	ctx, span := tracer.Start(ctx, "subscriptions.List")
	defer span.End()

	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("subscriptions.count", len(subs)))
	return subs, nil
}

// Overview returns the list of userID with its stats.
func (s *Service) Overview(ctx context.Context, userID string) ([]subscription.Subscription, subscription.Stats, error) {
	subs, err := s.List(ctx, userID)
	if err != nil {
		return nil, subscription.Stats{}, err
	}
	return subs, subscription.Summarize(subs), nil
}

// Get returns one subscription owned by userID.
func (s *Service) Get(ctx context.Context, userID string, subscriptionID string) (subscription.Subscription, error) {
	ctx, span := tracer.Start(ctx, "subscriptions.Get")
	defer span.End()

	sub, err := s.store.GetSubscription(ctx, userID, subscriptionID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		span.RecordError(err)
	}
	return sub, err
}

// Create validates input and stores a new subscription for userID.
func (s *Service) Create(ctx context.Context, userID string, input subscription.Input) (subscription.Subscription, error) {
	ctx, span := tracer.Start(ctx, "subscriptions.Create")
	defer span.End()

	fields, err := subscription.Normalize(input)
	if err != nil {
		return subscription.Subscription{}, err
	}
	sub, err := subscription.New(userID, fields, s.now(), s.idGen)
	if err != nil {
		return subscription.Subscription{}, fmt.Errorf("build subscription: %w", err)
	}
	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		span.RecordError(err)
		return subscription.Subscription{}, err
	}
	s.publish(changefeed.TypeInsert, sub.UserID, sub.ID)
	return sub, nil
}

// Update validates input and rewrites a subscription owned by userID.
func (s *Service) Update(ctx context.Context, userID string, subscriptionID string, input subscription.Input) (subscription.Subscription, error) {
	ctx, span := tracer.Start(ctx, "subscriptions.Update")
	defer span.End()

	fields, err := subscription.Normalize(input)
	if err != nil {
		return subscription.Subscription{}, err
	}
	sub, err := s.store.GetSubscription(ctx, userID, subscriptionID)
	if err != nil {
		return subscription.Subscription{}, err
	}
	sub.Apply(fields, s.now())
	if err := s.store.UpdateSubscription(ctx, sub); err != nil {
		span.RecordError(err)
		return subscription.Subscription{}, err
	}
	s.publish(changefeed.TypeUpdate, sub.UserID, sub.ID)
	return sub, nil
}

// Delete removes a subscription owned by userID.
func (s *Service) Delete(ctx context.Context, userID string, subscriptionID string) error {
	ctx, span := tracer.Start(ctx, "subscriptions.Delete")
	defer span.End()

	if err := s.store.DeleteSubscription(ctx, userID, subscriptionID); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			span.RecordError(err)
		}
		return err
	}
	s.publish(changefeed.TypeDelete, userID, subscriptionID)
	return nil
}

func (s *Service) publish(eventType changefeed.Type, userID string, recordID string) {
	if s.publisher == nil {
		return
	}
	event, err := changefeed.NewEvent(changefeed.TableSubscriptions, eventType, userID, recordID, s.now())
	if err != nil {
		s.logger.Warn("build change event", zap.Error(err), zap.String("record_id", recordID))
		return
	}
	s.publisher.Publish(event)
}
