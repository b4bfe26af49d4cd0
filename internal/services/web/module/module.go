// Package module defines the contracts shared by web feature modules.
package module

import (
	"context"
	"net/http"
	"time"

	"github.com/louisbranch/subtrack/internal/services/auth"
	"github.com/louisbranch/subtrack/internal/services/changefeed"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
	"go.uber.org/zap"
)

// Module is one mountable feature area.
type Module interface {
	ID() string
	Mount(Dependencies) (Mount, error)
}

// Mount is the prefix and handler a module contributes to the root mux.
type Mount struct {
	Prefix  string
	Handler http.Handler
}

// Viewer is the signed-in principal as seen by templates.
type Viewer struct {
	UserID string
	Email  string
}

// Signed reports whether the viewer carries an identity.
func (v Viewer) Signed() bool {
	return v.UserID != ""
}

// ResolveViewer returns the request viewer, empty when anonymous.
type ResolveViewer func(*http.Request) Viewer

// AuthService opens and closes browser sessions.
type AuthService interface {
	SignIn(ctx context.Context, email string, password string) (auth.Grant, error)
	SignUp(ctx context.Context, email string, password string) (auth.Grant, error)
	SignOut(ctx context.Context, token string) error
}

// SubscriptionService is the owner-scoped subscription CRUD surface.
type SubscriptionService interface {
	Overview(ctx context.Context, userID string) ([]subscription.Subscription, subscription.Stats, error)
	Get(ctx context.Context, userID string, subscriptionID string) (subscription.Subscription, error)
	Create(ctx context.Context, userID string, input subscription.Input) (subscription.Subscription, error)
	Update(ctx context.Context, userID string, subscriptionID string, input subscription.Input) (subscription.Subscription, error)
	Delete(ctx context.Context, userID string, subscriptionID string) error
}

// ProfileService reads and edits the viewer's profile.
type ProfileService interface {
	Get(ctx context.Context, userID string) (profile.Profile, error)
	Update(ctx context.Context, userID string, input profile.Input) (profile.Profile, error)
}

// ChangeFeed hands out per-user change subscriptions.
type ChangeFeed interface {
	Subscribe(userID string) (*changefeed.Subscription, func())
}

// Dependencies carries the services and request resolvers modules mount with.
type Dependencies struct {
	Auth          AuthService
	Subscriptions SubscriptionService
	Profiles      ProfileService
	Feed          ChangeFeed
	ResolveViewer ResolveViewer
	SchemePolicy  requestmeta.SchemePolicy
	FeedHeartbeat time.Duration
	Logger        *zap.Logger
}

// Viewer resolves the request viewer, tolerating a missing resolver.
func (d Dependencies) Viewer(r *http.Request) Viewer {
	if d.ResolveViewer == nil || r == nil {
		return Viewer{}
	}
	return d.ResolveViewer(r)
}

// NamedLogger returns a child logger, or a no-op logger.
func (d Dependencies) NamedLogger(name string) *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger.Named(name)
}
