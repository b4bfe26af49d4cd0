package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/subtrack/internal/services/auth/storage"
	"github.com/louisbranch/subtrack/internal/services/auth/user"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"go.uber.org/zap"
)

// Accounts finds or registers users.
type Accounts interface {
	UserByEmail(ctx context.Context, email string) (user.User, error)
	Register(ctx context.Context, email string, password string) (user.User, error)
}

// Profiles edits profiles.
type Profiles interface {
	Update(ctx context.Context, userID string, input profile.Input) (profile.Profile, error)
}

// Subscriptions lists and creates subscriptions.
type Subscriptions interface {
	List(ctx context.Context, userID string) ([]subscription.Subscription, error)
	Create(ctx context.Context, userID string, input subscription.Input) (subscription.Subscription, error)
}

// Runner applies fixtures.
type Runner struct {
	accounts      Accounts
	profiles      Profiles
	subscriptions Subscriptions
	logger        *zap.Logger
}

// Result counts what a run changed.
type Result struct {
	UsersCreated         int
	UsersReused          int
	ProfilesUpdated      int
	SubscriptionsCreated int
	SubscriptionsSkipped int
}

// NewRunner returns a runner over the given services.
func NewRunner(accounts Accounts, profiles Profiles, subscriptions Subscriptions, logger *zap.Logger) (*Runner, error) {
	if accounts == nil || profiles == nil || subscriptions == nil {
		return nil, errors.New("accounts, profiles and subscriptions are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{accounts: accounts, profiles: profiles, subscriptions: subscriptions, logger: logger}, nil
}

// Run loads every user of f. Users that already exist are reused and
// subscriptions whose service name the user already tracks are skipped, so a
// fixture can be applied more than once.
func (r *Runner) Run(ctx context.Context, f Fixture) (Result, error) {
	var result Result
	for _, u := range f.Users {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.runUser(ctx, u, &result); err != nil {
			return result, fmt.Errorf("seed %s: %w", u.Email, err)
		}
	}
	return result, nil
}

func (r *Runner) runUser(ctx context.Context, u UserFixture, result *Result) error {
	account, err := r.accounts.UserByEmail(ctx, u.Email)
	switch {
	case err == nil:
		result.UsersReused++
	case errors.Is(err, storage.ErrNotFound):
		account, err = r.accounts.Register(ctx, u.Email, u.Password)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}
		result.UsersCreated++
	default:
		return fmt.Errorf("find user: %w", err)
	}
	logger := r.logger.With(zap.String("user_id", account.ID))

	if u.Profile != nil {
		if _, err := r.profiles.Update(ctx, account.ID, u.Profile.Input()); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		result.ProfilesUpdated++
	}

	existing, err := r.subscriptions.List(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	tracked := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		tracked[strings.ToLower(s.ServiceName)] = struct{}{}
	}
	for _, s := range u.Subscriptions {
		key := strings.ToLower(strings.TrimSpace(s.ServiceName))
		if _, ok := tracked[key]; ok {
			result.SubscriptionsSkipped++
			continue
		}
		created, err := r.subscriptions.Create(ctx, account.ID, s.Input())
		if err != nil {
			return fmt.Errorf("create subscription %q: %w", s.ServiceName, err)
		}
		tracked[key] = struct{}{}
		result.SubscriptionsCreated++
		logger.Debug("seeded subscription", zap.String("subscription_id", created.ID))
	}
	return nil
}
