// Package app opens the subtrack database and assembles the domain services
// every binary shares.
package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/subtrack/internal/platform/storage/sqliteconn"
	"github.com/louisbranch/subtrack/internal/services/auth"
	"github.com/louisbranch/subtrack/internal/services/auth/credential"
	"github.com/louisbranch/subtrack/internal/services/auth/session"
	authsqlite "github.com/louisbranch/subtrack/internal/services/auth/storage/sqlite"
	"github.com/louisbranch/subtrack/internal/services/changefeed"
	"github.com/louisbranch/subtrack/internal/services/profiles"
	profilesqlite "github.com/louisbranch/subtrack/internal/services/profiles/storage/sqlite"
	"github.com/louisbranch/subtrack/internal/services/subscriptions"
	subscriptionsqlite "github.com/louisbranch/subtrack/internal/services/subscriptions/storage/sqlite"
	"go.uber.org/zap"
)

// Options configures Open.
type Options struct {
	DBPath string
	// SessionKey is the decoded signing key. When empty a random key is used,
	// so tokens signed by this App are not accepted by any other process.
	SessionKey    []byte
	SessionIssuer string
	SessionTTL    time.Duration
	// HashCost overrides the bcrypt cost; zero keeps the default.
	HashCost   int
	FeedBuffer int
	Logger     *zap.Logger
	Now        func() time.Time
}

// App holds the open database and the services built over it.
type App struct {
	DB            *sql.DB
	Auth          *auth.Service
	Profiles      *profiles.Service
	Subscriptions *subscriptions.Service
	Feed          *changefeed.Broker
}

// Open opens the database, applies every store's migrations and wires the
// services together.
func Open(ctx context.Context, opts Options) (*App, error) {
	if strings.TrimSpace(opts.DBPath) == "" {
		return nil, errors.New("database path is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	issuer := strings.TrimSpace(opts.SessionIssuer)
	if issuer == "" {
		issuer = "subtrack"
	}
	key := opts.SessionKey
	if len(key) == 0 {
		key = make([]byte, session.MinKeyBytes)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	signer, err := session.NewSigner(key, issuer, now)
	if err != nil {
		return nil, err
	}

	db, err := sqliteconn.Open(ctx, opts.DBPath, sqliteconn.Options{Logger: logger.Named("store")})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{DB: db}
	if err := a.wire(ctx, opts, signer, logger, now); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, opts Options, signer *session.Signer, logger *zap.Logger, now func() time.Time) error {
	authStore, err := authsqlite.New(ctx, a.DB)
	if err != nil {
		return fmt.Errorf("open auth store: %w", err)
	}
	profileStore, err := profilesqlite.New(ctx, a.DB)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	subscriptionStore, err := subscriptionsqlite.New(ctx, a.DB)
	if err != nil {
		return fmt.Errorf("open subscription store: %w", err)
	}

	profileService, err := profiles.NewService(profileStore, userEmails{store: authStore}, logger.Named("profiles"), now)
	if err != nil {
		return err
	}
	authService, err := auth.NewService(auth.Deps{
		Store:      authStore,
		Signer:     signer,
		Profiles:   profileService,
		Hasher:     credential.Hasher{Cost: opts.HashCost},
		SessionTTL: opts.SessionTTL,
		Logger:     logger.Named("auth"),
		Now:        now,
	})
	if err != nil {
		return err
	}

	buffer := opts.FeedBuffer
	if buffer <= 0 {
		buffer = changefeed.DefaultBuffer
	}
	feed := changefeed.NewBroker(buffer, logger.Named("feed"))
	subscriptionService, err := subscriptions.NewService(subscriptions.Deps{
		Store:     subscriptionStore,
		Publisher: feed,
		Logger:    logger.Named("subscriptions"),
		Now:       now,
	})
	if err != nil {
		feed.Close()
		return err
	}

	a.Auth = authService
	a.Profiles = profileService
	a.Subscriptions = subscriptionService
	a.Feed = feed
	return nil
}

// Close ends every feed subscription and closes the database.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.Feed != nil {
		a.Feed.Close()
	}
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// userEmails reads account emails straight from the auth store so profiles
// can be built before the auth service that provisions them.
type userEmails struct {
	store *authsqlite.Store
}

func (u userEmails) UserEmail(ctx context.Context, userID string) (string, error) {
	usr, err := u.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return usr.Email, nil
}
