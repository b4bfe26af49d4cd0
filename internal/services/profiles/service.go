package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

	platformotel "github.com/louisbranch/subtrack/internal/platform/otel"
	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	"github.com/louisbranch/subtrack/internal/services/profiles/storage"
	"go.uber.org/zap"
)

var tracer = platformotel.Tracer("github.com/louisbranch/subtrack/internal/services/profiles")

// ErrNotFound indicates the user has no profile.
var ErrNotFound = storage.ErrNotFound

// EmailDirectory resolves the account email shown on a profile.
type EmailDirectory interface {
	UserEmail(ctx context.Context, userID string) (string, error)
}

// Service reads and edits profiles.
type Service struct {
	store  storage.ProfileStore
	emails EmailDirectory
	logger *zap.Logger
	now    func() time.Time
}

// NewService returns a profile service. emails may be nil, leaving Email blank.
func NewService(store storage.ProfileStore, emails EmailDirectory, logger *zap.Logger, now func() time.Time) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("profile store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, emails: emails, logger: logger, now: now}, nil
}

// Ensure creates an empty profile for userID when none exists.
func (s *Service) Ensure(ctx context.Context, userID string) error {
	p, err := profile.New(userID, s.now)
	if err != nil {
		return err
	}
	inserted, err := s.store.InsertProfile(ctx, p)
	if err != nil {
		return err
	}
	if inserted {
		s.logger.Debug("profile created", zap.String("user_id", p.UserID))
	}
	return nil
}

// Get returns the profile of userID with its account email.
func (s *Service) Get(ctx context.Context, userID string) (profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "profiles.Get")
	defer span.End()

	p, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			span.RecordError(err)
		}
		return profile.Profile{}, err
	}
	if s.emails != nil {
		email, err := s.emails.UserEmail(ctx, p.UserID)
		if err != nil {
			span.RecordError(err)
			return profile.Profile{}, fmt.Errorf("resolve email: %w", err)
		}
		p.Email = email
	}
	return p, nil
}

// Update validates input and stores it on the profile of userID.
func (s *Service) Update(ctx context.Context, userID string, input profile.Input) (profile.Profile, error) {
	ctx, span := tracer.Start(ctx, "profiles.Update")
	defer span.End()

	normalized, err := profile.NormalizeInput(input)
	if err != nil {
		return profile.Profile{}, err
	}
	current, err := s.Get(ctx, userID)
	if err != nil {
		return profile.Profile{}, err
	}
	current.FullName = normalized.FullName
	current.PhoneNumber = normalized.PhoneNumber
	current.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateProfile(ctx, current); err != nil {
		span.RecordError(err)
		return profile.Profile{}, err
	}
	return current, nil
}
