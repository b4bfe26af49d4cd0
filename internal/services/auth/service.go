package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/louisbranch/subtrack/internal/platform/errors"
	"github.com/louisbranch/subtrack/internal/platform/id"
	platformotel "github.com/louisbranch/subtrack/internal/platform/otel"
	"github.com/louisbranch/subtrack/internal/services/auth/credential"
	"github.com/louisbranch/subtrack/internal/services/auth/session"
	"github.com/louisbranch/subtrack/internal/services/auth/storage"
	"github.com/louisbranch/subtrack/internal/services/auth/user"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long a new session stays valid.
const DefaultSessionTTL = 30 * 24 * time.Hour

var (
	// ErrUnauthenticated indicates a request without a valid session.
	ErrUnauthenticated = apperrors.New(apperrors.CodeAuthUnauthenticated, "unauthenticated")
	// ErrInvalidCredentials is the single failure for unknown email or wrong password.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeAuthInvalidCredentials, "invalid email or password")
	// ErrEmailTaken indicates sign-up with an email that already has an account.
	ErrEmailTaken = apperrors.New(apperrors.CodeAuthEmailTaken, "email is already registered")
)

var tracer = platformotel.Tracer("github.com/louisbranch/subtrack/internal/services/auth")

// ProfileProvisioner creates the empty profile that accompanies each account.
type ProfileProvisioner interface {
	Ensure(ctx context.Context, userID string) error
}

// Identity is the authenticated principal of a request.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
}

// Grant is a freshly opened session and the token that carries it.
type Grant struct {
	Identity
	Token     string
	ExpiresAt time.Time
}

// Deps configures a Service.
type Deps struct {
	Store       storage.Store
	Signer      *session.Signer
	Profiles    ProfileProvisioner
	Hasher      credential.Hasher
	SessionTTL  time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
	IDGenerator func() (string, error)
}

// Service implements account and session operations.
type Service struct {
	store    storage.Store
	signer   *session.Signer
	profiles ProfileProvisioner
	hasher   credential.Hasher
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
	newID    func() (string, error)

	dummyOnce sync.Once
	dummyHash string
}

// NewService validates deps and returns a Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("auth store is required")
	}
	if deps.Signer == nil {
		return nil, fmt.Errorf("session signer is required")
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = DefaultSessionTTL
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = id.NewID
	}
	return &Service{
		store:    deps.Store,
		signer:   deps.Signer,
		profiles: deps.Profiles,
		hasher:   deps.Hasher,
		ttl:      deps.SessionTTL,
		logger:   deps.Logger,
		now:      deps.Now,
		newID:    deps.IDGenerator,
	}, nil
}

// Register creates an account and its empty profile without opening a session.
func (s *Service) Register(ctx context.Context, email string, password string) (user.User, error) {
	normalized, err := user.NormalizeEmail(email)
	if err != nil {
		return user.User{}, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user.User{}, err
	}
	created, err := user.CreateUser(user.CreateUserInput{Email: normalized, PasswordHash: hash}, s.now, s.newID)
	if err != nil {
		return user.User{}, err
	}
	if err := s.store.CreateUser(ctx, created); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return user.User{}, ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}
	if s.profiles != nil {
		if err := s.profiles.Ensure(ctx, created.ID); err != nil {
			return user.User{}, fmt.Errorf("create profile: %w", err)
		}
	}
	s.logger.Info("user registered", zap.String("user_id", created.ID))
	return created, nil
}

// SignUp registers an account and opens its first session.
func (s *Service) SignUp(ctx context.Context, email string, password string) (Grant, error) {
	ctx, span := tracer.Start(ctx, "auth.SignUp")
	defer span.End()

	created, err := s.Register(ctx, email, password)
	if err != nil {
		span.RecordError(err)
		return Grant{}, err
	}
	span.SetAttributes(attribute.String("user.id", created.ID))
	return s.openSession(ctx, created)
}

// SignIn checks credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, email string, password string) (Grant, error) {
	ctx, span := tracer.Start(ctx, "auth.SignIn")
	defer span.End()

	normalized, err := user.NormalizeEmail(email)
	if err != nil {
		s.burnVerify(password)
		return Grant{}, ErrInvalidCredentials
	}
	found, err := s.store.GetUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.burnVerify(password)
			return Grant{}, ErrInvalidCredentials
		}
		span.RecordError(err)
		return Grant{}, fmt.Errorf("load user: %w", err)
	}
	if err := s.hasher.Verify(found.PasswordHash, password); err != nil {
		if errors.Is(err, credential.ErrMismatch) {
			return Grant{}, ErrInvalidCredentials
		}
		span.RecordError(err)
		return Grant{}, err
	}
	span.SetAttributes(attribute.String("user.id", found.ID))
	return s.openSession(ctx, found)
}

// burnVerify spends one bcrypt comparison so unknown emails take as long as
// wrong passwords.
func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("subtrack-placeholder")
		if err == nil {
			s.dummyHash = hash
		}
	})
	if s.dummyHash != "" {
		_ = s.hasher.Verify(s.dummyHash, password)
	}
}

func (s *Service) openSession(ctx context.Context, u user.User) (Grant, error) {
	sessionID, err := s.newID()
	if err != nil {
		return Grant{}, fmt.Errorf("generate session id: %w", err)
	}
	createdAt := s.now().UTC()
	expiresAt := createdAt.Add(s.ttl)
	if err := s.store.CreateSession(ctx, storage.Session{
		ID:        sessionID,
		UserID:    u.ID,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}); err != nil {
		return Grant{}, fmt.Errorf("create session: %w", err)
	}
	token, err := s.signer.Sign(u.ID, sessionID, expiresAt)
	if err != nil {
		return Grant{}, err
	}
	return Grant{
		Identity:  Identity{UserID: u.ID, Email: u.Email, SessionID: sessionID},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Authenticate resolves a session token to an identity. Any token, session or
// user problem yields ErrUnauthenticated; storage failures are returned as-is.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	ctx, span := tracer.Start(ctx, "auth.Authenticate")
	defer span.End()

	claims, err := s.signer.Parse(token)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	record, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		span.RecordError(err)
		return Identity{}, fmt.Errorf("load session: %w", err)
	}
	if record.UserID != claims.UserID || !record.Active(s.now().UTC()) {
		return Identity{}, ErrUnauthenticated
	}
	found, err := s.store.GetUser(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		span.RecordError(err)
		return Identity{}, fmt.Errorf("load user: %w", err)
	}
	return Identity{UserID: found.ID, Email: found.Email, SessionID: record.ID}, nil
}

// SignOut revokes the session named by token. Invalid tokens and unknown
// sessions are a no-op.
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.signer.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.store.RevokeSession(ctx, claims.SessionID, s.now().UTC()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// UserByEmail looks up one account.
func (s *Service) UserByEmail(ctx context.Context, email string) (user.User, error) {
	normalized, err := user.NormalizeEmail(email)
	if err != nil {
		return user.User{}, err
	}
	return s.store.GetUserByEmail(ctx, normalized)
}

// UserEmail returns the email of one account.
func (s *Service) UserEmail(ctx context.Context, userID string) (string, error) {
	found, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return found.Email, nil
}

// PurgeExpiredSessions deletes sessions that expired or were revoked before now.
func (s *Service) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	deleted, err := s.store.DeleteExpiredSessions(ctx, now.UTC())
	if err != nil {
		return 0, err
	}
	s.logger.Info("purged sessions", zap.Int64("deleted", deleted))
	return deleted, nil
}

// RevokeUserSessions signs one user out everywhere.
func (s *Service) RevokeUserSessions(ctx context.Context, userID string) (int64, error) {
	revoked, err := s.store.RevokeUserSessions(ctx, userID, s.now().UTC())
	if err != nil {
		return 0, err
	}
	s.logger.Info("revoked user sessions", zap.String("user_id", userID), zap.Int64("revoked", revoked))
	return revoked, nil
}
