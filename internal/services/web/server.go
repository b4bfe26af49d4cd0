// Package web hosts the browser-facing subscription tracker.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	webapp "github.com/louisbranch/subtrack/internal/services/web/app"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/modules"
	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/subtrack/internal/services/web/platform/observability"
	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
	"go.uber.org/zap"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr      string
	Auth          module.AuthService
	Authenticator Authenticator
	Subscriptions module.SubscriptionService
	Profiles      module.ProfileService
	Feed          module.ChangeFeed
	SchemePolicy  requestmeta.SchemePolicy
	FeedHeartbeat time.Duration
	Logger        *zap.Logger
}

// Server hosts the HTTP surface and its lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     *zap.Logger
}

// NewHandler builds the root handler from the module registry.
func NewHandler(cfg Config) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	heartbeat := cfg.FeedHeartbeat
	if heartbeat <= 0 {
		heartbeat = timeouts.FeedHeartbeat
	}
	principal := newPrincipalResolver(cfg.Authenticator, logger.Named("principal"))
	deps := module.Dependencies{
		Auth:          cfg.Auth,
		Subscriptions: cfg.Subscriptions,
		Profiles:      cfg.Profiles,
		Feed:          cfg.Feed,
		ResolveViewer: principal.resolveViewer,
		SchemePolicy:  cfg.SchemePolicy,
		FeedHeartbeat: heartbeat,
		Logger:        logger,
	}
	h, err := webapp.Compose(webapp.ComposeInput{
		Dependencies:     deps,
		AuthRequired:     principal.authRequired(),
		PublicModules:    modules.DefaultPublicModules(),
		ProtectedModules: modules.DefaultProtectedModules(),
	})
	if err != nil {
		return nil, err
	}
	return httpx.Chain(h,
		httpx.RecoverPanic(logger.Named("http")),
		httpx.RequestID(),
		withRequestPrincipalState(),
		observability.RequestLogger(logger.Named("http")),
	), nil
}

func withRequestPrincipalState() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil {
				next.ServeHTTP(w, r)
				return
			}
			state := &requestPrincipalState{}
			ctx := context.WithValue(r.Context(), requestPrincipalStateKey{}, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestPrincipalStateFromRequest(r *http.Request) *requestPrincipalState {
	if r == nil {
		return nil
	}
	state, _ := r.Context().Value(requestPrincipalStateKey{}).(*requestPrincipalState)
	return state
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if cfg.Auth == nil || cfg.Authenticator == nil {
		return nil, errors.New("auth service is required")
	}
	if cfg.Subscriptions == nil {
		return nil, errors.New("subscription service is required")
	}
	if cfg.Profiles == nil {
		return nil, errors.New("profile service is required")
	}
	if cfg.Feed == nil {
		return nil, errors.New("change feed is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		httpAddr: httpAddr,
		logger:   logger,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
			ErrorLog:          zap.NewStdLog(logger.Named("http.server")),
		},
	}, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.httpAddr
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("web server listening", zap.String("addr", s.httpAddr))
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
