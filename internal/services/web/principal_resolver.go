package web

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"github.com/louisbranch/subtrack/internal/services/auth"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/platform/sessioncookie"
	"go.uber.org/zap"
)

// Authenticator resolves a session token into an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type requestPrincipalState struct {
	viewerOnce sync.Once
	viewer     module.Viewer
}

type requestPrincipalStateKey struct{}

type principalResolver struct {
	authenticator Authenticator
	logger        *zap.Logger
}

func newPrincipalResolver(authenticator Authenticator, logger *zap.Logger) principalResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return principalResolver{authenticator: authenticator, logger: logger}
}

func (r principalResolver) resolveViewerUncached(request *http.Request) module.Viewer {
	if r.authenticator == nil || request == nil {
		return module.Viewer{}
	}
	token, ok := sessioncookie.Read(request)
	if !ok {
		return module.Viewer{}
	}
	ctx, cancel := context.WithTimeout(request.Context(), timeouts.StoreCall)
	defer cancel()
	identity, err := r.authenticator.Authenticate(ctx, token)
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthenticated) {
			r.logger.Error("resolve session", zap.Error(err))
		}
		return module.Viewer{}
	}
	userID := strings.TrimSpace(identity.UserID)
	if userID == "" {
		return module.Viewer{}
	}
	return module.Viewer{UserID: userID, Email: identity.Email}
}

// resolveViewer authenticates the session cookie at most once per request.
func (r principalResolver) resolveViewer(request *http.Request) module.Viewer {
	if state := requestPrincipalStateFromRequest(request); state != nil {
		state.viewerOnce.Do(func() {
			state.viewer = r.resolveViewerUncached(request)
		})
		return state.viewer
	}
	return r.resolveViewerUncached(request)
}

func (r principalResolver) authRequired() func(*http.Request) bool {
	return func(request *http.Request) bool {
		return r.resolveViewer(request).Signed()
	}
}
