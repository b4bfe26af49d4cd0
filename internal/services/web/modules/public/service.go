package public

import (
	"context"
	"strings"

	"github.com/louisbranch/subtrack/internal/platform/timeouts"
	"github.com/louisbranch/subtrack/internal/services/auth"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
)

const authServiceUnavailableMessage = "auth service is not configured"

type service struct {
	auth module.AuthService
}

type unavailableAuth struct{}

func (unavailableAuth) SignIn(context.Context, string, string) (auth.Grant, error) {
	return auth.Grant{}, apperrors.E(apperrors.KindUnavailable, authServiceUnavailableMessage)
}

func (unavailableAuth) SignUp(context.Context, string, string) (auth.Grant, error) {
	return auth.Grant{}, apperrors.E(apperrors.KindUnavailable, authServiceUnavailableMessage)
}

func (unavailableAuth) SignOut(context.Context, string) error {
	return apperrors.E(apperrors.KindUnavailable, authServiceUnavailableMessage)
}

func newService(authService module.AuthService) service {
	if authService == nil {
		return service{auth: unavailableAuth{}}
	}
	return service{auth: authService}
}

func (service) healthBody() string {
	return "OK"
}

func (s service) signIn(ctx context.Context, email string, password string) (auth.Grant, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.auth.SignIn(ctx, strings.TrimSpace(email), password)
}

func (s service) signUp(ctx context.Context, email string, password string) (auth.Grant, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.auth.SignUp(ctx, strings.TrimSpace(email), password)
}

func (s service) signOut(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, timeouts.StoreCall)
	defer cancel()
	return s.auth.SignOut(ctx, token)
}
