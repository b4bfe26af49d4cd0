package public

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/auth"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	"github.com/louisbranch/subtrack/internal/services/web/platform/pagerender"
	"github.com/louisbranch/subtrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/subtrack/internal/services/web/platform/weberror"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"go.uber.org/zap"
)

type handlers struct {
	service service
	deps    module.Dependencies
	logger  *zap.Logger
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{service: s, deps: deps, logger: deps.NamedLogger("auth")}
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	if h.deps.Viewer(r).Signed() {
		http.Redirect(w, r, routepath.AppDashboard, http.StatusFound)
		return
	}
	http.Redirect(w, r, routepath.Login, http.StatusFound)
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.service.healthBody()))
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, h.deps)
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if h.deps.Viewer(r).Signed() {
		http.Redirect(w, r, routepath.AppDashboard, http.StatusFound)
		return
	}
	h.writeAuthPage(w, r, http.StatusOK, "web.login.title", "", nil, webtemplates.LoginForm)
}

func (h handlers) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	if h.deps.Viewer(r).Signed() {
		http.Redirect(w, r, routepath.AppDashboard, http.StatusFound)
		return
	}
	h.writeAuthPage(w, r, http.StatusOK, "web.signup.title", "", nil, webtemplates.SignupForm)
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	h.handleCredentialSubmit(w, r, "web.login.title", h.service.signIn, webtemplates.LoginForm)
}

func (h handlers) handleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	h.handleCredentialSubmit(w, r, "web.signup.title", h.service.signUp, webtemplates.SignupForm)
}

type credentialAction func(ctx context.Context, email string, password string) (auth.Grant, error)

type authForm func(webtemplates.AuthFormView) templ.Component

func (h handlers) handleCredentialSubmit(w http.ResponseWriter, r *http.Request, titleKey string, action credentialAction, form authForm) {
	if err := r.ParseForm(); err != nil {
		h.writeAuthPage(w, r, http.StatusBadRequest, titleKey, "", apperrors.E(apperrors.KindInvalidInput, "invalid form"), form)
		return
	}
	email := r.PostFormValue("email")
	grant, err := action(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		status := apperrors.HTTPStatus(err)
		if status >= http.StatusInternalServerError {
			weberror.WriteModuleError(w, r, err, h.deps)
			return
		}
		h.writeAuthPage(w, r, status, titleKey, email, err, form)
		return
	}
	sessioncookie.Write(w, r, grant.Token, grant.ExpiresAt, h.deps.SchemePolicy)
	h.logger.Info("session opened", zap.String("user_id", grant.UserID), zap.String("session_id", grant.SessionID))
	httpx.WriteRedirect(w, r, routepath.AppDashboard)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessioncookie.Read(r); ok {
		if err := h.service.signOut(r.Context(), token); err != nil {
			h.logger.Warn("sign out failed", zap.Error(err))
		}
	}
	sessioncookie.Clear(w, r, h.deps.SchemePolicy)
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) writeAuthPage(w http.ResponseWriter, r *http.Request, status int, titleKey string, email string, formErr error, form authForm) {
	loc, tag := pagerender.Localize(w, r)
	view := webtemplates.AuthFormView{
		Loc:   loc,
		Email: email,
		Error: weberror.PublicMessage(loc, formErr),
	}
	pagerender.WritePublicPage(w, r, webtemplates.T(loc, titleKey), tag.String(), status, form(view))
}
