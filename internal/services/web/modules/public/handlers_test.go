package public

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/subtrack/internal/services/auth"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

type fakeAuth struct {
	grant     auth.Grant
	err       error
	gotEmail  string
	signedOut []string
}

func (f *fakeAuth) SignIn(_ context.Context, email string, _ string) (auth.Grant, error) {
	f.gotEmail = email
	return f.grant, f.err
}

func (f *fakeAuth) SignUp(_ context.Context, email string, _ string) (auth.Grant, error) {
	f.gotEmail = email
	return f.grant, f.err
}

func (f *fakeAuth) SignOut(_ context.Context, token string) error {
	f.signedOut = append(f.signedOut, token)
	return nil
}

func newTestMux(authService module.AuthService, viewer module.Viewer) *http.ServeMux {
	deps := module.Dependencies{
		Auth:          authService,
		ResolveViewer: func(*http.Request) module.Viewer { return viewer },
	}
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Auth), deps))
	return mux
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegisterRoutesHandlesNilMux(t *testing.T) {
	t.Parallel()

	registerRoutes(nil, newHandlers(newService(nil), module.Dependencies{}))
}

func TestRegisterRoutesPublicPathAndMethodContracts(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeAuth{}, module.Viewer{})
	tests := []struct {
		name         string
		method       string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{name: "root redirects anonymous to login", method: http.MethodGet, path: routepath.Root, wantStatus: http.StatusFound, wantLocation: routepath.Login},
		{name: "health", method: http.MethodGet, path: routepath.Health, wantStatus: http.StatusOK},
		{name: "login page", method: http.MethodGet, path: routepath.Login, wantStatus: http.StatusOK},
		{name: "signup page", method: http.MethodGet, path: routepath.Signup, wantStatus: http.StatusOK},
		{name: "logout get rejected", method: http.MethodGet, path: routepath.Logout, wantStatus: http.StatusMethodNotAllowed},
		{name: "unknown path", method: http.MethodGet, path: "/nope", wantStatus: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, nil))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if tc.wantLocation != "" {
				if got := rr.Header().Get("Location"); got != tc.wantLocation {
					t.Fatalf("Location = %q, want %q", got, tc.wantLocation)
				}
			}
		})
	}
}

func TestAuthPagesRenderFormInsideLayout(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeAuth{}, module.Viewer{})
	tests := []struct {
		path   string
		action string
	}{
		{path: routepath.Login, action: `action="` + routepath.Login + `"`},
		{path: routepath.Signup, action: `action="` + routepath.Signup + `"`},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, nil))
			body := rr.Body.String()
			if !strings.Contains(body, "<html") {
				t.Fatalf("body is missing the layout: %q", body)
			}
			start := strings.Index(body, "<main")
			end := strings.Index(body, "</main>")
			if start < 0 || end < start {
				t.Fatalf("body has no main element: %q", body)
			}
			main := body[start:end]
			for _, marker := range []string{"<form", tc.action, `name="email"`, `name="password"`} {
				if !strings.Contains(main, marker) {
					t.Fatalf("main missing %q: %q", marker, main)
				}
			}
		})
	}
}

func TestHealthBody(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newTestMux(nil, module.Viewer{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, routepath.Health, nil))
	if got := rr.Body.String(); got != "OK" {
		t.Fatalf("body = %q, want %q", got, "OK")
	}
}

func TestSignedViewerSkipsAuthPages(t *testing.T) {
	t.Parallel()

	mux := newTestMux(&fakeAuth{}, module.Viewer{UserID: "u1", Email: "ana@example.com"})
	for _, path := range []string{routepath.Root, routepath.Login, routepath.Signup} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusFound {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusFound)
		}
		if got := rr.Header().Get("Location"); got != routepath.AppDashboard {
			t.Fatalf("%s Location = %q, want %q", path, got, routepath.AppDashboard)
		}
	}
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	t.Parallel()

	expires := time.Now().Add(time.Hour)
	fake := &fakeAuth{grant: auth.Grant{
		Identity:  auth.Identity{UserID: "u1", Email: "ana@example.com", SessionID: "s1"},
		Token:     "signed-token",
		ExpiresAt: expires,
	}}
	rr := httptest.NewRecorder()
	newTestMux(fake, module.Viewer{}).ServeHTTP(rr, postForm(routepath.Login, url.Values{
		"email":    {"  ana@example.com "},
		"password": {"secret-password"},
	}))

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != routepath.AppDashboard {
		t.Fatalf("Location = %q, want %q", got, routepath.AppDashboard)
	}
	if fake.gotEmail != "ana@example.com" {
		t.Fatalf("email = %q, want trimmed", fake.gotEmail)
	}
	var found *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.Name {
			found = c
		}
	}
	if found == nil || found.Value != "signed-token" || !found.HttpOnly {
		t.Fatalf("session cookie = %+v", found)
	}
}

func TestSignupSuccessWithHTMXUsesHXRedirect(t *testing.T) {
	t.Parallel()

	fake := &fakeAuth{grant: auth.Grant{Identity: auth.Identity{UserID: "u1"}, Token: "t", ExpiresAt: time.Now().Add(time.Hour)}}
	req := postForm(routepath.Signup, url.Values{"email": {"ana@example.com"}, "password": {"secret-password"}})
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	newTestMux(fake, module.Viewer{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("HX-Redirect"); got != routepath.AppDashboard {
		t.Fatalf("HX-Redirect = %q, want %q", got, routepath.AppDashboard)
	}
}

func TestCredentialFailuresRerenderForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
		wantText   string
	}{
		{name: "wrong password", path: routepath.Login, err: auth.ErrInvalidCredentials, wantStatus: http.StatusUnauthorized, wantText: "Invalid email or password."},
		{name: "email taken", path: routepath.Signup, err: auth.ErrEmailTaken, wantStatus: http.StatusConflict, wantText: "An account with this email already exists."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rr := httptest.NewRecorder()
			newTestMux(&fakeAuth{err: tc.err}, module.Viewer{}).ServeHTTP(rr, postForm(tc.path, url.Values{
				"email":    {"ana@example.com"},
				"password": {"secret-password"},
			}))
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tc.wantText) {
				t.Fatalf("body missing %q", tc.wantText)
			}
			if !strings.Contains(body, `value="ana@example.com"`) {
				t.Fatalf("body does not echo email")
			}
			if len(rr.Result().Cookies()) != 0 {
				t.Fatalf("cookies = %v, want none", rr.Result().Cookies())
			}
		})
	}
}

func TestLoginWithoutAuthServiceIsUnavailable(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	newTestMux(nil, module.Viewer{}).ServeHTTP(rr, postForm(routepath.Login, url.Values{"email": {"a@b.co"}, "password": {"x"}}))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if strings.Contains(rr.Body.String(), authServiceUnavailableMessage) {
		t.Fatal("internal error text leaked to the page")
	}
}

func TestLogoutRevokesSessionAndClearsCookie(t *testing.T) {
	t.Parallel()

	fake := &fakeAuth{}
	req := httptest.NewRequest(http.MethodPost, routepath.Logout, nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "signed-token"})
	rr := httptest.NewRecorder()
	newTestMux(fake, module.Viewer{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != routepath.Login {
		t.Fatalf("Location = %q, want %q", got, routepath.Login)
	}
	if len(fake.signedOut) != 1 || fake.signedOut[0] != "signed-token" {
		t.Fatalf("signed out = %v, want [signed-token]", fake.signedOut)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessioncookie.Name && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}
