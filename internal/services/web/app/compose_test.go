package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/platform/sessioncookie"
)

type stubModule struct {
	id    string
	mount module.Mount
}

func (m stubModule) ID() string { return m.id }

func (m stubModule) Mount(module.Dependencies) (module.Mount, error) {
	return m.mount, nil
}

func status(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	})
}

func TestComposeRejectsInvalidModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input ComposeInput
	}{
		{
			name: "duplicate prefix",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "one", mount: module.Mount{Prefix: "/one/", Handler: status(http.StatusOK)}},
				stubModule{id: "two", mount: module.Mount{Prefix: "/one", Handler: status(http.StatusOK)}},
			}},
		},
		{name: "nil public", input: ComposeInput{PublicModules: []module.Module{nil}}},
		{name: "nil protected", input: ComposeInput{ProtectedModules: []module.Module{nil}}},
		{
			name: "public under app",
			input: ComposeInput{PublicModules: []module.Module{
				stubModule{id: "leak", mount: module.Mount{Prefix: "/app/leak/", Handler: status(http.StatusOK)}},
			}},
		},
		{
			name: "protected outside app",
			input: ComposeInput{ProtectedModules: []module.Module{
				stubModule{id: "open", mount: module.Mount{Prefix: "/open/", Handler: status(http.StatusOK)}},
			}},
		},
		{
			name: "missing handler",
			input: ComposeInput{ProtectedModules: []module.Module{
				stubModule{id: "empty", mount: module.Mount{Prefix: "/app/empty/"}},
			}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Compose(tc.input); err == nil {
				t.Fatal("expected compose error")
			}
		})
	}
}

func TestComposeRedirectsAnonymousProtectedRequests(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return false },
		ProtectedModules: []module.Module{
			stubModule{id: "dashboard", mount: module.Mount{Prefix: "/app/dashboard/", Handler: status(http.StatusNoContent)}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	for _, path := range []string{"/app/dashboard", "/app/dashboard/x", "/app/unknown"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusFound {
			t.Fatalf("%s status = %d, want %d", path, rr.Code, http.StatusFound)
		}
		if got := rr.Header().Get("Location"); got != "/login" {
			t.Fatalf("%s Location = %q, want %q", path, got, "/login")
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized || rr.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("htmx response = %d %q", rr.Code, rr.Header().Get("HX-Redirect"))
	}
}

func TestComposeServesBarePrefixWithoutRedirect(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		ProtectedModules: []module.Module{
			stubModule{id: "dashboard", mount: module.Mount{Prefix: "/app/dashboard/", Handler: status(http.StatusNoContent)}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestComposeUnknownAppPathRendersNotFound(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{AuthRequired: func(*http.Request) bool { return true }})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app/nowhere", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if !strings.Contains(rr.Body.String(), "Page not found") {
		t.Fatalf("body = %q", rr.Body.String())
	}
}

func TestComposeRequiresSameOriginForCookieMutations(t *testing.T) {
	t.Parallel()

	h, err := Compose(ComposeInput{
		AuthRequired: func(*http.Request) bool { return true },
		PublicModules: []module.Module{
			stubModule{id: "public", mount: module.Mount{Prefix: "/", Handler: status(http.StatusNoContent)}},
		},
		ProtectedModules: []module.Module{
			stubModule{id: "profile", mount: module.Mount{Prefix: "/app/profile/", Handler: status(http.StatusNoContent)}},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	tests := []struct {
		name   string
		method string
		path   string
		cookie bool
		origin string
		want   int
	}{
		{name: "get with cookie", method: http.MethodGet, path: "/app/profile", cookie: true, want: http.StatusNoContent},
		{name: "post without proof", method: http.MethodPost, path: "/app/profile", cookie: true, want: http.StatusForbidden},
		{name: "post cross origin", method: http.MethodPost, path: "/app/profile", cookie: true, origin: "http://evil.test", want: http.StatusForbidden},
		{name: "post same origin", method: http.MethodPost, path: "/app/profile", cookie: true, origin: "http://subtrack.test", want: http.StatusNoContent},
		{name: "public logout without proof", method: http.MethodPost, path: "/logout", cookie: true, want: http.StatusForbidden},
		{name: "public login without cookie", method: http.MethodPost, path: "/login", want: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(tc.method, "http://subtrack.test"+tc.path, nil)
			if tc.cookie {
				req.AddCookie(&http.Cookie{Name: sessioncookie.Name, Value: "token"})
			}
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.want {
				t.Fatalf("status = %d, want %d", rr.Code, tc.want)
			}
		})
	}
}
