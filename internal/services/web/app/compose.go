// Package app composes web modules into the root handler.
package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/subtrack/internal/services/web/platform/i18n"
	"github.com/louisbranch/subtrack/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/subtrack/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/subtrack/internal/services/web/platform/weberror"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	Dependencies     module.Dependencies
	AuthRequired     func(*http.Request) bool
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Compose builds a root handler. Protected modules mount under /app/ behind
// authentication; any mutation carrying a session cookie must prove same
// origin.
func Compose(input ComposeInput) (http.Handler, error) {
	root := http.NewServeMux()
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	sameOrigin := requireCookieSessionSameOrigin(input.Dependencies.SchemePolicy)
	protected := func(next http.Handler) http.Handler {
		return requireAuth(input.AuthRequired)(sameOrigin(next))
	}
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		mount, prefix, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if isProtectedPrefix(prefix) {
			return nil, fmt.Errorf("module %q has protected prefix %q in public group", feature.ID(), prefix)
		}
		if err := mountModule(root, feature, mount, prefix, seen, sameOrigin); err != nil {
			return nil, err
		}
	}

	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		mount, prefix, err := resolveMount(feature, input.Dependencies)
		if err != nil {
			return nil, err
		}
		if !isProtectedPrefix(prefix) || prefix == routepath.AppPrefix {
			return nil, fmt.Errorf("module %q must mount below %s, got %q", feature.ID(), routepath.AppPrefix, prefix)
		}
		if err := mountModule(root, feature, mount, prefix, seen, protected); err != nil {
			return nil, err
		}
	}

	root.Handle(routepath.AppPrefix, protected(weberror.NotFound(input.Dependencies)))
	return root, nil
}

func mountModule(
	root *http.ServeMux,
	feature module.Module,
	mount module.Mount,
	prefix string,
	seen map[string]string,
	wrap func(http.Handler) http.Handler,
) error {
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()

	handler := mount.Handler
	if wrap != nil {
		handler = wrap(handler)
	}
	root.Handle(prefix, handler)
	// Serve the bare path too so the mux does not redirect it to the
	// trailing-slash form.
	if bare := strings.TrimSuffix(prefix, "/"); bare != "" {
		root.Handle(bare, handler)
	}
	return nil
}

func isProtectedPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.AppPrefix)
}

func resolveMount(feature module.Module, deps module.Dependencies) (module.Mount, string, error) {
	mount, err := feature.Mount(deps)
	if err != nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	prefix := normalizePrefix(mount.Prefix)
	if prefix == "" {
		return module.Mount{}, "", fmt.Errorf("mount module %q: prefix is required", feature.ID())
	}
	if mount.Handler == nil {
		return module.Mount{}, "", fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	return mount, prefix, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

func requireAuth(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", routepath.Login)
					w.WriteHeader(http.StatusUnauthorized)
					return
				}
				http.Redirect(w, r, routepath.Login, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProof(r, policy) {
				loc, _ := webi18n.ResolveLocalizer(w, r)
				err := apperrors.EK(apperrors.KindForbidden, "error.auth.origin", "missing same-origin proof")
				http.Error(w, weberror.PublicMessage(loc, err), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
