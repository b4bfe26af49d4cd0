// Package weberror renders shared error responses for web modules.
package weberror

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	apperrors "github.com/louisbranch/subtrack/internal/services/web/platform/errors"
	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/subtrack/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"go.uber.org/zap"
)

// ShouldRenderAppError reports whether status should use the error page.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized message for err. Internal
// error text is never returned.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.Sprintf(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	return http.StatusText(statusCode)
}

// WriteAppError writes the localized error page for full and HTMX requests.
func WriteAppError(w http.ResponseWriter, r *http.Request, statusCode int, deps module.Dependencies) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	loc, tag := webi18n.ResolveLocalizer(w, r)
	fragment := webtemplates.ErrorState(statusCode, loc)

	var shell templ.Component
	if httpx.IsHTMXRequest(r) {
		shell = webtemplates.MainContent(nil)
	} else {
		shell = webtemplates.AppLayout(webtemplates.LayoutData{
			Title:       webtemplates.ErrorPageTitle(statusCode, loc),
			Lang:        tag.String(),
			Loc:         loc,
			ViewerEmail: deps.Viewer(r).Email,
		})
	}
	var buf bytes.Buffer
	if err := shell.Render(templ.WithChildren(httpx.RequestContext(r), fragment), &buf); err != nil {
		http.Error(w, http.StatusText(statusCode), statusCode)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
}

// WriteModuleError logs server-side failures and writes a safe response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, err error, deps module.Dependencies) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode >= http.StatusInternalServerError {
		fields := []zap.Field{zap.Error(err), zap.Int("status", statusCode)}
		if r != nil {
			fields = append(fields, zap.String("path", r.URL.Path), zap.String("request_id", r.Header.Get(httpx.RequestIDHeader)))
		}
		deps.NamedLogger("http").Error("request failed", fields...)
	}
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, statusCode, deps)
		return
	}
	loc, _ := webi18n.ResolveLocalizer(w, r)
	http.Error(w, PublicMessage(loc, err), statusCode)
}

// NotFound renders the shared not-found page.
func NotFound(deps module.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteAppError(w, r, http.StatusNotFound, deps)
	}
}
