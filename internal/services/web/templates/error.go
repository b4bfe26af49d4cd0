package templates

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// ErrorPageTitle returns the localized title for an error status.
func ErrorPageTitle(statusCode int, loc Localizer) string {
	if statusCode == http.StatusNotFound {
		return T(loc, "core.page.not_found_title")
	}
	return T(loc, "core.page.error_title")
}

// ErrorState renders the shared not-found and server error body.
func ErrorState(statusCode int, loc Localizer) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		messageKey := "error.unknown"
		if statusCode == http.StatusNotFound {
			messageKey = "error.not_found"
		} else if statusCode == http.StatusServiceUnavailable {
			messageKey = "error.unavailable"
		}
		h.raw(`<section class="card error-state"`)
		h.attr("data-status", http.StatusText(statusCode))
		h.raw(`><h1>`)
		h.text(ErrorPageTitle(statusCode, loc))
		h.raw(`</h1><p>`)
		h.text(T(loc, messageKey))
		h.raw(`</p><a`)
		h.attr("href", routepath.AppDashboard)
		h.raw(`>`)
		h.text(T(loc, "core.page.back_home"))
		h.raw(`</a></section>`)
		return h.err
	})
}
