// Package pagerender centralizes page rendering for full and HTMX requests.
package pagerender

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/subtrack/internal/services/web/module"
	"github.com/louisbranch/subtrack/internal/services/web/platform/flash"
	"github.com/louisbranch/subtrack/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/subtrack/internal/services/web/platform/i18n"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ModulePage describes an authenticated page response.
type ModulePage struct {
	TitleKey   string
	StatusCode int
	// Body builds the page content once the request language is known.
	Body func(loc *message.Printer, tag language.Tag) templ.Component
}

// Localize resolves the request printer and language tag.
func Localize(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag) {
	return webi18n.ResolveLocalizer(w, r)
}

// WriteModulePage writes page inside the app shell, or as a bare fragment for
// HTMX requests.
func WriteModulePage(w http.ResponseWriter, r *http.Request, deps module.Dependencies, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	loc, tag := Localize(w, r)
	var body templ.Component = templ.NopComponent
	if page.Body != nil {
		body = page.Body(loc, tag)
	}
	toast := resolveToast(w, r, deps, loc)
	ctx := templ.WithChildren(httpx.RequestContext(r), body)

	var shell templ.Component
	if httpx.IsHTMXRequest(r) {
		shell = webtemplates.MainContent(toast)
	} else {
		viewer := deps.Viewer(r)
		path := ""
		if r != nil && r.URL != nil {
			path = r.URL.Path
		}
		shell = webtemplates.AppLayout(webtemplates.LayoutData{
			Title:       webtemplates.T(loc, page.TitleKey),
			Lang:        tag.String(),
			Loc:         loc,
			ViewerEmail: viewer.Email,
			CurrentPath: path,
			Toast:       toast,
		})
	}
	return writeBuffered(w, statusCode, func(buf *bytes.Buffer) error {
		return shell.Render(ctx, buf)
	})
}

// WriteFragment writes component without any shell.
func WriteFragment(w http.ResponseWriter, r *http.Request, statusCode int, component templ.Component) error {
	if w == nil || component == nil {
		return nil
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	return writeBuffered(w, statusCode, func(buf *bytes.Buffer) error {
		return component.Render(httpx.RequestContext(r), buf)
	})
}

// WritePublicPage writes body inside the anonymous shell.
func WritePublicPage(w http.ResponseWriter, r *http.Request, title string, lang string, statusCode int, body templ.Component) {
	if w == nil {
		return
	}
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	if body == nil {
		body = templ.NopComponent
	}
	ctx := templ.WithChildren(httpx.RequestContext(r), body)
	err := writeBuffered(w, statusCode, func(buf *bytes.Buffer) error {
		return webtemplates.AuthLayout(title, lang).Render(ctx, buf)
	})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func writeBuffered(w http.ResponseWriter, statusCode int, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

func resolveToast(w http.ResponseWriter, r *http.Request, deps module.Dependencies, loc *message.Printer) *webtemplates.Toast {
	notice, ok := flash.ReadAndClear(w, r, deps.SchemePolicy)
	if !ok {
		return nil
	}
	text := strings.TrimSpace(loc.Sprintf(notice.Key))
	if text == "" {
		return nil
	}
	return &webtemplates.Toast{Kind: string(notice.Kind), Message: text}
}
