package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

const (
	htmxScript    = "https://unpkg.com/htmx.org@2.0.4"
	htmxSSEScript = "https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"
	// MainID is the swap target of HTMX navigation.
	MainID = "main"
)

const styles = `
body{font-family:system-ui,sans-serif;margin:0;background:#f8fafc;color:#0f172a}
header.nav{display:flex;gap:1rem;align-items:center;padding:.75rem 1.5rem;background:#0f172a;color:#fff}
header.nav a,header.nav button{color:#fff;text-decoration:none;background:none;border:0;cursor:pointer;font:inherit}
header.nav .spacer{flex:1}
main{max-width:960px;margin:0 auto;padding:1.5rem}
.card{background:#fff;border-radius:.5rem;padding:1rem;box-shadow:0 1px 2px rgba(0,0,0,.08)}
.stats{display:grid;grid-template-columns:repeat(3,1fr);gap:1rem;margin-bottom:1.5rem}
.stats .value{font-size:1.5rem;font-weight:600}
table{width:100%;border-collapse:collapse}
th,td{text-align:left;padding:.5rem;border-bottom:1px solid #e2e8f0}
.swatch{display:inline-block;width:.75rem;height:.75rem;border-radius:50%;margin-right:.5rem}
form.stack{display:grid;gap:.75rem;max-width:420px}
label{display:grid;gap:.25rem}
.alert{padding:.75rem;border-radius:.375rem}
.alert-error{background:#fee2e2;color:#991b1b}
.alert-success{background:#dcfce7;color:#166534}
`

// Toast is a one-time notice shown above the page content.
type Toast struct {
	Kind    string
	Message string
}

// LayoutData configures the document shell.
type LayoutData struct {
	Title       string
	Lang        string
	Loc         Localizer
	ViewerEmail string
	CurrentPath string
	Toast       *Toast
}

// AppLayout renders the authenticated shell around its children.
func AppLayout(data LayoutData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		writeHead(h, data.Title, data.Lang, true)
		h.raw(`<body>`)
		h.raw(`<header class="nav">`)
		h.raw(`<strong>`)
		h.text(T(data.Loc, "core.app.name"))
		h.raw(`</strong>`)
		navLink(h, routepath.AppDashboard, T(data.Loc, "web.nav.dashboard"), data.CurrentPath)
		navLink(h, routepath.AppProfile, T(data.Loc, "web.nav.profile"), data.CurrentPath)
		h.raw(`<span class="spacer"></span>`)
		if data.ViewerEmail != "" {
			h.raw(`<span class="viewer-email">`)
			h.text(data.ViewerEmail)
			h.raw(`</span>`)
		}
		h.raw(`<form method="post"`)
		h.attr("action", routepath.Logout)
		h.raw(`><button type="submit">`)
		h.text(T(data.Loc, "web.nav.logout"))
		h.raw(`</button></form></header>`)
		h.raw(`<main`)
		h.attr("id", MainID)
		h.raw(`>`)
		writeToast(h, data.Toast)
		h.children(ctx)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// AuthLayout renders the anonymous shell used by sign-in and sign-up.
func AuthLayout(title string, lang string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		writeHead(h, title, lang, false)
		h.raw(`<body><main class="auth">`)
		h.children(ctx)
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// MainContent renders only the page body for HTMX swaps.
func MainContent(toast *Toast) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		writeToast(h, toast)
		h.children(ctx)
		return h.err
	})
}

func writeHead(h *htmlWriter, title string, lang string, withHTMX bool) {
	if lang == "" {
		lang = "en-US"
	}
	h.raw(`<!DOCTYPE html><html`)
	h.attr("lang", lang)
	h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
	h.text(title)
	h.raw(`</title><style>`, styles, `</style>`)
	if withHTMX {
		h.raw(`<script`)
		h.attr("src", htmxScript)
		h.raw(`></script><script`)
		h.attr("src", htmxSSEScript)
		h.raw(`></script>`)
	}
	h.raw(`</head>`)
}

func navLink(h *htmlWriter, href string, label string, current string) {
	h.raw(`<a`)
	h.attr("href", href)
	if href == current {
		h.attr("aria-current", "page")
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func writeToast(h *htmlWriter, toast *Toast) {
	if toast == nil || toast.Message == "" {
		return
	}
	h.raw(`<div role="status"`)
	h.attr("class", classes("alert", "alert-"+toast.Kind))
	h.raw(`>`)
	h.text(toast.Message)
	h.raw(`</div>`)
}

func writeAlert(h *htmlWriter, message string) {
	if message == "" {
		return
	}
	h.raw(`<div class="alert alert-error" role="alert">`)
	h.text(message)
	h.raw(`</div>`)
}
