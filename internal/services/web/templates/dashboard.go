package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// DashboardView feeds the dashboard page.
type DashboardView struct {
	Loc      Localizer
	Email    string
	Overview OverviewView
	Form     SubscriptionFormView
}

// Dashboard renders the signed-in header, live overview and the new form.
func Dashboard(view DashboardView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<h1>`)
		h.text(T(view.Loc, "web.dashboard.title"))
		h.raw(`</h1><p class="signed-in">`)
		h.text(T(view.Loc, "web.dashboard.signed_in_as", view.Email))
		h.raw(`</p><div hx-ext="sse"`)
		h.attr("sse-connect", routepath.AppEvents)
		h.raw(`>`)
		h.component(ctx, Overview(view.Overview))
		h.raw(`</div>`)
		h.component(ctx, SubscriptionForm(view.Form))
		return h.err
	})
}
