package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// ProfileView feeds the profile form.
type ProfileView struct {
	Loc         Localizer
	Email       string
	FullName    string
	PhoneNumber string
	Error       string
}

// ProfileForm renders the profile editor. Email is read-only.
func ProfileForm(view ProfileView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="card"><h1>`)
		h.text(T(view.Loc, "web.profile.title"))
		h.raw(`</h1>`)
		writeAlert(h, view.Error)
		h.raw(`<form class="stack" method="post"`)
		h.attr("action", routepath.AppProfile)
		h.raw(`><label>`)
		h.text(T(view.Loc, "web.profile.email"))
		h.raw(`<input type="email" name="email" readonly disabled`)
		h.attr("value", view.Email)
		h.raw(`></label>`)
		inputField(h, T(view.Loc, "web.profile.full_name"), "text", "full_name", view.FullName, ` maxlength="120" autocomplete="name"`)
		inputField(h, T(view.Loc, "web.profile.phone_number"), "tel", "phone_number", view.PhoneNumber, ` autocomplete="tel"`)
		h.raw(`<button type="submit">`)
		h.text(T(view.Loc, "web.profile.save"))
		h.raw(`</button></form></section>`)
		return h.err
	})
}
