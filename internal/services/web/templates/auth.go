package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// AuthFormView feeds the sign-in and sign-up forms.
type AuthFormView struct {
	Loc   Localizer
	Email string
	Error string
}

// LoginForm renders the sign-in form.
func LoginForm(view AuthFormView) templ.Component {
	return authForm(view, authFormCopy{
		title:    "web.login.title",
		submit:   "web.login.submit",
		action:   routepath.Login,
		linkHref: routepath.Signup,
		linkText: "web.login.signup_link",
		autocomp: "current-password",
	})
}

// SignupForm renders the sign-up form.
func SignupForm(view AuthFormView) templ.Component {
	return authForm(view, authFormCopy{
		title:    "web.signup.title",
		submit:   "web.signup.submit",
		action:   routepath.Signup,
		linkHref: routepath.Login,
		linkText: "web.signup.login_link",
		autocomp: "new-password",
	})
}

type authFormCopy struct {
	title    string
	submit   string
	action   string
	linkHref string
	linkText string
	autocomp string
}

func authForm(view AuthFormView, labels authFormCopy) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="card"><h1>`)
		h.text(T(view.Loc, labels.title))
		h.raw(`</h1>`)
		writeAlert(h, view.Error)
		h.raw(`<form class="stack" method="post"`)
		h.attr("action", labels.action)
		h.raw(`><label>`)
		h.text(T(view.Loc, "web.auth.email"))
		h.raw(`<input type="email" name="email" required autocomplete="email"`)
		h.attr("value", view.Email)
		h.raw(`></label><label>`)
		h.text(T(view.Loc, "web.auth.password"))
		h.raw(`<input type="password" name="password" required minlength="8" maxlength="72"`)
		h.attr("autocomplete", labels.autocomp)
		h.raw(`></label><button type="submit">`)
		h.text(T(view.Loc, labels.submit))
		h.raw(`</button></form><p><a`)
		h.attr("href", labels.linkHref)
		h.raw(`>`)
		h.text(T(view.Loc, labels.linkText))
		h.raw(`</a></p></section>`)
		return h.err
	})
}
