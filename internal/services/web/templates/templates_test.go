package templates

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "github.com/louisbranch/subtrack/internal/platform/i18n/catalog"
)

func render(t *testing.T, ctx context.Context, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestOverviewEscapesUserContent(t *testing.T) {
	t.Parallel()

	html := render(t, context.Background(), Overview(OverviewView{
		Stats: StatsView{Total: "R$ 10.00", Count: 1, Average: "R$ 10.00"},
		Rows: []SubscriptionRow{{
			ID:          "sub-1",
			ServiceName: `<script>alert("x")</script>`,
			MonthlyCost: "R$ 10.00",
			BillingDay:  5,
			Category:    "Video & Music",
			Color:       "#3b82f6",
		}},
	}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("unescaped service name in %q", html)
	}
	for _, marker := range []string{
		`id="subscription-overview"`,
		`hx-trigger="sse:subscription_changes"`,
		`Video &amp; Music`,
		`href="/app/subscriptions/sub-1/edit"`,
		`href="/app/subscriptions/sub-1/delete"`,
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("overview missing %q: %s", marker, html)
		}
	}
}

func TestOverviewEmptyState(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.MustParse("en-US"))
	html := render(t, context.Background(), Overview(OverviewView{Loc: loc}))
	if !strings.Contains(html, "No subscriptions yet") {
		t.Fatalf("empty state missing: %s", html)
	}
	if strings.Contains(html, "<table>") {
		t.Fatalf("unexpected table in empty state: %s", html)
	}
}

func TestAppLayoutWrapsChildren(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.MustParse("pt-BR"))
	child := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>child</p>")
		return err
	})
	ctx := templ.WithChildren(context.Background(), child)
	html := render(t, ctx, AppLayout(LayoutData{
		Title:       "Painel",
		Lang:        "pt-BR",
		Loc:         loc,
		ViewerEmail: "ana@example.com",
		CurrentPath: "/app/dashboard",
		Toast:       &Toast{Kind: "success", Message: "Perfil atualizado."},
	}))

	for _, marker := range []string{
		`<html lang="pt-BR">`,
		`<title>Painel</title>`,
		`<p>child</p>`,
		`Sair`,
		`ana@example.com`,
		`aria-current="page"`,
		`alert-success`,
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("layout missing %q: %s", marker, html)
		}
	}
}

func TestAuthShellsKeepChildren(t *testing.T) {
	t.Parallel()

	child := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<form>sign in</form>")
		return err
	})
	tests := []struct {
		name   string
		layout templ.Component
		want   string
	}{
		{name: "auth layout", layout: AuthLayout("Sign in", "en-US"), want: `<main class="auth"><form>sign in</form></main>`},
		{name: "main content", layout: MainContent(nil), want: `<form>sign in</form>`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			html := render(t, templ.WithChildren(context.Background(), child), tc.layout)
			if !strings.Contains(html, tc.want) {
				t.Fatalf("html = %q, want %q inside", html, tc.want)
			}
		})
	}
}

func TestErrorState(t *testing.T) {
	t.Parallel()

	loc := message.NewPrinter(language.MustParse("en-US"))
	if got := ErrorPageTitle(http.StatusNotFound, loc); got != "Page not found" {
		t.Fatalf("title = %q, want %q", got, "Page not found")
	}
	html := render(t, context.Background(), ErrorState(http.StatusInternalServerError, loc))
	if !strings.Contains(html, "Something went wrong") {
		t.Fatalf("error state = %s", html)
	}
}

func TestSubscriptionFormSuggestsCategories(t *testing.T) {
	t.Parallel()

	html := render(t, context.Background(), SubscriptionForm(SubscriptionFormView{
		Action: "/app/subscriptions",
		Values: FormValues{Category: "Música"},
	}))
	if !strings.Contains(html, `name="category" value="Música" required maxlength="50" list="subscription-categories"`) {
		t.Fatalf("category input not bound to suggestions: %s", html)
	}
	for _, option := range CategoryOptions {
		if !strings.Contains(html, `<option value="`+option+`">`) {
			t.Fatalf("missing category option %q: %s", option, html)
		}
	}
}

func TestSubscriptionFormDefaultsColor(t *testing.T) {
	t.Parallel()

	html := render(t, context.Background(), SubscriptionForm(SubscriptionFormView{
		TitleKey:     "web.subscriptions.new",
		SubmitKey:    "web.subscriptions.action.create",
		Action:       "/app/subscriptions",
		CurrencyCode: "BRL",
		Values:       FormValues{ServiceName: `Max "HBO"`},
		Error:        "Billing day is required.",
	}))
	for _, marker := range []string{
		`value="#3b82f6"`,
		`value="Max &#34;HBO&#34;"`,
		`role="alert"`,
		`action="/app/subscriptions"`,
	} {
		if !strings.Contains(html, marker) {
			t.Fatalf("form missing %q: %s", marker, html)
		}
	}
}

func TestTFallsBackToKey(t *testing.T) {
	t.Parallel()

	if got := T(nil, "web.dashboard.signed_in_as %s", "ana"); got != "web.dashboard.signed_in_as ana" {
		t.Fatalf("T() = %q", got)
	}
}
