package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
)

// OverviewID is the element refreshed when the change feed fires.
const OverviewID = "subscription-overview"

// ChangeEventName is the SSE event that triggers a refresh.
const ChangeEventName = "subscription_changes"

// CategoryOptions are offered as suggestions on the category field.
var CategoryOptions = []string{"Streaming", "Software", "Games", "Música", "Educação", "Outros"}

const categoryListID = "subscription-categories"

// SubscriptionRow is one formatted table row.
type SubscriptionRow struct {
	ID          string
	ServiceName string
	MonthlyCost string
	BillingDay  int
	Category    string
	Color       string
}

// StatsView holds formatted stats values.
type StatsView struct {
	Total   string
	Count   int
	Average string
}

// OverviewView feeds the stats cards and the subscription table.
type OverviewView struct {
	Loc   Localizer
	Stats StatsView
	Rows  []SubscriptionRow
}

// Overview renders stats and the table. It reloads itself from
// /app/subscriptions whenever the enclosing SSE connection emits a change.
func Overview(view OverviewView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<div`)
		h.attr("id", OverviewID)
		h.attr("hx-get", routepath.AppSubscriptions)
		h.attr("hx-trigger", "sse:"+ChangeEventName)
		h.attr("hx-swap", "outerHTML")
		h.raw(`>`)
		writeStats(h, view)
		writeTable(h, view)
		h.raw(`</div>`)
		return h.err
	})
}

func writeStats(h *htmlWriter, view OverviewView) {
	h.raw(`<section class="stats">`)
	statCard(h, T(view.Loc, "web.stats.total"), view.Stats.Total, "stat-total")
	statCard(h, T(view.Loc, "web.stats.count"), strconv.Itoa(view.Stats.Count), "stat-count")
	statCard(h, T(view.Loc, "web.stats.average"), view.Stats.Average, "stat-average")
	h.raw(`</section>`)
}

func statCard(h *htmlWriter, label string, value string, id string) {
	h.raw(`<div class="card"><div>`)
	h.text(label)
	h.raw(`</div><div class="value"`)
	h.attr("id", id)
	h.raw(`>`)
	h.text(value)
	h.raw(`</div></div>`)
}

func writeTable(h *htmlWriter, view OverviewView) {
	h.raw(`<section class="card"><h2>`)
	h.text(T(view.Loc, "web.subscriptions.title"))
	h.raw(`</h2>`)
	if len(view.Rows) == 0 {
		h.raw(`<p class="empty">`)
		h.text(T(view.Loc, "web.subscriptions.empty"))
		h.raw(`</p></section>`)
		return
	}
	h.raw(`<table><thead><tr>`)
	for _, key := range []string{
		"web.subscriptions.field.service_name",
		"web.subscriptions.field.monthly_cost",
		"web.subscriptions.field.billing_day",
		"web.subscriptions.field.category",
		"web.subscriptions.column.actions",
	} {
		h.raw(`<th>`)
		h.text(T(view.Loc, key))
		h.raw(`</th>`)
	}
	h.raw(`</tr></thead><tbody>`)
	for _, row := range view.Rows {
		h.raw(`<tr`)
		h.attr("data-subscription-id", row.ID)
		h.raw(`><td><span class="swatch"`)
		h.attr("style", "background:"+row.Color)
		h.raw(`></span>`)
		h.text(row.ServiceName)
		h.raw(`</td><td>`)
		h.text(row.MonthlyCost)
		h.raw(`</td><td>`)
		h.text(T(view.Loc, "web.subscriptions.billing_day_value", row.BillingDay))
		h.raw(`</td><td>`)
		h.text(row.Category)
		h.raw(`</td><td><a`)
		h.attr("href", routepath.SubscriptionEdit(row.ID))
		h.raw(`>`)
		h.text(T(view.Loc, "web.subscriptions.action.edit"))
		h.raw(`</a> <a`)
		h.attr("href", routepath.SubscriptionDelete(row.ID))
		h.raw(`>`)
		h.text(T(view.Loc, "web.subscriptions.action.delete"))
		h.raw(`</a></td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

// FormValues are the raw field values echoed back into a form.
type FormValues struct {
	ServiceName string
	MonthlyCost string
	BillingDay  string
	Category    string
	Color       string
}

// SubscriptionFormView feeds the create and edit forms.
type SubscriptionFormView struct {
	Loc          Localizer
	TitleKey     string
	SubmitKey    string
	Action       string
	CancelHref   string
	CurrencyCode string
	Values       FormValues
	Error        string
}

// SubscriptionForm renders a create or edit form.
func SubscriptionForm(view SubscriptionFormView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="card" id="subscription-form"><h2>`)
		h.text(T(view.Loc, view.TitleKey))
		h.raw(`</h2>`)
		writeAlert(h, view.Error)
		h.raw(`<form class="stack" method="post"`)
		h.attr("action", view.Action)
		h.raw(`>`)
		inputField(h, T(view.Loc, "web.subscriptions.field.service_name"), "text", "service_name", view.Values.ServiceName, ` required maxlength="100"`)
		inputField(h, T(view.Loc, "web.subscriptions.field.monthly_cost")+" ("+view.CurrencyCode+")", "text", "monthly_cost", view.Values.MonthlyCost, ` required inputmode="decimal"`)
		inputField(h, T(view.Loc, "web.subscriptions.field.billing_day"), "number", "billing_day", view.Values.BillingDay, ` required min="1" max="31" step="1"`)
		inputField(h, T(view.Loc, "web.subscriptions.field.category"), "text", "category", view.Values.Category, ` required maxlength="50" list="`+categoryListID+`"`)
		h.raw(`<datalist id="`, categoryListID, `">`)
		for _, option := range CategoryOptions {
			h.raw(`<option`)
			h.attr("value", option)
			h.raw(`></option>`)
		}
		h.raw(`</datalist>`)
		color := view.Values.Color
		if color == "" {
			color = "#3b82f6"
		}
		inputField(h, T(view.Loc, "web.subscriptions.field.color"), "color", "color", color, "")
		h.raw(`<div><button type="submit">`)
		h.text(T(view.Loc, view.SubmitKey))
		h.raw(`</button>`)
		if view.CancelHref != "" {
			h.raw(` <a`)
			h.attr("href", view.CancelHref)
			h.raw(`>`)
			h.text(T(view.Loc, "web.subscriptions.action.cancel"))
			h.raw(`</a>`)
		}
		h.raw(`</div></form></section>`)
		return h.err
	})
}

func inputField(h *htmlWriter, label string, inputType string, name string, value string, extra string) {
	h.raw(`<label>`)
	h.text(label)
	h.raw(`<input`)
	h.attr("type", inputType)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(extra, `></label>`)
}

// DeleteConfirmView feeds the delete confirmation.
type DeleteConfirmView struct {
	Loc         Localizer
	ServiceName string
	Action      string
	CancelHref  string
}

// DeleteConfirm asks before removing a subscription.
func DeleteConfirm(view DeleteConfirmView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newHTMLWriter(w)
		h.raw(`<section class="card"><h2>`)
		h.text(T(view.Loc, "web.subscriptions.delete.title"))
		h.raw(`</h2><p>`)
		h.text(T(view.Loc, "web.subscriptions.delete.confirm", view.ServiceName))
		h.raw(`</p><form method="post"`)
		h.attr("action", view.Action)
		h.raw(`><button type="submit">`)
		h.text(T(view.Loc, "web.subscriptions.action.delete"))
		h.raw(`</button> <a`)
		h.attr("href", view.CancelHref)
		h.raw(`>`)
		h.text(T(view.Loc, "web.subscriptions.action.cancel"))
		h.raw(`</a></form></section>`)
		return h.err
	})
}
