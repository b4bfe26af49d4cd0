package subscriptions

import (
	"github.com/louisbranch/subtrack/internal/platform/money"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"github.com/louisbranch/subtrack/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/subtrack/internal/services/web/templates"
	"golang.org/x/text/language"
)

func overviewView(loc webtemplates.Localizer, tag language.Tag, subs []subscription.Subscription, stats subscription.Stats) webtemplates.OverviewView {
	rows := make([]webtemplates.SubscriptionRow, 0, len(subs))
	for _, s := range subs {
		rows = append(rows, webtemplates.SubscriptionRow{
			ID:          s.ID,
			ServiceName: s.ServiceName,
			MonthlyCost: money.Format(tag, s.MonthlyCost),
			BillingDay:  s.BillingDay,
			Category:    s.Category,
			Color:       s.Color,
		})
	}
	return webtemplates.OverviewView{
		Loc: loc,
		Stats: webtemplates.StatsView{
			Total:   money.Format(tag, stats.Total),
			Count:   stats.Count,
			Average: money.Format(tag, stats.Average),
		},
		Rows: rows,
	}
}

func formValues(input subscription.Input) webtemplates.FormValues {
	return webtemplates.FormValues{
		ServiceName: input.ServiceName,
		MonthlyCost: input.MonthlyCost,
		BillingDay:  input.BillingDay,
		Category:    input.Category,
		Color:       input.Color,
	}
}

func createFormView(loc webtemplates.Localizer, values webtemplates.FormValues, errText string) webtemplates.SubscriptionFormView {
	return webtemplates.SubscriptionFormView{
		Loc:          loc,
		TitleKey:     "web.subscriptions.new",
		SubmitKey:    "web.subscriptions.action.create",
		Action:       routepath.AppSubscriptions,
		CurrencyCode: money.Currency.String(),
		Values:       values,
		Error:        errText,
	}
}

func editFormView(loc webtemplates.Localizer, id string, values webtemplates.FormValues, errText string) webtemplates.SubscriptionFormView {
	return webtemplates.SubscriptionFormView{
		Loc:          loc,
		TitleKey:     "web.subscriptions.edit",
		SubmitKey:    "web.subscriptions.action.save",
		Action:       routepath.Subscription(id),
		CancelHref:   routepath.AppDashboard,
		CurrencyCode: money.Currency.String(),
		Values:       values,
		Error:        errText,
	}
}
