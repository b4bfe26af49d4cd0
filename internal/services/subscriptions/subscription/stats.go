package subscription

import "github.com/shopspring/decimal"

// Stats summarizes the monthly cost of a list of subscriptions.
type Stats struct {
	Total   decimal.Decimal
	Count   int
	Average decimal.Decimal
}

// Summarize totals the monthly costs of subs. Average is rounded to cents.
func Summarize(subs []Subscription) Stats {
	total := decimal.Zero
	for _, s := range subs {
		total = total.Add(s.MonthlyCost)
	}
	stats := Stats{Total: total, Count: len(subs), Average: decimal.Zero}
	if stats.Count > 0 {
		stats.Average = total.DivRound(decimal.NewFromInt(int64(stats.Count)), 2)
	}
	return stats
}
