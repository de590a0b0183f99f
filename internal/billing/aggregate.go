package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/subtrack/subtrack/internal/model"
)

var twelve = decimal.NewFromInt(12)

// TotalMonthlySpend sums the normalized monthly contribution of every active
// record. The subscription type tag, when present, wins over the billing
// cycle: trials contribute nothing and vouchers their full one-time price.
// Otherwise yearly prices are divided by twelve and everything else counts
// as-is. A price that fails to parse contributes zero; one bad record must
// not corrupt the total for the rest. No currency conversion is performed.
func TotalMonthlySpend(records []model.Subscription) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		if r.Status != model.StatusActive {
			continue
		}
		total = total.Add(monthlyContribution(r))
	}
	return total
}

func monthlyContribution(r model.Subscription) decimal.Decimal {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return decimal.Zero
	}
	if r.SubscriptionType != nil {
		switch *r.SubscriptionType {
		case model.TypeTrial:
			return decimal.Zero
		case model.TypeVoucher:
			return price
		}
	}
	if r.BillingCycle == model.CycleYearly {
		return price.DivRound(twelve, 4)
	}
	return price
}

// CountActive returns how many records have active status.
func CountActive(records []model.Subscription) int {
	n := 0
	for _, r := range records {
		if r.Status == model.StatusActive {
			n++
		}
	}
	return n
}

// TrialsEndingSoon returns, in input order, the trial records whose next
// payment date falls within windowDays of now. Both the legacy trial cycle
// and the newer trial type tag qualify.
func TrialsEndingSoon(records []model.Subscription, windowDays int, now time.Time) []model.Subscription {
	out := make([]model.Subscription, 0)
	for _, r := range records {
		if !isTrial(r) {
			continue
		}
		if WithinWindow(r.NextPaymentDate, windowDays, now) {
			out = append(out, r)
		}
	}
	return out
}

func isTrial(r model.Subscription) bool {
	if r.SubscriptionType != nil && *r.SubscriptionType == model.TypeTrial {
		return true
	}
	return r.BillingCycle == model.CycleTrial
}

// DueSoon returns, in input order, the active records whose next payment
// date falls within each record's own reminder window. The dashboard's
// "due soon" highlight and TrialsEndingSoon share WithinWindow so the two
// call sites can never disagree on day rounding.
func DueSoon(records []model.Subscription, now time.Time) []model.Subscription {
	out := make([]model.Subscription, 0)
	for _, r := range records {
		if r.Status != model.StatusActive {
			continue
		}
		if WithinWindow(r.NextPaymentDate, r.ReminderDays, now) {
			out = append(out, r)
		}
	}
	return out
}
