package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/subtrack/subtrack/internal/model"
)

func strptr(s string) *string { return &s }

func sub(name, price, cycle, status string) model.Subscription {
	return model.Subscription{Name: name, Price: price, BillingCycle: cycle, Status: status}
}

func TestTotalMonthlySpend(t *testing.T) {
	cases := []struct {
		name    string
		records []model.Subscription
		want    string
	}{
		{"empty", nil, "0"},
		{"single monthly", []model.Subscription{
			sub("netflix", "15.49", model.CycleMonthly, model.StatusActive),
		}, "15.49"},
		{"yearly divided by twelve", []model.Subscription{
			sub("domain", "9.99", model.CycleYearly, model.StatusActive),
		}, "0.8325"},
		{"one-time counts in full", []model.Subscription{
			sub("license", "49.90", model.CycleOneTime, model.StatusActive),
		}, "49.90"},
		{"cancelled excluded regardless of price", []model.Subscription{
			sub("gym", "999", model.CycleMonthly, model.StatusCancelled),
			sub("vpn", "5", model.CycleMonthly, model.StatusActive),
		}, "5"},
		{"expired excluded", []model.Subscription{
			sub("old", "10", model.CycleMonthly, model.StatusExpired),
		}, "0"},
		{"malformed price contributes zero", []model.Subscription{
			sub("broken", "n/a", model.CycleMonthly, model.StatusActive),
			sub("vpn", "5.50", model.CycleMonthly, model.StatusActive),
		}, "5.50"},
		{"mixed", []model.Subscription{
			sub("netflix", "12", model.CycleMonthly, model.StatusActive),
			sub("backup", "120", model.CycleYearly, model.StatusActive),
			sub("gone", "80", model.CycleYearly, model.StatusCancelled),
		}, "22"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			want, err := decimal.NewFromString(c.want)
			if err != nil {
				t.Fatal(err)
			}
			got := TotalMonthlySpend(c.records)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestTotalMonthlySpend_TypeWinsOverCycle(t *testing.T) {
	trial := sub("trial", "20", model.CycleMonthly, model.StatusActive)
	trial.SubscriptionType = strptr(model.TypeTrial)

	voucher := sub("voucher", "60", model.CycleYearly, model.StatusActive)
	voucher.SubscriptionType = strptr(model.TypeVoucher)

	plain := sub("plain", "30", model.CycleYearly, model.StatusActive)
	plain.SubscriptionType = strptr(model.TypeSubscription)

	// trial → 0, voucher → full 60 despite yearly cycle, plain → 30/12
	got := TotalMonthlySpend([]model.Subscription{trial, voucher, plain})
	assert.True(t, got.Equal(decimal.NewFromFloat(62.5)), "got %s", got)
}

func TestCountActive(t *testing.T) {
	records := []model.Subscription{
		sub("a", "1", model.CycleMonthly, model.StatusActive),
		sub("b", "1", model.CycleMonthly, model.StatusCancelled),
		sub("c", "1", model.CycleMonthly, model.StatusActive),
		sub("d", "1", model.CycleMonthly, model.StatusExpired),
	}
	assert.Equal(t, 2, CountActive(records))
	assert.Equal(t, 0, CountActive(nil))
}

func TestTrialsEndingSoon(t *testing.T) {
	now := date(2025, 8, 10)

	inWindow := sub("soon", "0", model.CycleTrial, model.StatusActive)
	inWindow.NextPaymentDate = date(2025, 8, 15) // today + 5

	typed := sub("typed", "0", model.CycleMonthly, model.StatusActive)
	typed.SubscriptionType = strptr(model.TypeTrial)
	typed.NextPaymentDate = date(2025, 8, 11)

	notTrial := sub("paid", "9", model.CycleMonthly, model.StatusActive)
	notTrial.NextPaymentDate = date(2025, 8, 11)

	records := []model.Subscription{inWindow, typed, notTrial}

	got := TrialsEndingSoon(records, 7, now)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "soon", got[0].Name)
		assert.Equal(t, "typed", got[1].Name)
	}

	// threshold 3 drops the +5 record but keeps the +1
	got = TrialsEndingSoon(records, 3, now)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "typed", got[0].Name)
	}
}

func TestDueSoon(t *testing.T) {
	now := date(2025, 8, 10)

	due := sub("due", "5", model.CycleMonthly, model.StatusActive)
	due.NextPaymentDate = date(2025, 8, 12)
	due.ReminderDays = 3

	far := sub("far", "5", model.CycleMonthly, model.StatusActive)
	far.NextPaymentDate = date(2025, 8, 25)
	far.ReminderDays = 3

	cancelled := sub("cancelled", "5", model.CycleMonthly, model.StatusCancelled)
	cancelled.NextPaymentDate = date(2025, 8, 11)
	cancelled.ReminderDays = 3

	got := DueSoon([]model.Subscription{due, far, cancelled}, now)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "due", got[0].Name)
	}
}
