// Package billing holds the pure calculation core: next-payment-date
// derivation, due-window checks, record filtering and spend aggregation.
// Nothing here touches I/O; callers fetch records first and persist after.
package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/subtrack/subtrack/internal/model"
)

// ErrInvalidCycle is returned when a cycle tag outside the four known values
// reaches the calculator. There is deliberately no silent default.
var ErrInvalidCycle = errors.New("invalid billing cycle")

// NextPaymentDate computes the first payment date after start for the given
// cycle. Monthly and yearly additions clamp to the end of the target month,
// so Jan 31 + 1 month lands on Feb 29 or Feb 28 rather than rolling over
// into March. One-time and trial records never advance.
func NextPaymentDate(start time.Time, cycle string) (time.Time, error) {
	switch cycle {
	case model.CycleMonthly:
		return addMonthsClamped(start, 1), nil
	case model.CycleYearly:
		return addYearsClamped(start, 1), nil
	case model.CycleOneTime, model.CycleTrial:
		return start, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCycle, cycle)
	}
}

// Advance moves an already-derived next payment date one further cycle.
// Same deltas as NextPaymentDate, applied to current.
func Advance(current time.Time, cycle string) (time.Time, error) {
	return NextPaymentDate(current, cycle)
}

// WithinWindow reports whether next falls between now and now+windowDays,
// both boundaries inclusive, comparing calendar days only. A past-due date
// is outside the window.
func WithinWindow(next time.Time, windowDays int, now time.Time) bool {
	days := int(civilDate(next).Sub(civilDate(now)) / (24 * time.Hour))
	return days >= 0 && days <= windowDays
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	// normalize target year/month before clamping the day
	total := int(m) - 1 + n
	ty := y + total/12
	tm := time.Month(total%12 + 1)
	if total < 0 {
		ty = y + (total-11)/12
		tm = time.Month((total%12+12)%12 + 1)
	}
	if last := daysIn(ty, tm); d > last {
		d = last
	}
	h, min, s := t.Clock()
	return time.Date(ty, tm, d, h, min, s, t.Nanosecond(), t.Location())
}

func addYearsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	if last := daysIn(y+n, m); d > last {
		d = last
	}
	h, min, s := t.Clock()
	return time.Date(y+n, m, d, h, min, s, t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
