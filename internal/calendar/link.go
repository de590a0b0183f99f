// Package calendar builds external calendar-service URLs for payment
// reminders. Pure string templating, no state.
package calendar

import (
	"net/url"
	"time"
)

const renderBase = "https://calendar.google.com/calendar/render"

// EventURL returns a Google Calendar template link for an all-day event on
// the given date.
func EventURL(title string, date time.Time, details string) string {
	day := date.Format("20060102")
	next := date.AddDate(0, 0, 1).Format("20060102")

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", title)
	q.Set("dates", day+"/"+next)
	if details != "" {
		q.Set("details", details)
	}
	return renderBase + "?" + q.Encode()
}
