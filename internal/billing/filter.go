package billing

import "github.com/subtrack/subtrack/internal/model"

// Field selectors for FilterByField.
var (
	ByStatus   = func(s model.Subscription) string { return s.Status }
	ByCategory = func(s model.Subscription) string { return s.Category }
)

// FilterByField returns the records whose selected field equals value,
// preserving input order. Empty input or no matches yield an empty slice.
func FilterByField(records []model.Subscription, field func(model.Subscription) string, value string) []model.Subscription {
	out := make([]model.Subscription, 0, len(records))
	for _, r := range records {
		if field(r) == value {
			out = append(out, r)
		}
	}
	return out
}
