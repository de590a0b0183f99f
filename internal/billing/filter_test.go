package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subtrack/subtrack/internal/model"
)

func TestFilterByField(t *testing.T) {
	a := model.Subscription{Name: "a", Status: model.StatusActive, Category: "media"}
	b := model.Subscription{Name: "b", Status: model.StatusCancelled, Category: "media"}
	c := model.Subscription{Name: "c", Status: model.StatusActive, Category: "tools"}
	records := []model.Subscription{a, b, c}

	got := FilterByField(records, ByStatus, model.StatusActive)
	if assert.Len(t, got, 2) {
		// input order preserved
		assert.Equal(t, "a", got[0].Name)
		assert.Equal(t, "c", got[1].Name)
	}

	got = FilterByField(records, ByCategory, "media")
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a", got[0].Name)
		assert.Equal(t, "b", got[1].Name)
	}

	assert.Empty(t, FilterByField(records, ByCategory, "nope"))
	assert.Empty(t, FilterByField(nil, ByStatus, model.StatusActive))
}
