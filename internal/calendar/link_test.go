package calendar

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventURL(t *testing.T) {
	got := EventURL("Netflix payment", time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), "15.49 USD")

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Netflix payment", q.Get("text"))
	assert.Equal(t, "20250815/20250816", q.Get("dates"))
	assert.Equal(t, "15.49 USD", q.Get("details"))
}

func TestEventURL_NoDetails(t *testing.T) {
	got := EventURL("X", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "")
	u, err := url.Parse(got)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "20251231/20260101", q.Get("dates"))
	assert.False(t, q.Has("details"))
}
