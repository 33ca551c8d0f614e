package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixed returns a calendar whose clock is pinned to the given instant.
func fixed(t *testing.T, timezone string, days int, at time.Time) *Calendar {
	t.Helper()
	c, err := New(timezone, days)
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	c.now = func() time.Time { return at }
	return c
}

func TestUpcomingWindow(t *testing.T) {
	// 2025-06-10 23:30 UTC is already 2025-06-11 in Moscow.
	at := time.Date(2025, 6, 10, 23, 30, 0, 0, time.UTC)
	c := fixed(t, "Europe/Moscow", 14, at)

	dates := c.Upcoming()
	assert.Len(t, dates, 14)
	assert.Equal(t, "2025-06-11", dates[0].Format(ISODate))
	assert.Equal(t, "2025-06-24", dates[13].Format(ISODate))

	// Chronological, one day apart, no gaps.
	for i := 1; i < len(dates); i++ {
		assert.Equal(t, dates[i-1].AddDate(0, 0, 1), dates[i])
	}
}

func TestTodayTruncatesToMidnight(t *testing.T) {
	at := time.Date(2025, 6, 10, 15, 45, 12, 0, time.UTC)
	c := fixed(t, "Europe/Moscow", 1, at)

	today := c.Today()
	assert.Equal(t, 0, today.Hour())
	assert.Equal(t, 0, today.Minute())
	assert.Equal(t, "2025-06-10", today.Format(ISODate))
}

func TestParseDateRoundTrip(t *testing.T) {
	c := fixed(t, "Europe/Moscow", 1, time.Now())
	d, err := c.ParseDate("2025-06-10")
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-10", d.Format(ISODate))

	_, err = c.ParseDate("10.06.2025")
	assert.Error(t, err)
}

func TestUnknownTimezone(t *testing.T) {
	_, err := New("Mars/Olympus", 14)
	assert.Error(t, err)
}

func TestNonPositiveWindowRejected(t *testing.T) {
	_, err := New("Europe/Moscow", 0)
	assert.Error(t, err)

	_, err = New("Europe/Moscow", -3)
	assert.Error(t, err)
}
