// Package calendar produces the rolling window of bookable dates.  The
// window starts today in the configured office timezone and extends a
// fixed number of planning days forward.  Formatting for end users is a
// transport concern; this package only deals in dates.
package calendar

import (
	"fmt"
	"time"
)

// ISODate is the wire and storage format for booking dates.
const ISODate = "2006-01-02"

// Calendar computes dates in a fixed named timezone.  The zero value is
// not usable; construct one with New.
type Calendar struct {
	loc  *time.Location
	days int
	now  func() time.Time // overridable for tests
}

// New loads the named timezone and returns a Calendar with the given
// planning window length.  days must be positive.
func New(timezone string, days int) (*Calendar, error) {
	if days <= 0 {
		return nil, fmt.Errorf("planning window must be positive, got %d", days)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Calendar{loc: loc, days: days, now: time.Now}, nil
}

// NewWithClock is New with an injectable clock, for tests that need a
// fixed notion of now.
func NewWithClock(timezone string, days int, now func() time.Time) (*Calendar, error) {
	c, err := New(timezone, days)
	if err != nil {
		return nil, err
	}
	c.now = now
	return c, nil
}

// Today returns the current date in the calendar's timezone, truncated
// to midnight.
func (c *Calendar) Today() time.Time {
	t := c.now().In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// Upcoming returns the planning window: today inclusive plus the
// following days, in chronological order.
func (c *Calendar) Upcoming() []time.Time {
	today := c.Today()
	dates := make([]time.Time, 0, c.days)
	for i := 0; i < c.days; i++ {
		dates = append(dates, today.AddDate(0, 0, i))
	}
	return dates
}

// ParseDate parses a YYYY-MM-DD string into a date in the calendar's
// timezone.
func (c *Calendar) ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(ISODate, s, c.loc)
}
