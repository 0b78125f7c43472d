package service

import (
	"time"

	"leetstreak/models"
)

// Clock resolves day buckets in the configured timezone
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a clock for loc, defaulting to UTC
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: time.Now}
}

// Now returns the current instant
func (c *Clock) Now() time.Time {
	return c.now()
}

// Location returns the timezone day buckets are computed in
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Today returns the current day bucket
func (c *Clock) Today() time.Time {
	return models.DayOf(c.now(), c.loc)
}

// Yesterday returns the day bucket before today
func (c *Clock) Yesterday() time.Time {
	return models.PreviousDay(c.Today())
}

// DayOf returns the day bucket containing t
func (c *Clock) DayOf(t time.Time) time.Time {
	return models.DayOf(t, c.loc)
}

// PeriodStart returns the first day bucket counted for a completion-rate period.
// Buckets sit at local midnight, so a cutoff later than midnight excludes its own day.
func (c *Clock) PeriodStart(period models.StatsPeriod) time.Time {
	now := c.now().In(c.loc)

	var cutoff time.Time
	switch period {
	case models.StatsPeriodMonthly:
		cutoff = now.AddDate(0, -1, 0)
	default:
		cutoff = now.AddDate(0, 0, -7)
	}

	first := models.DayOf(cutoff, c.loc)
	if cutoff.Hour() != 0 || cutoff.Minute() != 0 || cutoff.Second() != 0 || cutoff.Nanosecond() != 0 {
		first = models.NextDay(first)
	}
	return first
}

// NewFixedClock returns a clock frozen at now, for tests
func NewFixedClock(now time.Time, loc *time.Location) *Clock {
	c := NewClock(loc)
	c.now = func() time.Time { return now }
	return c
}
