package calendar

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Calendar resolves trading days for a single exchange from a year-keyed
// holiday table. The table is external data: years it does not cover resolve
// with weekends only, which is a documented degraded mode, not an error.
type Calendar struct {
	holidays map[Date]bool
	years    map[int]bool // years actually covered by the table
}

// NewCalendar builds a Calendar from a year-keyed holiday table.
func NewCalendar(holidaysByYear map[int][]Date) *Calendar {
	c := &Calendar{
		holidays: make(map[Date]bool),
		years:    make(map[int]bool),
	}
	for year, days := range holidaysByYear {
		c.years[year] = true
		for _, d := range days {
			c.holidays[d] = true
		}
	}
	return c
}

// DecodeHolidays reads a holiday table from JSON of the form
// {"2025": ["2025-01-01", "2025-12-25"], ...}.
func DecodeHolidays(r io.Reader) (*Calendar, error) {
	raw := make(map[string][]Date)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid holiday table: %w", err)
	}
	byYear := make(map[int][]Date, len(raw))
	for key, days := range raw {
		var year int
		if _, err := fmt.Sscanf(key, "%d", &year); err != nil {
			return nil, fmt.Errorf("invalid holiday table year %q: %w", key, err)
		}
		byYear[year] = days
	}
	return NewCalendar(byYear), nil
}

// Covers reports whether the holiday table has entries for the given year.
func (c *Calendar) Covers(year int) bool { return c.years[year] }

// IsTradingDay reports whether d is neither a weekend nor a listed holiday.
func (c *Calendar) IsTradingDay(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[d]
}

// rollBack returns d itself if it is a trading day, otherwise the closest
// trading day before it.
func (c *Calendar) rollBack(d Date) Date {
	for !c.IsTradingDay(d) {
		d = d.Add(-1)
	}
	return d
}

// PreviousTradingDay returns the closest trading day strictly before d.
func (c *Calendar) PreviousTradingDay(d Date) Date {
	return c.rollBack(d.Add(-1))
}

// PreviousMonthEndTradingDay returns the last trading day of the month
// before d's month.
func (c *Calendar) PreviousMonthEndTradingDay(d Date) Date {
	// Day zero of the current month is the last day of the previous one.
	lastOfPrevMonth := New(d.Year(), d.Month(), 0)
	return c.rollBack(lastOfPrevMonth)
}

// PreviousYearEndTradingDay returns the last trading day of the year before
// d's year.
func (c *Calendar) PreviousYearEndTradingDay(d Date) Date {
	return c.rollBack(New(d.Year()-1, time.December, 31))
}
