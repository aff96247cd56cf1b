package tracker

import (
	"context"
	"time"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// day is a helper for test to parse a date from const
func day(s string) calendar.Date { return calendar.MustParse(s) }

// testInstant is a fixed instant the fake clocks tick from.
var testInstant = time.Date(2025, time.June, 12, 15, 30, 0, 0, time.UTC) // a Thursday

// testCalendar covers the days the tests roll over.
func testCalendar() *calendar.Calendar {
	return calendar.NewCalendar(map[int][]calendar.Date{
		2024: {day("2024-12-25")},
		2025: {day("2025-01-01"), day("2025-07-04"), day("2025-12-25")},
	})
}

// fakeProvider serves scripted prices and counts fetch calls.
type fakeProvider struct {
	name   string
	prices map[string]float64
	err    error
	calls  int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Quotes(_ context.Context, symbols []string) (map[string]*Quote, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	result := make(map[string]*Quote, len(symbols))
	for _, symbol := range symbols {
		price, ok := p.prices[symbol]
		if !ok {
			continue
		}
		result[symbol] = &Quote{
			Symbol:   symbol,
			Price:    USD(price),
			Session:  SessionRegular,
			Provider: p.name,
		}
	}
	return result, nil
}
