package tracker

import (
	"fmt"
	"slices"
	"sort"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// Ledger holds the trade log of one portfolio, chronologically sorted.
// It is a pure calculator over an immutable slice of trades: the same ledger
// can be shared across goroutines because nothing here mutates it.
type Ledger struct {
	portfolio string
	trades    []Trade
}

// NewLedger validates the trades and returns a ledger sorted by trade date.
// The sort is stable, so same-day trades keep the order they were recorded in.
func NewLedger(portfolio string, trades []Trade) (*Ledger, error) {
	for _, t := range trades {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if t.Portfolio != portfolio {
			return nil, fmt.Errorf("%w: trade %s belongs to portfolio %q not %q", ErrValidation, t.Symbol, t.Portfolio, portfolio)
		}
	}
	sorted := slices.Clone(trades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return &Ledger{portfolio: portfolio, trades: sorted}, nil
}

// Portfolio returns the portfolio name this ledger accounts for.
func (l *Ledger) Portfolio() string { return l.portfolio }

// Len returns the number of trades in the ledger.
func (l *Ledger) Len() int { return len(l.trades) }

// Symbols returns the distinct symbols traded, sorted.
func (l *Ledger) Symbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	for _, t := range l.trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// AsOf returns a ledger restricted to trades on or before day.
func (l *Ledger) AsOf(day calendar.Date) *Ledger {
	restricted := &Ledger{portfolio: l.portfolio}
	for _, t := range l.trades {
		if !t.Date.After(day) {
			restricted.trades = append(restricted.trades, t)
		}
	}
	return restricted
}

// Position is the FIFO accounting result for one symbol.
type Position struct {
	Portfolio string
	Symbol    string
	Quantity  Quantity
	AvgCost   Money // cost basis of surviving lots divided by quantity
	CostBasis Money // total cost of surviving lots, fees included
	Realized  Money // profit realized by sells against FIFO lot costs
	Bought    Money // lifetime buy cost, brokerage included
	Sold      Money // lifetime sell proceeds, net of brokerage
}

// Open reports whether any units are still held.
func (p Position) Open() bool { return p.Quantity.IsPositive() }

// Position replays the symbol's trades through the FIFO lot queue.
// A sell that exceeds the held quantity fails with ErrOversell.
func (l *Ledger) Position(symbol string) (Position, error) {
	p := Position{Portfolio: l.portfolio, Symbol: symbol}
	var open lots
	for _, t := range l.trades {
		if t.Symbol != symbol {
			continue
		}
		switch t.Type {
		case Buy:
			open = open.buy(t)
			p.Bought = p.Bought.Add(t.Price.Mul(t.Quantity).Add(t.Brokerage))
		case Sell:
			remaining, realized, err := open.sell(t.Quantity, t.Price)
			if err != nil {
				return p, fmt.Errorf("position %s/%s on %s: %w", l.portfolio, symbol, t.Date, err)
			}
			open = remaining
			p.Realized = p.Realized.Add(realized)
			p.Sold = p.Sold.Add(t.Price.Mul(t.Quantity).Sub(t.Brokerage))
		}
	}
	p.Quantity = open.quantity()
	p.CostBasis = open.costBasis()
	if p.Quantity.IsPositive() {
		p.AvgCost = p.CostBasis.Div(p.Quantity)
	}
	return p, nil
}

// Positions computes every open position of the ledger. Symbols that were
// fully closed are left out.
func (l *Ledger) Positions() ([]Position, error) {
	var positions []Position
	for _, symbol := range l.Symbols() {
		p, err := l.Position(symbol)
		if err != nil {
			return nil, err
		}
		if p.Open() {
			positions = append(positions, p)
		}
	}
	return positions, nil
}

// Valuation is a position marked to market.
type Valuation struct {
	Position
	Price       Money
	PriceStale  bool // no quote was available, average cost stands in
	MarketValue Money
	Unrealized  Money
	Inception   Money // market value plus lifetime proceeds minus lifetime cost
}

// MarkToMarket values the position against a quote. A nil quote falls back to
// the average cost and flags the valuation as stale instead of failing, so a
// provider outage degrades the report rather than emptying it.
func (p Position) MarkToMarket(q *Quote) Valuation {
	v := Valuation{Position: p}
	if q != nil {
		v.Price = q.Price
	} else {
		v.Price = p.AvgCost
		v.PriceStale = true
	}
	v.MarketValue = v.Price.Mul(p.Quantity)
	v.Unrealized = v.MarketValue.Sub(p.CostBasis)
	v.Inception = v.MarketValue.Add(p.Sold).Sub(p.Bought)
	return v
}
