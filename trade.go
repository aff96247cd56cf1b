package tracker

import (
	"fmt"
	"strings"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// TradeType is the side of a trade.
type TradeType string

const (
	Buy  TradeType = "BUY"
	Sell TradeType = "SELL"
)

// ParseTradeType parses a trade side, case insensitively.
func ParseTradeType(s string) (TradeType, error) {
	switch TradeType(strings.ToUpper(s)) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", fmt.Errorf("%w: unknown trade type %q (want BUY or SELL)", ErrValidation, s)
}

// Kind classifies the instrument a trade is in.
type Kind string

const (
	KindStock  Kind = "stock"
	KindOption Kind = "option"
	KindCash   Kind = "cash"
)

// cashPrefix marks synthetic cash rows, e.g. "CASH_USD".
const cashPrefix = "CASH_"

// CashSymbol returns the synthetic symbol holding cash in the given currency.
func CashSymbol(currency string) string { return cashPrefix + strings.ToUpper(currency) }

// IsCashSymbol reports whether symbol is a synthetic cash row.
func IsCashSymbol(symbol string) bool { return strings.HasPrefix(symbol, cashPrefix) }

// KindOf classifies a symbol. Anything that is neither cash nor a well-formed
// option symbol is a stock.
func KindOf(symbol string) Kind {
	switch {
	case IsCashSymbol(symbol):
		return KindCash
	case IsOptionSymbol(symbol):
		return KindOption
	}
	return KindStock
}

// Trade is a single immutable row of the trade log. Trades are recorded
// elsewhere; this module only reads them.
type Trade struct {
	Portfolio string        `json:"portfolio"`
	Symbol    string        `json:"symbol"`
	Type      TradeType     `json:"type"`
	Quantity  Quantity      `json:"quantity"`
	Price     Money         `json:"price"`     // per unit
	Brokerage Money         `json:"brokerage"` // per trade, not per unit
	Date      calendar.Date `json:"date"`
}

// NewBuy builds a buy trade in USD. Test and import helper.
func NewBuy(on calendar.Date, portfolio, symbol string, qty, price, brokerage float64) Trade {
	return Trade{
		Portfolio: portfolio,
		Symbol:    symbol,
		Type:      Buy,
		Quantity:  Q(qty),
		Price:     M(price, "USD"),
		Brokerage: M(brokerage, "USD"),
		Date:      on,
	}
}

// NewSell builds a sell trade in USD. Test and import helper.
func NewSell(on calendar.Date, portfolio, symbol string, qty, price, brokerage float64) Trade {
	t := NewBuy(on, portfolio, symbol, qty, price, brokerage)
	t.Type = Sell
	return t
}

// Kind classifies the instrument the trade is in.
func (t Trade) Kind() Kind { return KindOf(t.Symbol) }

// Validate rejects trades that cannot take part in position accounting.
func (t Trade) Validate() error {
	if t.Portfolio == "" {
		return fmt.Errorf("%w: trade has no portfolio", ErrValidation)
	}
	if t.Symbol == "" {
		return fmt.Errorf("%w: trade has no symbol", ErrValidation)
	}
	if t.Type != Buy && t.Type != Sell {
		return fmt.Errorf("%w: trade %s %s has type %q", ErrValidation, t.Symbol, t.Date, t.Type)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: trade %s %s has non-positive quantity %s", ErrValidation, t.Symbol, t.Date, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: trade %s %s has negative price", ErrValidation, t.Symbol, t.Date)
	}
	if t.Brokerage.IsNegative() {
		return fmt.Errorf("%w: trade %s %s has negative brokerage", ErrValidation, t.Symbol, t.Date)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: trade %s has no date", ErrValidation, t.Symbol)
	}
	return nil
}

// TradeSource is the read-only boundary trades arrive through.
type TradeSource interface {
	// Trades returns all trades of a portfolio in chronological order.
	Trades(portfolio string) ([]Trade, error)
	// Portfolios lists the portfolio names present in the source.
	Portfolios() ([]string, error)
}
