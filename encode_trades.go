package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// jmoney is a specialized struct to read a money value from its two fields.
type jmoney struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (a jmoney) Money() Money {
	return M(a.Amount, a.Currency)
}

// jtrade is a specialized struct for decoding one trade line.
type jtrade struct {
	Portfolio string        `json:"portfolio"`
	Symbol    string        `json:"symbol"`
	Type      string        `json:"type"`
	Quantity  Quantity      `json:"quantity"`
	Price     jmoney        `json:"price"`
	Brokerage jmoney        `json:"brokerage"`
	Date      calendar.Date `json:"date"`
}

// DecodeTrades decodes a stream of JSONL trade lines, one trade per line.
// Lines are validated; trades come back in file order.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var jt jtrade
		if err := json.Unmarshal(lineBytes, &jt); err != nil {
			return nil, fmt.Errorf("could not decode trade on line %d: %w", i, err)
		}
		side, err := ParseTradeType(jt.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		t := Trade{
			Portfolio: jt.Portfolio,
			Symbol:    jt.Symbol,
			Type:      side,
			Quantity:  jt.Quantity,
			Price:     jt.Price.Money(),
			Brokerage: jt.Brokerage.Money(),
			Date:      jt.Date,
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return trades, nil
}

// EncodeTrade marshals a single trade and writes it to the writer, followed
// by a newline, in JSONL format.
func EncodeTrade(w io.Writer, t Trade) error {
	var jw jsonObjectWriter
	jw.Append("portfolio", t.Portfolio)
	jw.Append("symbol", t.Symbol)
	jw.Append("type", t.Type)
	jw.Append("quantity", t.Quantity)
	jw.Append("price", t.Price)
	jw.Append("brokerage", t.Brokerage)
	jw.Append("date", t.Date)
	line, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write trade: %w", err)
	}
	return nil
}

// FileTradeSource reads the whole trade log from one JSONL file at open and
// serves it from memory. The file is the system of record of another tool,
// this side only ever reads it.
type FileTradeSource struct {
	byPortfolio map[string][]Trade
}

// OpenFileTradeSource loads a JSONL trade file.
func OpenFileTradeSource(path string) (*FileTradeSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open trade file %q: %w", path, err)
	}
	defer f.Close()
	trades, err := DecodeTrades(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode trade file %q: %w", path, err)
	}
	return NewMemoryTradeSource(trades), nil
}

// NewMemoryTradeSource wraps a fixed set of trades as a TradeSource.
func NewMemoryTradeSource(trades []Trade) *FileTradeSource {
	s := &FileTradeSource{byPortfolio: make(map[string][]Trade)}
	for _, t := range trades {
		s.byPortfolio[t.Portfolio] = append(s.byPortfolio[t.Portfolio], t)
	}
	return s
}

// Trades returns all trades of a portfolio in chronological order.
func (s *FileTradeSource) Trades(portfolio string) ([]Trade, error) {
	trades, ok := s.byPortfolio[portfolio]
	if !ok {
		return nil, fmt.Errorf("portfolio %q: %w", portfolio, ErrNotFound)
	}
	sorted := make([]Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted, nil
}

// Portfolios lists the portfolio names present in the source, sorted.
func (s *FileTradeSource) Portfolios() ([]string, error) {
	names := make([]string, 0, len(s.byPortfolio))
	for name := range s.byPortfolio {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
