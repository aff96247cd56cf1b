package tracker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// CloseWindow is how far around a requested day a historical close may be
// borrowed from. Three days bridges any weekend plus one holiday.
const CloseWindow = 3

// ClosesProvider serves the historical daily closes of a symbol. The paid
// quote tier implements it.
type ClosesProvider interface {
	DailyCloses(ctx context.Context, symbol string, from, to calendar.Date) (calendar.History[float64], error)
}

// PriceDB holds historical daily closes per symbol. It is the pricing source
// for backdated snapshots, where a live quote would be meaningless.
type PriceDB struct {
	closes map[string]*calendar.History[float64]
}

// NewPriceDB returns a new empty close collection.
func NewPriceDB() *PriceDB {
	return &PriceDB{closes: make(map[string]*calendar.History[float64])}
}

// Has reports whether any close is known for the symbol.
func (db *PriceDB) Has(symbol string) bool {
	h, ok := db.closes[symbol]
	return ok && h.Len() > 0
}

// Append records the close of a symbol on a day, overwriting an existing one.
func (db *PriceDB) Append(symbol string, on calendar.Date, close float64) {
	h, ok := db.closes[symbol]
	if !ok {
		h = &calendar.History[float64]{}
		db.closes[symbol] = h
	}
	h.Append(on, close)
}

// Merge copies a fetched close history into the database.
func (db *PriceDB) Merge(symbol string, closes calendar.History[float64]) {
	for on, v := range closes.Values() {
		db.Append(symbol, on, v)
	}
}

// Symbols returns the symbols with at least one close, sorted.
func (db *PriceDB) Symbols() []string {
	symbols := make([]string, 0, len(db.closes))
	for symbol, h := range db.closes {
		if h.Len() > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// Close returns the close nearest to 'on' within CloseWindow days.
// Cash symbols are constant at 1.0 and never stored.
func (db *PriceDB) Close(symbol string, on calendar.Date) (float64, calendar.Date, bool) {
	if IsCashSymbol(symbol) {
		return 1.0, on, true
	}
	h, ok := db.closes[symbol]
	if !ok {
		return 0, calendar.Date{}, false
	}
	return h.Nearest(on, CloseWindow)
}

// The close database is persisted as JSONL, one close per line:
//   {"symbol":"AAPL","on":"2025-06-13","close":196.45}
// It stays human-readable and diff-friendly in a git repo.

type jclose struct {
	Symbol string        `json:"symbol"`
	On     calendar.Date `json:"on"`
	Close  float64       `json:"close"`
}

// DecodePriceDB reads a close database from its JSONL form.
func DecodePriceDB(r io.Reader) (*PriceDB, error) {
	db := NewPriceDB()
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jc jclose
		if err := json.Unmarshal(line, &jc); err != nil {
			return nil, fmt.Errorf("parse error on line %d: %w", i, err)
		}
		if jc.Symbol == "" {
			return nil, fmt.Errorf("parse error on line %d: missing symbol", i)
		}
		db.Append(jc.Symbol, jc.On, jc.Close)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading close database: %w", err)
	}
	return db, nil
}

// EncodePriceDB writes the close database in its canonical JSONL form,
// symbols in alphabetical order, days in chronological order.
func EncodePriceDB(w io.Writer, db *PriceDB) error {
	for _, symbol := range db.Symbols() {
		for on, v := range db.closes[symbol].Values() {
			line, err := json.Marshal(jclose{Symbol: symbol, On: on, Close: v})
			if err != nil {
				return err
			}
			if _, err := w.Write(append(line, '\n')); err != nil {
				return fmt.Errorf("cannot write close database: %w", err)
			}
		}
	}
	return nil
}
