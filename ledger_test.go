package tracker

import (
	"errors"
	"testing"
)

func TestLedger_Position_FIFO(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 0),
		NewBuy(day("2025-02-10"), "growth", "AAPL", 10, 12.0, 0),
		NewSell(day("2025-03-01"), "growth", "AAPL", 15, 20.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	p, err := ledger.Position("AAPL")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if !p.Quantity.Equal(Q(5)) {
		t.Errorf("quantity = %s, want 5", p.Quantity)
	}
	// The 10 shares at $10 are gone and 5 of the $12 lot remain.
	if !p.AvgCost.Equal(USD(12)) {
		t.Errorf("avg cost = %s, want $12.00", p.AvgCost)
	}
	// 10*(20-10) + 5*(20-12)
	if !p.Realized.Equal(USD(140)) {
		t.Errorf("realized = %s, want $140.00", p.Realized)
	}
}

func TestLedger_Position_BrokerageSpreadOverUnits(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "MSFT", 10, 10.0, 10.0), // $1 of fee per unit
		NewSell(day("2025-02-01"), "growth", "MSFT", 5, 20.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	p, err := ledger.Position("MSFT")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	// Each unit cost $11 all-in, so 5 sold at $20 realize 5*(20-11).
	if !p.Realized.Equal(USD(45)) {
		t.Errorf("realized = %s, want $45.00", p.Realized)
	}
	if !p.AvgCost.Equal(USD(11)) {
		t.Errorf("avg cost = %s, want $11.00", p.AvgCost)
	}
	if !p.CostBasis.Equal(USD(55)) {
		t.Errorf("cost basis = %s, want $55.00", p.CostBasis)
	}
}

func TestLedger_Position_PartialLotSurvives(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "NVDA", 10, 100.0, 0),
		NewBuy(day("2025-01-20"), "growth", "NVDA", 10, 120.0, 0),
		NewSell(day("2025-02-01"), "growth", "NVDA", 4, 150.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	p, err := ledger.Position("NVDA")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	if !p.Quantity.Equal(Q(16)) {
		t.Errorf("quantity = %s, want 16", p.Quantity)
	}
	// 6 of the $100 lot and all 10 of the $120 lot remain.
	if !p.CostBasis.Equal(USD(1800)) {
		t.Errorf("cost basis = %s, want $1,800.00", p.CostBasis)
	}
	if !p.AvgCost.Equal(USD(112.5)) {
		t.Errorf("avg cost = %s, want $112.50", p.AvgCost)
	}
}

func TestLedger_Position_Oversell(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 0),
		NewSell(day("2025-02-01"), "growth", "AAPL", 11, 20.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	_, err = ledger.Position("AAPL")
	if !errors.Is(err, ErrOversell) {
		t.Fatalf("Position error = %v, want ErrOversell", err)
	}
	if !errors.Is(err, ErrValidation) {
		t.Errorf("ErrOversell should be a validation error, got %v", err)
	}
}

func TestLedger_Positions_ExcludesClosed(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 0),
		NewBuy(day("2025-01-11"), "growth", "GOOG", 5, 100.0, 0),
		NewSell(day("2025-02-01"), "growth", "GOOG", 5, 120.0, 0), // closes GOOG
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	positions, err := ledger.Positions()
	if err != nil {
		t.Fatalf("Positions: %v", err)
	}
	if len(positions) != 1 || positions[0].Symbol != "AAPL" {
		t.Fatalf("Positions = %+v, want AAPL only", positions)
	}
}

func TestLedger_AsOf(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 0),
		NewSell(day("2025-03-01"), "growth", "AAPL", 10, 20.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}

	testCases := []struct {
		name string
		on   string
		want int64
	}{
		{name: "before any trade", on: "2025-01-09", want: 0},
		{name: "between buy and sell", on: "2025-02-15", want: 10},
		{name: "on the sell day", on: "2025-03-01", want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ledger.AsOf(day(tc.on)).Position("AAPL")
			if err != nil {
				t.Fatalf("Position: %v", err)
			}
			if !p.Quantity.Equal(Q(tc.want)) {
				t.Errorf("quantity as of %s = %s, want %d", tc.on, p.Quantity, tc.want)
			}
		})
	}
}

func TestPosition_MarkToMarket(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 5.0),
		NewSell(day("2025-02-01"), "growth", "AAPL", 5, 20.0, 5.0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	p, err := ledger.Position("AAPL")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}

	v := p.MarkToMarket(&Quote{Symbol: "AAPL", Price: USD(30)})
	if !v.MarketValue.Equal(USD(150)) {
		t.Errorf("market value = %s, want $150.00", v.MarketValue)
	}
	// bought 10*10+5=105, sold 5*20-5=95, inception = 150+95-105
	if !v.Inception.Equal(USD(140)) {
		t.Errorf("inception = %s, want $140.00", v.Inception)
	}
	if v.PriceStale {
		t.Error("valuation with a quote should not be stale")
	}
}

func TestPosition_MarkToMarket_NoQuoteFallsBackToCost(t *testing.T) {
	ledger, err := NewLedger("growth", []Trade{
		NewBuy(day("2025-01-10"), "growth", "AAPL", 10, 10.0, 0),
	})
	if err != nil {
		t.Fatalf("NewLedger: %v", err)
	}
	p, err := ledger.Position("AAPL")
	if err != nil {
		t.Fatalf("Position: %v", err)
	}

	v := p.MarkToMarket(nil)
	if !v.PriceStale {
		t.Error("valuation without a quote should be stale")
	}
	if !v.Price.Equal(USD(10)) {
		t.Errorf("fallback price = %s, want the $10.00 avg cost", v.Price)
	}
	if !v.Unrealized.Equal(USD(0)) {
		t.Errorf("unrealized at cost = %s, want $0.00", v.Unrealized)
	}
}

func TestNewLedger_RejectsInvalidTrades(t *testing.T) {
	bad := NewBuy(day("2025-01-10"), "growth", "AAPL", 0, 10.0, 0) // zero quantity
	if _, err := NewLedger("growth", []Trade{bad}); !errors.Is(err, ErrValidation) {
		t.Errorf("NewLedger error = %v, want ErrValidation", err)
	}

	foreign := NewBuy(day("2025-01-10"), "other", "AAPL", 1, 10.0, 0)
	if _, err := NewLedger("growth", []Trade{foreign}); !errors.Is(err, ErrValidation) {
		t.Errorf("NewLedger with foreign trade error = %v, want ErrValidation", err)
	}
}
