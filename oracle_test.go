package tracker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPriceOracle_CashIsSynthetic(t *testing.T) {
	provider := &fakeProvider{name: "fake", prices: map[string]float64{}}
	oracle := NewPriceOracle(0, provider)

	q, err := oracle.Quote(context.Background(), "CASH_USD", false)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q == nil {
		t.Fatal("cash quote should never be nil")
	}
	if !q.Price.Equal(USD(1)) || q.Session != SessionSynthetic {
		t.Errorf("cash quote = %s %s, want $1.00 synthetic", q.Price, q.Session)
	}
	if provider.calls != 0 {
		t.Errorf("cash reached the provider %d times, want 0", provider.calls)
	}
}

func TestPriceOracle_ExpiredOptionIsZero(t *testing.T) {
	provider := &fakeProvider{name: "fake", prices: map[string]float64{}}
	oracle := NewPriceOracle(0, provider)
	oracle.now = func() time.Time { return testInstant } // 2025-06-12

	q, err := oracle.Quote(context.Background(), "AAPL250117C00150000", false)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q == nil {
		t.Fatal("expired option quote should never be nil")
	}
	if !q.Price.IsZero() || q.Session != SessionSynthetic {
		t.Errorf("expired option quote = %s %s, want $0.00 synthetic", q.Price, q.Session)
	}
	if provider.calls != 0 {
		t.Errorf("expired option reached the provider %d times, want 0", provider.calls)
	}
}

func TestPriceOracle_TTL(t *testing.T) {
	provider := &fakeProvider{name: "fake", prices: map[string]float64{"AAPL": 100}}
	oracle := NewPriceOracle(3*time.Second, provider)
	now := testInstant
	oracle.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := oracle.Quote(ctx, "AAPL", false); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("first quote made %d fetches, want 1", provider.calls)
	}

	// Within the TTL the cache answers.
	now = now.Add(2 * time.Second)
	if _, err := oracle.Quote(ctx, "AAPL", false); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("cached quote made %d fetches, want 1", provider.calls)
	}

	// Past the TTL the provider is asked again.
	now = now.Add(2 * time.Second)
	if _, err := oracle.Quote(ctx, "AAPL", false); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("stale quote made %d fetches, want 2", provider.calls)
	}
}

func TestPriceOracle_QuoteForceBypassesCache(t *testing.T) {
	provider := &fakeProvider{name: "fake", prices: map[string]float64{"AAPL": 100}}
	oracle := NewPriceOracle(time.Minute, provider)
	ctx := context.Background()

	if _, err := oracle.Quote(ctx, "AAPL", false); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	provider.prices["AAPL"] = 105

	// Inside the TTL the cache still answers without force.
	q, err := oracle.Quote(ctx, "AAPL", false)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if !q.Price.Equal(USD(100)) || provider.calls != 1 {
		t.Errorf("cached quote = %s after %d fetches, want $100.00 after 1", q.Price, provider.calls)
	}

	// Force refetches even a fresh quote.
	q, err = oracle.Quote(ctx, "AAPL", true)
	if err != nil {
		t.Fatalf("Quote force: %v", err)
	}
	if !q.Price.Equal(USD(105)) || provider.calls != 2 {
		t.Errorf("forced quote = %s after %d fetches, want $105.00 after 2", q.Price, provider.calls)
	}
}

func TestPriceOracle_ForceIsOneRound(t *testing.T) {
	provider := &fakeProvider{name: "fake", prices: map[string]float64{"AAPL": 100, "GOOG": 200}}
	oracle := NewPriceOracle(time.Minute, provider)
	now := testInstant
	oracle.now = func() time.Time { return now }
	ctx := context.Background()

	// Warm the cache with AAPL only, at an earlier instant.
	if _, err := oracle.Quote(ctx, "AAPL", false); err != nil {
		t.Fatalf("Quote: %v", err)
	}

	// A forced batch must not mix that cached quote with fresh ones.
	now = now.Add(10 * time.Second)
	provider.prices["AAPL"] = 111 // the market moved
	quotes, err := oracle.Batch(ctx, []string{"AAPL", "GOOG"}, true)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if !quotes["AAPL"].Price.Equal(USD(111)) {
		t.Errorf("forced AAPL = %s, want the fresh $111.00", quotes["AAPL"].Price)
	}
	if !quotes["AAPL"].At.Equal(quotes["GOOG"].At) {
		t.Errorf("quotes of one forced round have different round times: %s vs %s",
			quotes["AAPL"].At, quotes["GOOG"].At)
	}
	if !quotes["AAPL"].At.Equal(now) {
		t.Errorf("round time = %s, want %s", quotes["AAPL"].At, now)
	}
}

func TestPriceOracle_ProviderFailureCostsOnlyItsSymbols(t *testing.T) {
	paid := &fakeProvider{name: "paid", err: errors.New("quota exhausted")}
	free := &fakeProvider{name: "free", prices: map[string]float64{"AAPL": 100}}
	oracle := NewPriceOracle(0, paid, free)

	quotes, err := oracle.Batch(context.Background(), []string{"AAPL", "MISSING"}, false)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if quotes["AAPL"] == nil || !quotes["AAPL"].Price.Equal(USD(100)) {
		t.Errorf("AAPL should fall through to the free tier, got %+v", quotes["AAPL"])
	}
	if quotes["AAPL"].Provider != "free" {
		t.Errorf("AAPL provider = %s, want free", quotes["AAPL"].Provider)
	}
	if q, ok := quotes["MISSING"]; !ok || q != nil {
		t.Errorf("unknown symbol should map to a nil quote, got %+v present=%v", q, ok)
	}
}

func TestPriceOracle_PaidTierWinsWhenHealthy(t *testing.T) {
	paid := &fakeProvider{name: "paid", prices: map[string]float64{"AAPL": 101}}
	free := &fakeProvider{name: "free", prices: map[string]float64{"AAPL": 99}}
	oracle := NewPriceOracle(0, paid, free)

	q, err := oracle.Quote(context.Background(), "AAPL", false)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Provider != "paid" || !q.Price.Equal(USD(101)) {
		t.Errorf("quote = %s from %s, want $101.00 from paid", q.Price, q.Provider)
	}
	if free.calls != 0 {
		t.Errorf("free tier was asked %d times while the paid tier answered, want 0", free.calls)
	}
}
