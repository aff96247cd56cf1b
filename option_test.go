package tracker

import (
	"errors"
	"testing"
)

func TestParseOptionSymbol(t *testing.T) {
	testCases := []struct {
		name           string
		symbol         string
		wantUnderlying string
		wantExpiry     string
		wantRight      OptionRight
		wantStrike     float64
	}{
		{
			name:           "AAPL january call",
			symbol:         "AAPL250117C00150000",
			wantUnderlying: "AAPL",
			wantExpiry:     "2025-01-17",
			wantRight:      CallOption,
			wantStrike:     150,
		},
		{
			name:           "single letter underlying put",
			symbol:         "F251219P00012500",
			wantUnderlying: "F",
			wantExpiry:     "2025-12-19",
			wantRight:      PutOption,
			wantStrike:     12.5,
		},
		{
			name:           "fractional strike",
			symbol:         "SIRI260116C00000500",
			wantUnderlying: "SIRI",
			wantExpiry:     "2026-01-16",
			wantRight:      CallOption,
			wantStrike:     0.5,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o, err := ParseOptionSymbol(tc.symbol)
			if err != nil {
				t.Fatalf("ParseOptionSymbol(%s): %v", tc.symbol, err)
			}
			if o.Underlying != tc.wantUnderlying {
				t.Errorf("underlying = %s, want %s", o.Underlying, tc.wantUnderlying)
			}
			if o.Expiry.String() != tc.wantExpiry {
				t.Errorf("expiry = %s, want %s", o.Expiry, tc.wantExpiry)
			}
			if o.Right != tc.wantRight {
				t.Errorf("right = %s, want %s", o.Right, tc.wantRight)
			}
			if !o.Strike.Equal(USD(tc.wantStrike)) {
				t.Errorf("strike = %s, want %v", o.Strike, tc.wantStrike)
			}
			// Encoding back must reproduce the exact symbol.
			if got := o.Symbol(); got != tc.symbol {
				t.Errorf("Symbol() = %s, want %s", got, tc.symbol)
			}
		})
	}
}

func TestParseOptionSymbol_Rejects(t *testing.T) {
	testCases := []struct {
		name   string
		symbol string
	}{
		{name: "plain stock", symbol: "AAPL"},
		{name: "lowercase underlying", symbol: "aapl250117C00150000"},
		{name: "six letter underlying", symbol: "ABCDEF250117C00150000"},
		{name: "bad right letter", symbol: "AAPL250117X00150000"},
		{name: "short strike code", symbol: "AAPL250117C0015000"},
		{name: "impossible expiry", symbol: "AAPL251340C00150000"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseOptionSymbol(tc.symbol); !errors.Is(err, ErrValidation) {
				t.Errorf("ParseOptionSymbol(%s) error = %v, want ErrValidation", tc.symbol, err)
			}
			if tc.symbol != "AAPL251340C00150000" && IsOptionSymbol(tc.symbol) {
				t.Errorf("IsOptionSymbol(%s) = true, want false", tc.symbol)
			}
		})
	}
}

func TestOption_Expired(t *testing.T) {
	o, err := ParseOptionSymbol("AAPL250117C00150000")
	if err != nil {
		t.Fatalf("ParseOptionSymbol: %v", err)
	}
	if !o.Expired(day("2025-01-18")) {
		t.Error("contract past expiry should be expired")
	}
	if o.Expired(day("2025-01-17")) {
		t.Error("contract is live on its expiry day")
	}
}

func TestKindOf(t *testing.T) {
	testCases := []struct {
		symbol string
		want   Kind
	}{
		{symbol: "AAPL", want: KindStock},
		{symbol: "CASH_USD", want: KindCash},
		{symbol: "AAPL250117C00150000", want: KindOption},
	}
	for _, tc := range testCases {
		if got := KindOf(tc.symbol); got != tc.want {
			t.Errorf("KindOf(%s) = %s, want %s", tc.symbol, got, tc.want)
		}
	}
}
