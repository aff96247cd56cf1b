package tracker

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// Option contracts are identified by OCC-style compact symbols:
// underlying (1 to 5 letters), expiry as YYMMDD, C or P, then the strike
// price in thousandths of a dollar on 8 digits. "AAPL250117C00150000" is the
// AAPL 150.00 call expiring 2025-01-17.
var optionSymbolRegex = regexp.MustCompile(`^([A-Z]{1,5})(\d{6})([CP])(\d{8})$`)

// OptionRight is the side of an option contract.
type OptionRight string

const (
	CallOption OptionRight = "C"
	PutOption  OptionRight = "P"
)

// Option is the decoded form of an option symbol.
type Option struct {
	Underlying string
	Expiry     calendar.Date
	Right      OptionRight
	Strike     Money
}

// IsOptionSymbol reports whether symbol is a well-formed option symbol.
func IsOptionSymbol(symbol string) bool { return optionSymbolRegex.MatchString(symbol) }

// ParseOptionSymbol decodes a compact option symbol.
func ParseOptionSymbol(symbol string) (Option, error) {
	m := optionSymbolRegex.FindStringSubmatch(symbol)
	if m == nil {
		return Option{}, fmt.Errorf("%w: %q is not an option symbol", ErrValidation, symbol)
	}
	yy, _ := strconv.Atoi(m[2][0:2])
	mm, _ := strconv.Atoi(m[2][2:4])
	dd, _ := strconv.Atoi(m[2][4:6])
	expiry := calendar.New(2000+yy, time.Month(mm), dd)
	if expiry.Month() != time.Month(mm) || expiry.Day() != dd {
		return Option{}, fmt.Errorf("%w: option symbol %q has invalid expiry", ErrValidation, symbol)
	}
	// The 8-digit code carries the strike in thousandths.
	code, _ := strconv.ParseInt(m[4], 10, 64)
	strike := M(decimal.NewFromInt(code).Shift(-3), "USD")
	return Option{
		Underlying: m[1],
		Expiry:     expiry,
		Right:      OptionRight(m[3]),
		Strike:     strike,
	}, nil
}

// Symbol encodes the option back to its compact symbol. Symbol is the exact
// inverse of ParseOptionSymbol for strikes on a thousandth boundary.
func (o Option) Symbol() string {
	code := o.Strike.value.Shift(3).Round(0).IntPart()
	return fmt.Sprintf("%s%02d%02d%02d%s%08d",
		o.Underlying,
		o.Expiry.Year()%100, int(o.Expiry.Month()), o.Expiry.Day(),
		o.Right,
		code,
	)
}

// Expired reports whether the contract expiry is strictly before today.
func (o Option) Expired(today calendar.Date) bool { return o.Expiry.Before(today) }

func (o Option) String() string {
	kind := "call"
	if o.Right == PutOption {
		kind = "put"
	}
	return fmt.Sprintf("%s %s %s exp %s", o.Underlying, o.Strike, kind, o.Expiry)
}
