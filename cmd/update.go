package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// updatePricesCmd fetches historical daily closes into the prices file.
type updatePricesCmd struct {
	portfolio string
	from      string
	to        string
}

func (*updatePricesCmd) Name() string     { return "update-prices" }
func (*updatePricesCmd) Synopsis() string { return "fetch historical daily closes" }
func (*updatePricesCmd) Usage() string {
	return `ipt update-prices -p <portfolio> [-from <date>] [-to <date>]

  Fetches the daily close history of every symbol traded in the portfolio and
  merges it into the prices file. Backdated snapshots are priced from these
  closes. Requires the Alpha Vantage API key.
`
}

func (c *updatePricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio whose symbols to fetch")
	f.StringVar(&c.from, "from", calendar.Today().Add(-30).String(), "First day to fetch (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", calendar.Today().String(), "Last day to fetch (YYYY-MM-DD)")
}

func (c *updatePricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	key := tracker.AlphaVantageKey()
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: an Alpha Vantage API key is required to fetch daily closes")
		return subcommands.ExitFailure
	}
	from, err := calendar.Parse(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -from: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := calendar.Parse(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}

	source, err := tracker.OpenFileTradeSource(*tradesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	trades, err := source.Trades(c.portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := DecodePrices()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	provider, ok := tracker.NewAlphaVantage(key).(tracker.ClosesProvider)
	if !ok {
		fmt.Fprintln(os.Stderr, "Error: the quote provider does not serve daily closes")
		return subcommands.ExitFailure
	}

	seen := map[string]bool{}
	for _, t := range trades {
		if seen[t.Symbol] || t.Kind() == tracker.KindCash {
			continue
		}
		seen[t.Symbol] = true
		closes, err := provider.DailyCloses(ctx, t.Symbol, from, to)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching closes for %s: %v\n", t.Symbol, err)
			continue
		}
		db.Merge(t.Symbol, closes)
		fmt.Printf("Fetched %d closes for %s\n", closes.Len(), t.Symbol)
	}

	if err := EncodePrices(db); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
