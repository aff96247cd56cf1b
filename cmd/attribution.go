package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// attributionCmd holds the flags for the 'attribution' subcommand.
type attributionCmd struct {
	portfolio string
	symbol    string
}

func (*attributionCmd) Name() string { return "attribution" }
func (*attributionCmd) Synopsis() string {
	return "display the profit attribution over the day, month and year"
}
func (*attributionCmd) Usage() string {
	return `ipt attribution -p <portfolio> [-symbol <symbol>]

  Displays the profit of each position since the previous trading day (DTD),
  the end of the previous month (MTD) and the end of the previous year (YTD),
  measured against the stored daily snapshots. With -symbol the report covers
  that one position only.
`
}

func (c *attributionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
	f.StringVar(&c.symbol, "symbol", "", "Narrow the report to one symbol")
}

func (c *attributionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := service.Attribution(ctx, c.portfolio, c.symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing attribution: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AttributionMarkdown(report))
	return subcommands.ExitSuccess
}
