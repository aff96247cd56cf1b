package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	portfolio string
	refresh   bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display the open positions marked to market" }
func (*positionsCmd) Usage() string {
	return `ipt positions -p <portfolio> [-r]

  Displays the open positions of a portfolio with live prices, market values
  and profit since inception. With -r the quote cache is bypassed and every
  price comes from a fresh fetch round.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
	f.BoolVar(&c.refresh, "r", false, "bypass the quote cache and force a fresh fetch round")
}

func (c *positionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	valuations, err := service.Positions(ctx, c.portfolio, c.refresh)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing positions: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.PositionsMarkdown(c.portfolio, valuations))
	return subcommands.ExitSuccess
}

// portfoliosCmd lists the portfolios present in the trade log.
type portfoliosCmd struct{}

func (*portfoliosCmd) Name() string             { return "portfolios" }
func (*portfoliosCmd) Synopsis() string         { return "list the portfolios of the trade log" }
func (*portfoliosCmd) SetFlags(f *flag.FlagSet) {}
func (*portfoliosCmd) Usage() string {
	return `ipt portfolios

  Lists the portfolio names present in the trade log.
`
}

func (c *portfoliosCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	names, err := service.Portfolios()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return subcommands.ExitSuccess
}
