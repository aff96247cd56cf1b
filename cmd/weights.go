package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// weightsCmd holds the flags for the 'weights' subcommand.
type weightsCmd struct {
	portfolio string
}

func (*weightsCmd) Name() string     { return "weights" }
func (*weightsCmd) Synopsis() string { return "display each position's share of the portfolio" }
func (*weightsCmd) Usage() string {
	return `ipt weights -p <portfolio>

  Displays the weight of each open position in the portfolio's market value.
  Positions above the concentration threshold are flagged.
`
}

func (c *weightsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
}

func (c *weightsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	weightings, err := service.Weightings(ctx, c.portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing weightings: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.WeightingsMarkdown(c.portfolio, weightings))
	return subcommands.ExitSuccess
}
