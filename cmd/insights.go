package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// correlationsCmd holds the flags for the 'correlations' subcommand.
type correlationsCmd struct {
	portfolio string
	lookback  int
}

func (*correlationsCmd) Name() string     { return "correlations" }
func (*correlationsCmd) Synopsis() string { return "display how the portfolio's stocks move together" }
func (*correlationsCmd) Usage() string {
	return `ipt correlations -p <portfolio> [-lookback <days>]

  Displays the pairwise correlation of the portfolio's stocks, computed on
  daily returns from the stored closes over the lookback window.
`
}

func (c *correlationsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
	f.IntVar(&c.lookback, "lookback", tracker.DefaultLookbackDays, "Correlation window in days")
}

func (c *correlationsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := service.Correlations(ctx, c.portfolio, c.lookback)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing correlations: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CorrelationsMarkdown(report))
	return subcommands.ExitSuccess
}

// insightsCmd holds the flags for the 'insights' subcommand.
type insightsCmd struct {
	portfolio string
}

func (*insightsCmd) Name() string     { return "insights" }
func (*insightsCmd) Synopsis() string { return "assess the portfolio's risk and composition" }
func (*insightsCmd) Usage() string {
	return `ipt insights -p <portfolio>

  Assesses the portfolio's concentration, diversification and performance,
  grades its risk and lists recommendations.
`
}

func (c *insightsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
}

func (c *insightsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report, err := service.Insights(ctx, c.portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing insights: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.InsightsMarkdown(report))
	return subcommands.ExitSuccess
}
