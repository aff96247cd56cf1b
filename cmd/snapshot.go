package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
	"github.com/arumugamkasi77/investment-portfolio-tracker/renderer"
)

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	portfolio string
	date      string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "freeze the portfolio's positions as daily snapshots" }
func (*snapshotCmd) Usage() string {
	return `ipt snapshot [-p <portfolio>] [-d <date>]

  Freezes the open positions as snapshots of one day, of one portfolio with
  -p, of every portfolio without. Snapshots are write-once: re-running a day
  inserts nothing. A past date replays the trade log up to that day and
  prices it from the stored closes.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to snapshot (default every portfolio)")
	f.StringVar(&c.date, "d", calendar.Today().String(), "Day to snapshot (YYYY-MM-DD)")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := calendar.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	inserted, err := service.CreateSnapshots(ctx, c.portfolio, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	name := c.portfolio
	if name == "" {
		name = "all portfolios"
	}
	fmt.Printf("Inserted %d snapshots of %s on %s\n", inserted, name, on)
	return subcommands.ExitSuccess
}

// snapshotStatusCmd reports the stored snapshot history of a portfolio.
type snapshotStatusCmd struct {
	portfolio string
}

func (*snapshotStatusCmd) Name() string     { return "snapshot-status" }
func (*snapshotStatusCmd) Synopsis() string { return "display the stored snapshot history" }
func (*snapshotStatusCmd) Usage() string {
	return `ipt snapshot-status -p <portfolio>

  Displays how many snapshots are stored for the portfolio and the latest
  covered day.
`
}

func (c *snapshotStatusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on")
}

func (c *snapshotStatusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.portfolio == "" {
		fmt.Fprintln(os.Stderr, "Error: -p <portfolio> is required")
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	status, err := service.SnapshotStatus(c.portfolio)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SnapshotStatusMarkdown(status))
	return subcommands.ExitSuccess
}

// snapshotDeleteCmd removes every snapshot of one day, e.g. to redo a bad run.
type snapshotDeleteCmd struct {
	date string
}

func (*snapshotDeleteCmd) Name() string     { return "snapshot-delete" }
func (*snapshotDeleteCmd) Synopsis() string { return "delete every snapshot of one day" }
func (*snapshotDeleteCmd) Usage() string {
	return `ipt snapshot-delete -d <date>

  Deletes every snapshot of one day so the day can be snapshotted again.
`
}

func (c *snapshotDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day to delete (YYYY-MM-DD)")
}

func (c *snapshotDeleteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := calendar.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	deleted, err := service.DeleteSnapshots(on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted %d snapshots of %s\n", deleted, on)
	return subcommands.ExitSuccess
}

// snapshotCleanupCmd drops snapshots older than the retention.
type snapshotCleanupCmd struct {
	retentionDays int
}

func (*snapshotCleanupCmd) Name() string     { return "snapshot-cleanup" }
func (*snapshotCleanupCmd) Synopsis() string { return "drop snapshots older than the retention" }
func (*snapshotCleanupCmd) Usage() string {
	return `ipt snapshot-cleanup [-retention <days>]

  Drops snapshots older than the retention, counting back from today.
`
}

func (c *snapshotCleanupCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.retentionDays, "retention", 0, "Retention in days (default 365)")
}

func (c *snapshotCleanupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := newService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	deleted, err := service.CleanupSnapshots(c.retentionDays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error cleaning up snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Deleted %d snapshots\n", deleted)
	return subcommands.ExitSuccess
}
