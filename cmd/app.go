// Package cmd implements the CLI application to track a portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&positionsCmd{}, "reports")
	c.Register(&weightsCmd{}, "reports")
	c.Register(&attributionCmd{}, "reports")
	c.Register(&correlationsCmd{}, "reports")
	c.Register(&insightsCmd{}, "reports")
	c.Register(&portfoliosCmd{}, "reports")

	c.Register(&snapshotCmd{}, "snapshots")
	c.Register(&snapshotStatusCmd{}, "snapshots")
	c.Register(&snapshotDeleteCmd{}, "snapshots")
	c.Register(&snapshotCleanupCmd{}, "snapshots")

	c.Register(&scheduleCmd{}, "tasks")
	c.Register(&taskRunCmd{}, "tasks")
	c.Register(&taskListCmd{}, "tasks")
	c.Register(&taskClearCmd{}, "tasks")

	c.Register(&updatePricesCmd{}, "prices")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tradesFile = flag.String("trades-file", "trades.jsonl", "Path to the trade log file (JSONL format)")
var snapshotsFile = flag.String("snapshots-file", "snapshots.jsonl", "Path to the daily snapshots file (JSONL format)")
var pricesFile = flag.String("prices-file", "prices.jsonl", "Path to the historical closes file (JSONL format)")
var holidaysFile = flag.String("holidays-file", "", "Path to the exchange holidays file (JSON). Weekends-only calendar if missing.")

// DecodeCalendar loads the trading calendar from the app holidays file.
func DecodeCalendar() (*calendar.Calendar, error) {
	if *holidaysFile == "" {
		return calendar.NewCalendar(nil), nil
	}
	f, err := os.Open(*holidaysFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open holidays file %q: %w", *holidaysFile, err)
	}
	defer f.Close()
	return calendar.DecodeHolidays(f)
}

// DecodePrices loads the historical close database from the app prices file.
// A missing file is an empty database.
func DecodePrices() (*tracker.PriceDB, error) {
	f, err := os.Open(*pricesFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, prices file does not exist, starting with an empty close database")
		return tracker.NewPriceDB(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open prices file %q: %w", *pricesFile, err)
	}
	defer f.Close()
	return tracker.DecodePriceDB(f)
}

// EncodePrices writes the close database back to the app prices file.
func EncodePrices(db *tracker.PriceDB) error {
	f, err := os.Create(*pricesFile)
	if err != nil {
		return fmt.Errorf("cannot write prices file %q: %w", *pricesFile, err)
	}
	defer f.Close()
	return tracker.EncodePriceDB(f, db)
}

// newOracle assembles the quote provider chain, paid tier first.
func newOracle() *tracker.PriceOracle {
	var providers []tracker.QuoteProvider
	if key := tracker.AlphaVantageKey(); key != "" {
		providers = append(providers, tracker.NewAlphaVantage(key))
	}
	providers = append(providers, tracker.NewYahoo())
	return tracker.NewPriceOracle(tracker.DefaultQuoteTTL, providers...)
}

// newService assembles the service from the app files.
func newService() (*tracker.Service, error) {
	source, err := tracker.OpenFileTradeSource(*tradesFile)
	if err != nil {
		return nil, err
	}
	repo, err := tracker.OpenFileRepository(*snapshotsFile)
	if err != nil {
		return nil, err
	}
	cal, err := DecodeCalendar()
	if err != nil {
		return nil, err
	}
	prices, err := DecodePrices()
	if err != nil {
		return nil, err
	}
	return tracker.NewService(source, newOracle(), tracker.NewSnapshotStore(repo), prices, cal), nil
}
