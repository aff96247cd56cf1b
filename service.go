package tracker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// ConcentrationThreshold flags positions that dominate the portfolio.
const ConcentrationThreshold Percent = 25

// Service wires the trade source, the price oracle, the snapshot store and
// the trading calendar into the operations the CLI exposes. All collaborators
// are injected so tests can swap any of them.
type Service struct {
	source    TradeSource
	oracle    *PriceOracle
	store     *SnapshotStore
	prices    *PriceDB
	cal       *calendar.Calendar
	scheduler *TaskScheduler
	engine    *AttributionEngine
	today     func() calendar.Date // injectable for tests
}

// NewService assembles a service. The snapshot task runner is registered on a
// fresh scheduler so a scheduled snapshot goes through the exact same path as
// a manual one.
func NewService(source TradeSource, oracle *PriceOracle, store *SnapshotStore, prices *PriceDB, cal *calendar.Calendar) *Service {
	s := &Service{
		source:    source,
		oracle:    oracle,
		store:     store,
		prices:    prices,
		cal:       cal,
		scheduler: NewTaskScheduler(),
		engine:    NewAttributionEngine(store, cal),
		today:     calendar.Today,
	}
	s.scheduler.Handle(TaskSnapshot, func(ctx context.Context, task ScheduledTask) error {
		_, err := s.CreateSnapshots(ctx, task.Portfolio, s.today())
		return err
	})
	return s
}

// ledger loads and validates the portfolio's trade log.
func (s *Service) ledger(portfolio string) (*Ledger, error) {
	trades, err := s.source.Trades(portfolio)
	if err != nil {
		return nil, err
	}
	return NewLedger(portfolio, trades)
}

// Positions returns the open positions of a portfolio marked to market.
// With refresh set the quote cache is bypassed and every price comes from a
// single fetch round. Valuations are computed per symbol in parallel; the
// ledger is immutable so this is safe.
func (s *Service) Positions(ctx context.Context, portfolio string, refresh bool) ([]Valuation, error) {
	ledger, err := s.ledger(portfolio)
	if err != nil {
		return nil, err
	}
	positions, err := ledger.Positions()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, nil
	}

	symbols := make([]string, len(positions))
	for i, p := range positions {
		symbols[i] = p.Symbol
	}
	quotes, err := s.oracle.Batch(ctx, symbols, refresh)
	if err != nil {
		return nil, err
	}

	valuations := make([]Valuation, len(positions))
	var wg sync.WaitGroup
	for i, p := range positions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			valuations[i] = p.MarkToMarket(quotes[p.Symbol])
		}()
	}
	wg.Wait()
	return valuations, nil
}

// CreateSnapshots freezes the portfolio's open positions as snapshots of one
// day and returns how many were inserted. An empty portfolio name snapshots
// every portfolio of the trade source. Re-running the same day returns 0.
//
// Today's snapshots are priced by a forced quote round so all rows come from
// one consistent fetch. Backdated snapshots replay the trade log up to the
// day and price it from the historical close database; symbols without a
// close in reach fall back to their average cost.
func (s *Service) CreateSnapshots(ctx context.Context, portfolio string, on calendar.Date) (int, error) {
	today := s.today()
	if on.After(today) {
		return 0, fmt.Errorf("%w: cannot snapshot the future day %s", ErrValidation, on)
	}
	if portfolio != "" {
		return s.snapshotPortfolio(ctx, portfolio, on)
	}
	portfolios, err := s.source.Portfolios()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, name := range portfolios {
		inserted, err := s.snapshotPortfolio(ctx, name, on)
		if err != nil {
			return total, err
		}
		total += inserted
	}
	return total, nil
}

func (s *Service) snapshotPortfolio(ctx context.Context, portfolio string, on calendar.Date) (int, error) {
	var valuations []Valuation
	var err error
	if on == s.today() {
		valuations, err = s.Positions(ctx, portfolio, true)
	} else {
		valuations, err = s.historicalPositions(portfolio, on)
	}
	if err != nil {
		return 0, err
	}

	inserted, err := s.store.Write(on, valuations)
	if err != nil {
		return inserted, err
	}
	log.Printf("snapshots %s on %s: %d inserted, %d already present", portfolio, on, inserted, len(valuations)-inserted)
	return inserted, nil
}

// historicalPositions rebuilds the positions held at the end of a past day
// and prices them from the close database.
func (s *Service) historicalPositions(portfolio string, on calendar.Date) ([]Valuation, error) {
	ledger, err := s.ledger(portfolio)
	if err != nil {
		return nil, err
	}
	positions, err := ledger.AsOf(on).Positions()
	if err != nil {
		return nil, err
	}
	var valuations []Valuation
	for _, p := range positions {
		var quote *Quote
		if close, day, ok := s.prices.Close(p.Symbol, on); ok {
			quote = &Quote{
				Symbol:  p.Symbol,
				Price:   M(close, p.AvgCost.Currency()),
				Session: SessionRegular,
				At:      time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			}
		}
		valuations = append(valuations, p.MarkToMarket(quote))
	}
	return valuations, nil
}

// Attribution explains the portfolio's current profit over the day, month and
// year horizons against its snapshot history. A non-empty symbol narrows the
// report to that one position.
func (s *Service) Attribution(ctx context.Context, portfolio, symbol string) (*AttributionReport, error) {
	valuations, err := s.Positions(ctx, portfolio, false)
	if err != nil {
		return nil, err
	}
	if symbol != "" {
		var kept []Valuation
		for _, v := range valuations {
			if v.Symbol == symbol {
				kept = append(kept, v)
			}
		}
		valuations = kept
	}
	report, err := s.engine.Report(s.today(), valuations)
	if err != nil {
		return nil, err
	}
	report.Portfolio = portfolio
	return report, nil
}

// Weighting is one position's share of the portfolio's market value.
type Weighting struct {
	Symbol       string
	MarketValue  Money
	Weight       Percent
	Concentrated bool // above ConcentrationThreshold
}

// Weightings computes each open position's share of the portfolio.
func (s *Service) Weightings(ctx context.Context, portfolio string) ([]Weighting, error) {
	valuations, err := s.Positions(ctx, portfolio, false)
	if err != nil {
		return nil, err
	}
	var total Money
	for _, v := range valuations {
		total = total.Add(v.MarketValue)
	}
	var weightings []Weighting
	for _, v := range valuations {
		w := Weighting{Symbol: v.Symbol, MarketValue: v.MarketValue}
		if total.IsPositive() {
			w.Weight = Percent(100 * v.MarketValue.AsFloat() / total.AsFloat())
			w.Concentrated = w.Weight > ConcentrationThreshold
		}
		weightings = append(weightings, w)
	}
	return weightings, nil
}

// SnapshotStatus reports the stored snapshot history of a portfolio.
func (s *Service) SnapshotStatus(portfolio string) (Status, error) {
	return s.store.Status(portfolio)
}

// DeleteSnapshots removes every snapshot of one day.
func (s *Service) DeleteSnapshots(on calendar.Date) (int, error) {
	return s.store.DeleteDay(on)
}

// CleanupSnapshots drops snapshots older than the retention in days.
func (s *Service) CleanupSnapshots(retentionDays int) (int, error) {
	return s.store.Cleanup(retentionDays)
}

// Portfolios lists the portfolios of the trade source.
func (s *Service) Portfolios() ([]string, error) {
	return s.source.Portfolios()
}

// ScheduleSnapshot records a pending snapshot task due after the delay. An
// empty portfolio name means every portfolio of the trade source. Nothing
// runs until RunTask or RunDueTasks is called.
func (s *Service) ScheduleSnapshot(portfolio string, delay time.Duration) (ScheduledTask, error) {
	return s.scheduler.Schedule(TaskSnapshot, portfolio, delay)
}

// RunTask executes one pending task by ID.
func (s *Service) RunTask(ctx context.Context, id string) (ScheduledTask, error) {
	return s.scheduler.Run(ctx, id)
}

// RunDueTasks executes every pending task whose time has come.
func (s *Service) RunDueTasks(ctx context.Context) ([]ScheduledTask, error) {
	return s.scheduler.RunAllPending(ctx)
}

// Tasks lists all known tasks, oldest first.
func (s *Service) Tasks() []ScheduledTask {
	return s.scheduler.List()
}

// ClearCompletedTasks drops finished tasks and returns how many.
func (s *Service) ClearCompletedTasks() int {
	return s.scheduler.ClearCompleted()
}
