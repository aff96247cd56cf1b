package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// DefaultRetentionDays is how long daily snapshots are kept by Cleanup.
const DefaultRetentionDays = 365

// DailySnapshot freezes one position of one portfolio at the end of a day.
// A snapshot is keyed (portfolio, symbol, date) and write-once: the first
// write of a day wins and later writes of the same key are no-ops, so a
// re-run job can never corrupt history.
type DailySnapshot struct {
	Portfolio   string        `json:"portfolio"`
	Symbol      string        `json:"symbol"`
	Date        calendar.Date `json:"date"`
	Quantity    Quantity      `json:"quantity"`
	AvgCost     Money         `json:"avgCost"`
	Price       Money         `json:"price"`
	MarketValue Money         `json:"marketValue"`
	Inception   Money         `json:"inceptionPL"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// SnapshotRepository is the document-store boundary snapshots live behind.
// Implementations must make InsertIfAbsent atomic per key.
type SnapshotRepository interface {
	// InsertIfAbsent stores the snapshot unless its key already exists.
	// It reports whether the snapshot was actually inserted.
	InsertIfAbsent(snap DailySnapshot) (bool, error)
	// Get returns the snapshot at the exact key.
	Get(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error)
	// LastOnOrBefore returns the most recent snapshot of the symbol dated on
	// or before the given day.
	LastOnOrBefore(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error)
	// ByPortfolio returns all snapshots of a portfolio, ordered by date then symbol.
	ByPortfolio(portfolio string) ([]DailySnapshot, error)
	// DeleteByDate removes all snapshots of one day and returns how many.
	DeleteByDate(on calendar.Date) (int, error)
	// DeleteBefore removes all snapshots dated strictly before cutoff.
	DeleteBefore(cutoff calendar.Date) (int, error)
}

type snapshotKey struct {
	portfolio string
	symbol    string
	on        calendar.Date
}

// memoryRepository is the default repository, a mutex-guarded map.
// It is complete enough for tests and single-run CLI use; the file-backed
// repository in encode_snapshots.go is the durable one.
type memoryRepository struct {
	mu    sync.Mutex
	snaps map[snapshotKey]DailySnapshot
}

// NewMemoryRepository returns an empty in-memory snapshot repository.
func NewMemoryRepository() SnapshotRepository {
	return &memoryRepository{snaps: make(map[snapshotKey]DailySnapshot)}
}

func (r *memoryRepository) key(s DailySnapshot) snapshotKey {
	return snapshotKey{portfolio: s.Portfolio, symbol: s.Symbol, on: s.Date}
}

func (r *memoryRepository) InsertIfAbsent(snap DailySnapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.key(snap)
	if _, exists := r.snaps[key]; exists {
		return false, nil
	}
	r.snaps[key] = snap
	return true, nil
}

func (r *memoryRepository) Get(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap, ok := r.snaps[snapshotKey{portfolio: portfolio, symbol: symbol, on: on}]
	return snap, ok, nil
}

func (r *memoryRepository) LastOnOrBefore(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best DailySnapshot
	found := false
	for key, snap := range r.snaps {
		if key.portfolio != portfolio || key.symbol != symbol || key.on.After(on) {
			continue
		}
		if !found || best.Date.Before(key.on) {
			best, found = snap, true
		}
	}
	return best, found, nil
}

func (r *memoryRepository) ByPortfolio(portfolio string) ([]DailySnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var snaps []DailySnapshot
	for key, snap := range r.snaps {
		if key.portfolio == portfolio {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].Date != snaps[j].Date {
			return snaps[i].Date.Before(snaps[j].Date)
		}
		return snaps[i].Symbol < snaps[j].Symbol
	})
	return snaps, nil
}

func (r *memoryRepository) DeleteByDate(on calendar.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for key := range r.snaps {
		if key.on == on {
			delete(r.snaps, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *memoryRepository) DeleteBefore(cutoff calendar.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for key := range r.snaps {
		if key.on.Before(cutoff) {
			delete(r.snaps, key)
			deleted++
		}
	}
	return deleted, nil
}

// SnapshotStore runs the snapshot operations on top of a repository.
type SnapshotStore struct {
	repo SnapshotRepository
	now  func() time.Time // injectable for tests
}

// NewSnapshotStore returns a store over the given repository.
func NewSnapshotStore(repo SnapshotRepository) *SnapshotStore {
	return &SnapshotStore{repo: repo, now: time.Now}
}

// Write freezes the given valuations as snapshots of one day and returns how
// many were actually inserted. Keys already present are skipped silently,
// which makes the whole operation idempotent: a second Write of the same day
// returns 0.
func (s *SnapshotStore) Write(on calendar.Date, valuations []Valuation) (int, error) {
	createdAt := s.now()
	inserted := 0
	for _, v := range valuations {
		snap := DailySnapshot{
			Portfolio:   v.Portfolio,
			Symbol:      v.Symbol,
			Date:        on,
			Quantity:    v.Quantity,
			AvgCost:     v.AvgCost,
			Price:       v.Price,
			MarketValue: v.MarketValue,
			Inception:   v.Inception,
			CreatedAt:   createdAt,
		}
		ok, err := s.repo.InsertIfAbsent(snap)
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}

// Baseline returns the snapshot of the symbol at the reference day, falling
// back to the most recent one before it. The zero result with false means no
// history at all, which attribution treats as a zero baseline.
func (s *SnapshotStore) Baseline(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error) {
	if snap, ok, err := s.repo.Get(portfolio, symbol, on); err != nil || ok {
		return snap, ok, err
	}
	return s.repo.LastOnOrBefore(portfolio, symbol, on)
}

// DeleteDay removes every snapshot of one day, e.g. to redo a bad run.
func (s *SnapshotStore) DeleteDay(on calendar.Date) (int, error) {
	return s.repo.DeleteByDate(on)
}

// Cleanup removes snapshots older than the retention, in days, counting back
// from today. A non-positive retention means DefaultRetentionDays.
func (s *SnapshotStore) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := calendar.FromTime(s.now()).Add(-retentionDays)
	return s.repo.DeleteBefore(cutoff)
}

// Status summarizes the stored history of a portfolio.
type Status struct {
	Portfolio string
	Count     int
	Latest    calendar.Date
}

// Status reports the number of stored snapshots and the latest covered day.
func (s *SnapshotStore) Status(portfolio string) (Status, error) {
	snaps, err := s.repo.ByPortfolio(portfolio)
	if err != nil {
		return Status{}, err
	}
	st := Status{Portfolio: portfolio, Count: len(snaps)}
	if len(snaps) > 0 {
		st.Latest = snaps[len(snaps)-1].Date
	}
	return st, nil
}
