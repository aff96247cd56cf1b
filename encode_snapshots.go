package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// The snapshot history is persisted as JSONL, one snapshot per line, in a
// single file. Inserts append a line, deletes compact the file in place.
// The format stays human-readable and diff-friendly.

// jsnapshot is a specialized struct for decoding one snapshot line.
type jsnapshot struct {
	Portfolio   string        `json:"portfolio"`
	Symbol      string        `json:"symbol"`
	Date        calendar.Date `json:"date"`
	Quantity    Quantity      `json:"quantity"`
	AvgCost     jmoney        `json:"avgCost"`
	Price       jmoney        `json:"price"`
	MarketValue jmoney        `json:"marketValue"`
	Inception   jmoney        `json:"inceptionPL"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (j jsnapshot) snapshot() DailySnapshot {
	return DailySnapshot{
		Portfolio:   j.Portfolio,
		Symbol:      j.Symbol,
		Date:        j.Date,
		Quantity:    j.Quantity,
		AvgCost:     j.AvgCost.Money(),
		Price:       j.Price.Money(),
		MarketValue: j.MarketValue.Money(),
		Inception:   j.Inception.Money(),
		CreatedAt:   j.CreatedAt,
	}
}

// decodeSnapshots reads all snapshot lines from r.
func decodeSnapshots(r io.Reader) ([]DailySnapshot, error) {
	var snaps []DailySnapshot
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var js jsnapshot
		if err := json.Unmarshal(line, &js); err != nil {
			return nil, fmt.Errorf("could not decode snapshot on line %d: %w", i, err)
		}
		snaps = append(snaps, js.snapshot())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading snapshots: %w", err)
	}
	return snaps, nil
}

// encodeSnapshot writes one snapshot line.
func encodeSnapshot(w io.Writer, s DailySnapshot) error {
	var jw jsonObjectWriter
	jw.Append("portfolio", s.Portfolio)
	jw.Append("symbol", s.Symbol)
	jw.Append("date", s.Date)
	jw.Append("quantity", s.Quantity)
	jw.Append("avgCost", s.AvgCost)
	jw.Append("price", s.Price)
	jw.Append("marketValue", s.MarketValue)
	jw.Append("inceptionPL", s.Inception)
	jw.Append("createdAt", s.CreatedAt)
	line, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// fileRepository is the durable SnapshotRepository: a JSONL file loaded into
// an in-memory index at open. The index answers all reads; writes go to both.
type fileRepository struct {
	mu   sync.Mutex
	path string
	mem  SnapshotRepository
}

// OpenFileRepository loads (or creates) a JSONL snapshot file.
func OpenFileRepository(path string) (SnapshotRepository, error) {
	repo := &fileRepository{path: path, mem: NewMemoryRepository()}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil // first run, the insert will create it
		}
		return nil, fmt.Errorf("cannot open snapshot file %q: %w", path, err)
	}
	defer f.Close()
	snaps, err := decodeSnapshots(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode snapshot file %q: %w", path, err)
	}
	for _, s := range snaps {
		if _, err := repo.mem.InsertIfAbsent(s); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

func (r *fileRepository) InsertIfAbsent(snap DailySnapshot) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inserted, err := r.mem.InsertIfAbsent(snap)
	if err != nil || !inserted {
		return inserted, err
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fs.FileMode(0644))
	if err != nil {
		return false, fmt.Errorf("cannot open snapshot file %q for append: %w", r.path, err)
	}
	defer f.Close()
	if err := encodeSnapshot(f, snap); err != nil {
		return false, err
	}
	return true, nil
}

func (r *fileRepository) Get(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error) {
	return r.mem.Get(portfolio, symbol, on)
}

func (r *fileRepository) LastOnOrBefore(portfolio, symbol string, on calendar.Date) (DailySnapshot, bool, error) {
	return r.mem.LastOnOrBefore(portfolio, symbol, on)
}

func (r *fileRepository) ByPortfolio(portfolio string) ([]DailySnapshot, error) {
	return r.mem.ByPortfolio(portfolio)
}

func (r *fileRepository) DeleteByDate(on calendar.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted, err := r.mem.DeleteByDate(on)
	if err != nil || deleted == 0 {
		return deleted, err
	}
	return deleted, r.compact()
}

func (r *fileRepository) DeleteBefore(cutoff calendar.Date) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted, err := r.mem.DeleteBefore(cutoff)
	if err != nil || deleted == 0 {
		return deleted, err
	}
	return deleted, r.compact()
}

// compact rewrites the whole file from the in-memory index. Writes go to a
// temporary file first so a crash cannot leave a truncated history.
func (r *fileRepository) compact() error {
	tmp := r.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot compact snapshot file %q: %w", r.path, err)
	}
	// the memory index only groups per portfolio, walk them all
	mem := r.mem.(*memoryRepository)
	mem.mu.Lock()
	portfolios := make(map[string]bool)
	for key := range mem.snaps {
		portfolios[key.portfolio] = true
	}
	mem.mu.Unlock()
	for portfolio := range portfolios {
		snaps, err := r.mem.ByPortfolio(portfolio)
		if err != nil {
			f.Close()
			return err
		}
		for _, s := range snaps {
			if err := encodeSnapshot(f, s); err != nil {
				f.Close()
				return err
			}
		}
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
