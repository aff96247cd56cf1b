package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// Session tells which market session a quote was taken from.
type Session string

const (
	SessionRegular   Session = "regular"
	SessionPre       Session = "pre"
	SessionPost      Session = "post"
	SessionSynthetic Session = "synthetic" // cash rows and expired options
)

// Quote is one observed price for a symbol.
type Quote struct {
	Symbol    string
	Price     Money
	PrevClose Money
	Volume    int64
	Session   Session
	Provider  string
	At        time.Time // time of the fetch round that produced it
}

// QuoteProvider fetches live quotes for a batch of symbols. A provider may
// return a nil quote, or omit a symbol entirely, when it has no price for it;
// the next provider in line then gets a chance.
type QuoteProvider interface {
	Name() string
	Quotes(ctx context.Context, symbols []string) (map[string]*Quote, error)
}

// DefaultQuoteTTL keeps quotes hot just long enough to absorb bursts of
// lookups during one report without serving stale prices.
const DefaultQuoteTTL = 3 * time.Second

type cachedQuote struct {
	quote     *Quote
	fetchedAt time.Time
}

// PriceOracle serves quotes from a short-lived cache backed by a prioritized
// chain of providers, the paid ones first.
//
// Cash symbols are answered synthetically at 1.0 and expired options at zero;
// neither ever reaches the network.
type PriceOracle struct {
	providers []QuoteProvider
	ttl       time.Duration
	now       func() time.Time // injectable for tests

	mu    sync.Mutex
	cache map[string]cachedQuote
}

// NewPriceOracle builds an oracle over providers in priority order.
// A zero ttl means DefaultQuoteTTL.
func NewPriceOracle(ttl time.Duration, providers ...QuoteProvider) *PriceOracle {
	if ttl == 0 {
		ttl = DefaultQuoteTTL
	}
	return &PriceOracle{
		providers: providers,
		ttl:       ttl,
		now:       time.Now,
		cache:     make(map[string]cachedQuote),
	}
}

// Quote returns the price of a single symbol, or nil when no provider has
// one. With force set the cached quote is ignored and fetched anew.
func (o *PriceOracle) Quote(ctx context.Context, symbol string, force bool) (*Quote, error) {
	quotes, err := o.Batch(ctx, []string{symbol}, force)
	if err != nil {
		return nil, err
	}
	return quotes[symbol], nil
}

// Batch returns one quote per requested symbol, nil for symbols no provider
// could price. With force set, every returned network quote comes from the
// same fetch round: the cache is bypassed entirely so the result can never
// mix a cached price with a fresh one.
func (o *PriceOracle) Batch(ctx context.Context, symbols []string, force bool) (map[string]*Quote, error) {
	result := make(map[string]*Quote, len(symbols))
	var fetchable []string

	round := o.now()
	for _, symbol := range symbols {
		if q := syntheticQuote(symbol, calendar.FromTime(round), round); q != nil {
			result[symbol] = q
			continue
		}
		fetchable = append(fetchable, symbol)
	}

	var misses []string
	if force {
		misses = fetchable
	} else {
		o.mu.Lock()
		for _, symbol := range fetchable {
			if entry, ok := o.cache[symbol]; ok && round.Sub(entry.fetchedAt) < o.ttl {
				result[symbol] = entry.quote
				continue
			}
			misses = append(misses, symbol)
		}
		o.mu.Unlock()
	}

	if len(misses) == 0 {
		return result, nil
	}

	fetched, err := o.fetchRound(ctx, misses, round)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	for symbol, q := range fetched {
		result[symbol] = q
		if q != nil {
			o.cache[symbol] = cachedQuote{quote: q, fetchedAt: round}
		}
	}
	o.mu.Unlock()
	for _, symbol := range misses {
		if _, ok := result[symbol]; !ok {
			result[symbol] = nil
		}
	}
	return result, nil
}

// fetchRound walks the provider chain once. Every quote is stamped with the
// round time so callers can tell quotes of the same round apart from replays.
func (o *PriceOracle) fetchRound(ctx context.Context, symbols []string, round time.Time) (map[string]*Quote, error) {
	result := make(map[string]*Quote, len(symbols))
	pending := symbols
	for _, provider := range o.providers {
		if len(pending) == 0 {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		quotes, err := provider.Quotes(ctx, pending)
		if err != nil {
			// A failing provider costs its symbols nothing, the next one tries.
			log.Printf("provider %s failed for %d symbols: %v", provider.Name(), len(pending), err)
			continue
		}
		var remaining []string
		for _, symbol := range pending {
			q := quotes[symbol]
			if q == nil {
				remaining = append(remaining, symbol)
				continue
			}
			q.At = round
			result[symbol] = q
		}
		pending = remaining
	}
	return result, nil
}

// syntheticQuote answers the symbols that never reach a provider: cash is
// always worth 1.0 of its currency and an expired option is worth nothing.
func syntheticQuote(symbol string, today calendar.Date, at time.Time) *Quote {
	if IsCashSymbol(symbol) {
		currency := symbol[len(cashPrefix):]
		return &Quote{
			Symbol:    symbol,
			Price:     M(1, currency),
			PrevClose: M(1, currency),
			Session:   SessionSynthetic,
			At:        at,
		}
	}
	if IsOptionSymbol(symbol) {
		option, err := ParseOptionSymbol(symbol)
		if err == nil && option.Expired(today) {
			return &Quote{
				Symbol:  symbol,
				Price:   M(0, "USD"),
				Session: SessionSynthetic,
				At:      at,
			}
		}
	}
	return nil
}
