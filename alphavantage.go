package tracker

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

const alphavantage_api_key = "ALPHAVANTAGE_API_KEY"

var alphavantageApiFlag = flag.String("alphavantage-api-key", "", "Alpha Vantage API key, the paid quote tier.\n If missing it will read the environment variable \""+alphavantage_api_key+"\". You can get one at https://www.alphavantage.co/")

// AlphaVantageKey returns the configured Alpha Vantage API key, "" when the
// paid tier is not configured.
func AlphaVantageKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *alphavantageApiFlag == "" {
		*alphavantageApiFlag = os.Getenv(alphavantage_api_key)
	}
	return *alphavantageApiFlag
}

// alphaVantage is the paid quote tier. The endpoint serves one symbol per
// request, so a batch costs one call per symbol.
type alphaVantage struct {
	apiKey string
	client *http.Client
}

// NewAlphaVantage returns the paid-tier quote provider.
func NewAlphaVantage(apiKey string) QuoteProvider {
	return &alphaVantage{apiKey: apiKey, client: new(http.Client)}
}

func (p *alphaVantage) Name() string { return "alphavantage" }

func (p *alphaVantage) Quotes(ctx context.Context, symbols []string) (map[string]*Quote, error) {
	// https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=IBM&apikey=demo
	// {
	//   "Global Quote": {
	//     "01. symbol": "IBM",
	//     "05. price": "239.1100",
	//     "06. volume": "4084091",
	//     "08. previous close": "241.2200"
	//   }
	// }
	type payload struct {
		Quote struct {
			Symbol    string `json:"01. symbol"`
			Price     string `json:"05. price"`
			Volume    string `json:"06. volume"`
			PrevClose string `json:"08. previous close"`
		} `json:"Global Quote"`
	}

	result := make(map[string]*Quote, len(symbols))
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		addr := fmt.Sprintf("https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
			url.QueryEscape(symbol), p.apiKey)
		var content payload
		if err := jwget(ctx, p.client, addr, &content); err != nil {
			log.Printf("alphavantage %s: %v", symbol, err)
			continue
		}
		price, err := strconv.ParseFloat(content.Quote.Price, 64)
		if err != nil || price == 0 {
			// The API answers an empty object for unknown symbols.
			continue
		}
		prevClose, _ := strconv.ParseFloat(content.Quote.PrevClose, 64)
		volume, _ := strconv.ParseInt(content.Quote.Volume, 10, 64)
		result[symbol] = &Quote{
			Symbol:    symbol,
			Price:     M(price, "USD"),
			PrevClose: M(prevClose, "USD"),
			Volume:    volume,
			Session:   SessionRegular,
			Provider:  p.Name(),
		}
	}
	return result, nil
}

// DailyCloses fetches the adjusted daily close history of a symbol between
// from and to. Responses are stable for a day so they go through the disk
// cached client.
func (p *alphaVantage) DailyCloses(ctx context.Context, symbol string, from, to calendar.Date) (calendar.History[float64], error) {
	// https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=IBM&apikey=demo
	// {
	//   "Time Series (Daily)": {
	//     "2025-08-29": { "4. close": "239.1100" },
	//     ...
	var closes calendar.History[float64]
	type day struct {
		Close string `json:"4. close"`
	}
	var content struct {
		Series map[string]day `json:"Time Series (Daily)"`
	}
	addr := fmt.Sprintf("https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=full&apikey=%s",
		url.QueryEscape(symbol), p.apiKey)
	if err := jwget(ctx, daily(), addr, &content); err != nil {
		return closes, err
	}
	for key, d := range content.Series {
		on, err := calendar.Parse(key)
		if err != nil {
			return closes, fmt.Errorf("alphavantage daily %s: %w", symbol, err)
		}
		if on.Before(from) || on.After(to) {
			continue
		}
		close, err := strconv.ParseFloat(d.Close, 64)
		if err != nil {
			return closes, fmt.Errorf("alphavantage daily %s on %s: %w", symbol, on, err)
		}
		closes.Append(on, close)
	}
	return closes, nil
}
