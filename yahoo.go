package tracker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

/*
	{
	    "quoteResponse": {
	        "result": [
	            {
	                "symbol": "AAPL",
	                "regularMarketPrice": 232.14,
	                "regularMarketPreviousClose": 230.49,
	                "regularMarketVolume": 39418437,
	                "preMarketPrice": 233.05,
	                "postMarketPrice": 231.90
	            }
	        ],
	        "error": null
	    }
	}
*/

// yahoo is the free quote tier. One request serves the whole batch.
type yahoo struct {
	client *http.Client
}

// NewYahoo returns the free-tier quote provider.
func NewYahoo() QuoteProvider {
	return &yahoo{client: new(http.Client)}
}

func (p *yahoo) Name() string { return "yahoo" }

func (p *yahoo) Quotes(ctx context.Context, symbols []string) (map[string]*Quote, error) {
	addr := "https://query1.finance.yahoo.com/v7/finance/quote?symbols=" +
		url.QueryEscape(strings.Join(symbols, ","))

	var jobj any
	if err := jwget(ctx, p.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error in wget %q: %w", "yahoo quotes", err)
	}
	jval, err := jsonpath.Get("$.quoteResponse.result", jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing yahoo quotes: %w", err)
	}
	rows, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing yahoo quotes: result is not a list")
	}

	result := make(map[string]*Quote, len(symbols))
	for _, row := range rows {
		fields, ok := row.(map[string]any)
		if !ok {
			continue
		}
		symbol, _ := fields["symbol"].(string)
		if symbol == "" {
			continue
		}
		price, session := bestSession(fields)
		if price == 0 {
			continue
		}
		prevClose, _ := fields["regularMarketPreviousClose"].(float64)
		volume, _ := fields["regularMarketVolume"].(float64)
		result[symbol] = &Quote{
			Symbol:    symbol,
			Price:     M(price, "USD"),
			PrevClose: M(prevClose, "USD"),
			Volume:    int64(volume),
			Session:   session,
			Provider:  p.Name(),
		}
	}
	return result, nil
}

// bestSession picks the most current price the response carries:
// the pre-market price beats the post-market one, which beats the close of
// the regular session.
func bestSession(fields map[string]any) (float64, Session) {
	if price, ok := fields["preMarketPrice"].(float64); ok && price > 0 {
		return price, SessionPre
	}
	if price, ok := fields["postMarketPrice"].(float64); ok && price > 0 {
		return price, SessionPost
	}
	price, _ := fields["regularMarketPrice"].(float64)
	return price, SessionRegular
}
