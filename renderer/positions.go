package renderer

import (
	"fmt"
	"strings"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
)

// PositionsMarkdown renders the open positions of a portfolio marked to market.
func PositionsMarkdown(portfolio string, valuations []tracker.Valuation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Positions of %s\n\n", portfolio)
	if len(valuations) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Quantity | Avg Cost | Price | Market Value | Unrealized | Inception P&L |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")

	var total, inception tracker.Money
	for _, v := range valuations {
		price := v.Price.String()
		if v.PriceStale {
			price += " (stale)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			v.Symbol,
			v.Quantity,
			v.AvgCost,
			price,
			v.MarketValue,
			v.Unrealized.SignedString(),
			v.Inception.SignedString(),
		)
		total = total.Add(v.MarketValue)
		inception = inception.Add(v.Inception)
	}
	fmt.Fprintf(&b, "| **Total** | | | | **%s** | | **%s** |\n", total, inception.SignedString())
	return b.String()
}

// WeightingsMarkdown renders each position's share of the portfolio. Positions
// above the concentration threshold are flagged.
func WeightingsMarkdown(portfolio string, weightings []tracker.Weighting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Weightings of %s\n\n", portfolio)
	if len(weightings) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Market Value | Weight | |")
	fmt.Fprintln(&b, "|:---|---:|---:|:---|")
	for _, w := range weightings {
		flag := ""
		if w.Concentrated {
			flag = "concentrated"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", w.Symbol, w.MarketValue, w.Weight, flag)
	}
	return b.String()
}
