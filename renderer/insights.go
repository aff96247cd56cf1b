package renderer

import (
	"fmt"
	"strings"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
)

// CorrelationsMarkdown renders the pairwise stock correlations of a
// portfolio, strongest co-movement first.
func CorrelationsMarkdown(report *tracker.CorrelationReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Correlations of %s\n\n", report.Portfolio)
	if report.Stocks < 2 {
		fmt.Fprintln(&b, "At least two stock positions are needed to correlate.")
		return b.String()
	}

	fmt.Fprintf(&b, "%d stocks over the last %d days.\n\n", report.Stocks, report.Lookback)
	fmt.Fprintln(&b, "| Pair | Correlation | | Days | Combined Weight |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|")
	for _, pair := range report.Pairs {
		fmt.Fprintf(&b, "| %s / %s | %.3f | %s | %d | %s |\n",
			pair.Symbol1, pair.Symbol2, pair.Score, pair.Strength, pair.Days, pair.CombinedWeight)
	}
	fmt.Fprintf(&b, "\n- Average correlation: %.3f\n", report.AverageCorrelation)
	fmt.Fprintf(&b, "- Diversification: %.1f of 100\n", report.Diversification)
	return b.String()
}

// InsightsMarkdown renders the portfolio's risk assessment, observations and
// recommendations.
func InsightsMarkdown(report *tracker.InsightsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Insights on %s\n\n", report.Portfolio)

	fmt.Fprintf(&b, "- Total value: %s\n", report.TotalValue)
	fmt.Fprintf(&b, "- Stock positions: %d, top 5 weigh %s\n", report.Positions, report.Top5Weight)
	if report.CashWeight > 0 {
		fmt.Fprintf(&b, "- Cash: %s (%s)\n", report.CashValue, report.CashWeight)
	}
	fmt.Fprintf(&b, "- Diversification: %.1f of 100\n", report.Diversification)
	fmt.Fprintf(&b, "- Risk: **%s** (%d of 100)", report.RiskLevel, report.RiskScore)
	if len(report.RiskFactors) > 0 {
		fmt.Fprintf(&b, ", driven by %s", strings.Join(report.RiskFactors, ", "))
	}
	fmt.Fprintln(&b)

	if len(report.Insights) > 0 {
		fmt.Fprintln(&b, "\n## Observations")
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "| | Category | Observation |")
		fmt.Fprintln(&b, "|:---|:---|:---|")
		for _, insight := range report.Insights {
			fmt.Fprintf(&b, "| %s | %s | **%s** %s |\n",
				insight.Severity, insight.Category, insight.Title, insight.Message)
		}
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(&b, "\n## Recommendations")
		fmt.Fprintln(&b)
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", rec.Action, rec.Priority, rec.Description)
		}
	}
	return b.String()
}
