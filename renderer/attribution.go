package renderer

import (
	"fmt"
	"strings"

	tracker "github.com/arumugamkasi77/investment-portfolio-tracker"
	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// AttributionMarkdown renders a P&L attribution report over the day, month and
// year horizons.
func AttributionMarkdown(report *tracker.AttributionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Attribution of %s on %s\n\n", report.Portfolio, report.Date)
	fmt.Fprintf(&b, "References: DTD %s, MTD %s, YTD %s\n\n", report.DTDRef, report.MTDRef, report.YTDRef)

	if len(report.Rows) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Symbol | Inception P&L | DTD | MTD | YTD |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, row := range report.Rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			row.Symbol,
			row.Inception.SignedString(),
			deltaCell(row.DTD, row.DTDBaseline),
			deltaCell(row.MTD, row.MTDBaseline),
			deltaCell(row.YTD, row.YTDBaseline),
		)
	}
	summary := report.Summary
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		summary.Symbol,
		summary.Inception.SignedString(),
		summary.DTD.SignedString(),
		summary.MTD.SignedString(),
		summary.YTD.SignedString(),
	)
	fmt.Fprintln(&b, "\n\\* no snapshot on or before the reference day, the delta spans the whole position history.")
	return b.String()
}

// deltaCell marks deltas measured against a zero baseline, so a reader can
// tell real profit from a horizon that simply has no snapshot history yet.
func deltaCell(delta tracker.Money, baseline calendar.Date) string {
	if baseline.IsZero() {
		return delta.SignedString() + " *"
	}
	return delta.SignedString()
}
