package tracker

import (
	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// SummarySymbol tags the aggregated row of an attribution report.
const SummarySymbol = "PORTFOLIO_SUMMARY"

// AttributionRow explains one symbol's profit over the standard horizons.
// Each horizon delta is the current inception P&L minus the inception P&L
// frozen in the baseline snapshot of that horizon's reference day.
type AttributionRow struct {
	Portfolio string
	Symbol    string
	Inception Money // inception P&L as of the report

	DTD Money // since the previous trading day
	MTD Money // since the last trading day of the previous month
	YTD Money // since the last trading day of the previous year

	// The snapshot days the deltas were measured against. A zero date means
	// no snapshot existed on or before the reference day, so the delta was
	// taken against a zero baseline and spans the whole position history.
	DTDBaseline calendar.Date
	MTDBaseline calendar.Date
	YTDBaseline calendar.Date

	Summary bool
}

// AttributionReport is the per-symbol attribution of a portfolio plus its
// aggregated summary row.
type AttributionReport struct {
	Portfolio string
	Date      calendar.Date

	// Reference days resolved by the trading calendar.
	DTDRef calendar.Date
	MTDRef calendar.Date
	YTDRef calendar.Date

	Rows    []AttributionRow
	Summary AttributionRow
}

// AttributionEngine measures profit over time by diffing current valuations
// against the frozen snapshot history.
type AttributionEngine struct {
	store *SnapshotStore
	cal   *calendar.Calendar
}

// NewAttributionEngine returns an engine over the given snapshot history and
// trading calendar.
func NewAttributionEngine(store *SnapshotStore, cal *calendar.Calendar) *AttributionEngine {
	return &AttributionEngine{store: store, cal: cal}
}

// Report attributes the portfolio's current valuations over the day, month
// and year horizons anchored at 'on'.
func (e *AttributionEngine) Report(on calendar.Date, valuations []Valuation) (*AttributionReport, error) {
	report := &AttributionReport{
		Date:   on,
		DTDRef: e.cal.PreviousTradingDay(on),
		MTDRef: e.cal.PreviousMonthEndTradingDay(on),
		YTDRef: e.cal.PreviousYearEndTradingDay(on),
	}

	for _, v := range valuations {
		report.Portfolio = v.Portfolio
		row := AttributionRow{
			Portfolio: v.Portfolio,
			Symbol:    v.Symbol,
			Inception: v.Inception,
		}
		var err error
		if row.DTD, row.DTDBaseline, err = e.delta(v, report.DTDRef); err != nil {
			return nil, err
		}
		if row.MTD, row.MTDBaseline, err = e.delta(v, report.MTDRef); err != nil {
			return nil, err
		}
		if row.YTD, row.YTDBaseline, err = e.delta(v, report.YTDRef); err != nil {
			return nil, err
		}
		report.Rows = append(report.Rows, row)
	}

	report.Summary = AttributionRow{
		Portfolio: report.Portfolio,
		Symbol:    SummarySymbol,
		Summary:   true,
	}
	for _, row := range report.Rows {
		report.Summary.Inception = report.Summary.Inception.Add(row.Inception)
		report.Summary.DTD = report.Summary.DTD.Add(row.DTD)
		report.Summary.MTD = report.Summary.MTD.Add(row.MTD)
		report.Summary.YTD = report.Summary.YTD.Add(row.YTD)
	}
	return report, nil
}

// delta measures the valuation against the snapshot baseline of a reference
// day. Without any baseline the whole inception P&L is attributed to the
// horizon and the zero baseline date flags it.
func (e *AttributionEngine) delta(v Valuation, ref calendar.Date) (Money, calendar.Date, error) {
	baseline, ok, err := e.store.Baseline(v.Portfolio, v.Symbol, ref)
	if err != nil {
		return Money{}, calendar.Date{}, err
	}
	if !ok {
		return v.Inception, calendar.Date{}, nil
	}
	return v.Inception.Sub(baseline.Inception), baseline.Date, nil
}
