package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/arumugamkasi77/investment-portfolio-tracker/calendar"
)

// DefaultLookbackDays is the correlation window when the caller does not pick
// one.
const DefaultLookbackDays = 90

// Correlation is the co-movement of one pair of stocks over the lookback
// window, measured on their day-over-day returns from the close database.
type Correlation struct {
	Symbol1 string
	Symbol2 string
	Score   float64 // Pearson coefficient in [-1, 1], 0 when the histories do not overlap
	Days    int     // overlapping return observations behind the score

	Strength       string // Strong, Moderate, Weak or Very Weak
	CombinedWeight Percent
}

// CorrelationReport covers every stock pair of a portfolio, strongest
// co-movement first.
type CorrelationReport struct {
	Portfolio string
	Lookback  int // days
	Stocks    int

	Pairs []Correlation

	// AverageCorrelation is the mean absolute score across pairs;
	// Diversification maps it to a 0..100 scale where higher is better.
	AverageCorrelation float64
	Diversification    float64
}

// Correlations measures how the portfolio's stocks move together over the
// lookback window. Cash rows never correlate with anything and are left out;
// with fewer than two stocks there is nothing to pair.
func (s *Service) Correlations(ctx context.Context, portfolio string, lookbackDays int) (*CorrelationReport, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	weightings, err := s.Weightings(ctx, portfolio)
	if err != nil {
		return nil, err
	}
	var stocks []Weighting
	for _, w := range weightings {
		if !IsCashSymbol(w.Symbol) {
			stocks = append(stocks, w)
		}
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })

	report := &CorrelationReport{
		Portfolio:       portfolio,
		Lookback:        lookbackDays,
		Stocks:          len(stocks),
		Diversification: 100,
	}

	today := s.today()
	from := today.Add(-lookbackDays)
	returns := make(map[string]map[calendar.Date]float64, len(stocks))
	for _, w := range stocks {
		returns[w.Symbol] = s.prices.dailyReturns(w.Symbol, from, today)
	}

	for i, a := range stocks {
		for _, b := range stocks[i+1:] {
			score, days := pearson(returns[a.Symbol], returns[b.Symbol])
			report.Pairs = append(report.Pairs, Correlation{
				Symbol1:        a.Symbol,
				Symbol2:        b.Symbol,
				Score:          score,
				Days:           days,
				Strength:       correlationStrength(score),
				CombinedWeight: a.Weight + b.Weight,
			})
		}
	}
	sort.SliceStable(report.Pairs, func(i, j int) bool {
		return math.Abs(report.Pairs[i].Score) > math.Abs(report.Pairs[j].Score)
	})

	if len(report.Pairs) > 0 {
		sum := 0.0
		for _, pair := range report.Pairs {
			sum += math.Abs(pair.Score)
		}
		report.AverageCorrelation = sum / float64(len(report.Pairs))
		report.Diversification = math.Max(0, 100-report.AverageCorrelation*100)
	}
	return report, nil
}

// dailyReturns extracts the symbol's day-over-day returns inside the window,
// keyed by the day of the later close. The close just before the window seeds
// the first return.
func (db *PriceDB) dailyReturns(symbol string, from, to calendar.Date) map[calendar.Date]float64 {
	h, ok := db.closes[symbol]
	if !ok {
		return nil
	}
	returns := make(map[calendar.Date]float64)
	var prev float64
	for on, close := range h.Values() {
		if on.After(to) {
			break
		}
		if prev != 0 && !on.Before(from) {
			returns[on] = close/prev - 1
		}
		prev = close
	}
	return returns
}

// pearson is the correlation coefficient of the returns both series observed,
// matched by day. Fewer than two common days, or a flat series, score zero.
func pearson(a, b map[calendar.Date]float64) (score float64, days int) {
	var xs, ys []float64
	for on, x := range a {
		if y, ok := b[on]; ok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	n := len(xs)
	if n < 2 {
		return 0, n
	}
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= float64(n)
	meanY /= float64(n)
	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, n
	}
	return cov / math.Sqrt(varX*varY), n
}

func correlationStrength(score float64) string {
	switch abs := math.Abs(score); {
	case abs >= 0.7:
		return "Strong"
	case abs >= 0.4:
		return "Moderate"
	case abs >= 0.2:
		return "Weak"
	default:
		return "Very Weak"
	}
}

// Insight is one observation about the portfolio's composition.
type Insight struct {
	Category string
	Title    string
	Message  string
	Severity string // high, medium or low
}

// Recommendation is one actionable follow-up derived from the insights.
type Recommendation struct {
	Category    string
	Action      string
	Description string
	Priority    string // High or Medium
}

// InsightsReport combines the weighting and correlation views of a portfolio
// into a risk assessment with observations and follow-ups.
type InsightsReport struct {
	Portfolio  string
	TotalValue Money
	CashValue  Money
	Positions  int // stock positions, cash excluded

	Top5Weight Percent
	CashWeight Percent

	AverageCorrelation float64
	Diversification    float64

	RiskScore   int // 0..100, higher is riskier
	RiskLevel   string
	RiskFactors []string

	Insights        []Insight
	Recommendations []Recommendation
}

// Insights assesses the portfolio's concentration, diversification and
// performance and turns the findings into recommendations.
func (s *Service) Insights(ctx context.Context, portfolio string) (*InsightsReport, error) {
	weightings, err := s.Weightings(ctx, portfolio)
	if err != nil {
		return nil, err
	}
	valuations, err := s.Positions(ctx, portfolio, false)
	if err != nil {
		return nil, err
	}
	correlations, err := s.Correlations(ctx, portfolio, DefaultLookbackDays)
	if err != nil {
		return nil, err
	}

	report := &InsightsReport{
		Portfolio:          portfolio,
		AverageCorrelation: correlations.AverageCorrelation,
		Diversification:    correlations.Diversification,
	}

	var stocks []Weighting
	for _, w := range weightings {
		report.TotalValue = report.TotalValue.Add(w.MarketValue)
		if IsCashSymbol(w.Symbol) {
			report.CashValue = report.CashValue.Add(w.MarketValue)
			report.CashWeight += w.Weight
			continue
		}
		stocks = append(stocks, w)
	}
	report.Positions = len(stocks)
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].Weight > stocks[j].Weight })
	for i, w := range stocks {
		if i == 5 {
			break
		}
		report.Top5Weight += w.Weight
	}

	report.appendConcentrationFindings()
	report.appendCorrelationFindings()
	report.appendPerformanceFindings(valuations)
	report.scoreRisk()
	return report, nil
}

func (r *InsightsReport) appendConcentrationFindings() {
	if r.Top5Weight > 70 {
		r.Insights = append(r.Insights, Insight{
			Category: "Concentration",
			Title:    "High portfolio concentration",
			Message:  fmt.Sprintf("The top 5 positions hold %s of the portfolio.", r.Top5Weight),
			Severity: "high",
		})
		r.Recommendations = append(r.Recommendations, Recommendation{
			Category:    "Diversification",
			Action:      "Reduce concentration in top positions",
			Description: "Trimming the largest holdings lowers single-position risk.",
			Priority:    "High",
		})
	}
	if r.CashWeight > 20 {
		r.Insights = append(r.Insights, Insight{
			Category: "Cash",
			Title:    "High cash allocation",
			Message:  fmt.Sprintf("Cash holds %s of the portfolio.", r.CashWeight),
			Severity: "medium",
		})
	}
	if r.Positions < 5 {
		r.Insights = append(r.Insights, Insight{
			Category: "Diversification",
			Title:    "Low position count",
			Message:  fmt.Sprintf("Only %d stock positions are held.", r.Positions),
			Severity: "medium",
		})
	}
	if r.Positions < 10 {
		r.Recommendations = append(r.Recommendations, Recommendation{
			Category:    "Positions",
			Action:      "Increase position count",
			Description: "More positions spread the single-stock risk.",
			Priority:    "Medium",
		})
	}
}

func (r *InsightsReport) appendCorrelationFindings() {
	if r.Diversification < 50 {
		r.Insights = append(r.Insights, Insight{
			Category: "Correlation",
			Title:    "Low diversification",
			Message:  fmt.Sprintf("Diversification scores %.1f of 100, the stocks tend to move together.", r.Diversification),
			Severity: "high",
		})
		r.Recommendations = append(r.Recommendations, Recommendation{
			Category:    "Diversification",
			Action:      "Add uncorrelated assets",
			Description: "Positions in other sectors or asset classes decouple the portfolio.",
			Priority:    "Medium",
		})
	}
	if r.AverageCorrelation > 0.7 {
		r.Insights = append(r.Insights, Insight{
			Category: "Correlation",
			Title:    "High stock correlations",
			Message:  fmt.Sprintf("The stocks correlate at %.3f on average.", r.AverageCorrelation),
			Severity: "medium",
		})
	}
}

func (r *InsightsReport) appendPerformanceFindings(valuations []Valuation) {
	var winners, losers int
	var gain, loss Money
	for _, v := range valuations {
		if IsCashSymbol(v.Symbol) {
			continue
		}
		switch {
		case v.Unrealized.IsPositive():
			winners++
			gain = gain.Add(v.Unrealized)
		case v.Unrealized.IsNegative():
			losers++
			loss = loss.Add(v.Unrealized.Neg())
		}
	}
	if losers > 0 {
		r.Insights = append(r.Insights, Insight{
			Category: "Performance",
			Title:    "Losing positions",
			Message:  fmt.Sprintf("%d positions carry %s of unrealized loss.", losers, loss),
			Severity: "medium",
		})
	}
	if winners > 0 {
		r.Insights = append(r.Insights, Insight{
			Category: "Performance",
			Title:    "Winning positions",
			Message:  fmt.Sprintf("%d positions carry %s of unrealized gain.", winners, gain),
			Severity: "low",
		})
	}
}

// scoreRisk grades the portfolio 0..100 from its concentration, its
// diversification and its position count.
func (r *InsightsReport) scoreRisk() {
	switch {
	case r.Top5Weight > 80:
		r.RiskScore += 30
	case r.Top5Weight > 60:
		r.RiskScore += 20
	case r.Top5Weight > 40:
		r.RiskScore += 10
	}
	switch {
	case r.Diversification < 30:
		r.RiskScore += 25
	case r.Diversification < 50:
		r.RiskScore += 15
	case r.Diversification < 70:
		r.RiskScore += 5
	}
	switch {
	case r.Positions < 5:
		r.RiskScore += 15
	case r.Positions < 10:
		r.RiskScore += 10
	}
	if r.RiskScore > 100 {
		r.RiskScore = 100
	}

	switch {
	case r.RiskScore >= 70:
		r.RiskLevel = "High"
	case r.RiskScore >= 40:
		r.RiskLevel = "Medium"
	case r.RiskScore >= 20:
		r.RiskLevel = "Low"
	default:
		r.RiskLevel = "Very Low"
	}

	if r.Top5Weight > 70 {
		r.RiskFactors = append(r.RiskFactors, "high portfolio concentration")
	}
	if r.Positions < 5 {
		r.RiskFactors = append(r.RiskFactors, "low position count")
	}
	if r.Diversification < 50 {
		r.RiskFactors = append(r.RiskFactors, "low diversification")
	}
	if r.AverageCorrelation > 0.6 {
		r.RiskFactors = append(r.RiskFactors, "high stock correlations")
	}
}
