package series

import (
	"github.com/shopspring/decimal"

	"ricecast/internal/pricing"
)

// PointKind distinguishes observed points from the forecast tail.
type PointKind string

const (
	KindHistorical PointKind = "historical"
	KindPrevious   PointKind = "previous"
	KindPrediction PointKind = "prediction"
)

// Point is one x-axis position on the price chart.
type Point struct {
	Label  string
	Kind   PointKind
	Prices map[pricing.Tier]decimal.Decimal
}

// Price returns the tier price, and false when the point has no value for it.
func (p Point) Price(t pricing.Tier) (decimal.Decimal, bool) {
	v, ok := p.Prices[t]
	return v, ok
}

// ChartPoints lays out the chart: the last window historical records, then
// the previous period's prices, then the forecast for the requested period.
// A nil prediction yields only the historical points.
func ChartPoints(records []pricing.PeriodRecord, prediction *pricing.Prediction, window int) []Point {
	recent := Last(records, window)
	points := make([]Point, 0, len(recent)+2)

	for _, rec := range recent {
		prices := make(map[pricing.Tier]decimal.Decimal, 3)
		for _, tier := range pricing.Tiers() {
			prices[tier] = rec.Price(tier)
		}
		points = append(points, Point{
			Label:  rec.Period.Short(),
			Kind:   KindHistorical,
			Prices: prices,
		})
	}

	if prediction == nil {
		return points
	}

	previous := Point{
		Label:  prediction.Period.Previous().Label(),
		Kind:   KindPrevious,
		Prices: make(map[pricing.Tier]decimal.Decimal, len(prediction.Entries)),
	}
	current := Point{
		Label:  prediction.Period.Label(),
		Kind:   KindPrediction,
		Prices: make(map[pricing.Tier]decimal.Decimal, len(prediction.Entries)),
	}
	for _, entry := range prediction.Ordered() {
		previous.Prices[entry.Tier] = entry.PreviousPrice
		current.Prices[entry.Tier] = entry.EstimatedPrice
	}

	return append(points, previous, current)
}
