package delta

import (
	"fmt"

	"github.com/shopspring/decimal"

	"ricecast/internal/pricing"
)

// Direction classifies the sign of a price change.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// PercentPlaces is the rounding precision of Percentage.
const PercentPlaces = 2

var hundred = decimal.NewFromInt(100)

// Result describes the change from a previous price to an estimate.
type Result struct {
	Absolute   decimal.Decimal
	Percentage decimal.Decimal
	// PercentDefined is false when the previous price is zero; Percentage is
	// then zero and must not be displayed as a number.
	PercentDefined bool
	Direction      Direction
}

// Compute derives the absolute and percentage change of estimated over
// previous. A zero previous price yields an undefined percentage. Negative
// previous prices are not special-cased.
func Compute(estimated, previous decimal.Decimal) Result {
	abs := estimated.Sub(previous)

	res := Result{
		Absolute:   abs,
		Percentage: decimal.Zero,
		Direction:  classify(abs),
	}
	if previous.IsZero() {
		return res
	}

	res.Percentage = abs.Div(previous).Mul(hundred).Round(PercentPlaces)
	res.PercentDefined = true
	return res
}

// ForEntry computes the delta of a single tier forecast.
func ForEntry(e pricing.PredictionEntry) Result {
	return Compute(e.EstimatedPrice, e.PreviousPrice)
}

// ForPrediction computes the delta of every tier in p.
func ForPrediction(p pricing.Prediction) map[pricing.Tier]Result {
	out := make(map[pricing.Tier]Result, len(p.Entries))
	for tier, entry := range p.Entries {
		out[tier] = ForEntry(entry)
	}
	return out
}

// Badge renders the arrow and unsigned percentage, e.g. "↑ 10.00%".
func (r Result) Badge() string {
	arrow := "↓"
	if r.Direction == Increase {
		arrow = "↑"
	}
	if !r.PercentDefined {
		return arrow + " N/A"
	}
	return fmt.Sprintf("%s %s%%", arrow, r.Percentage.Abs().StringFixed(PercentPlaces))
}

// PercentString renders the signed percentage or "N/A".
func (r Result) PercentString() string {
	if !r.PercentDefined {
		return "N/A"
	}
	return r.Percentage.StringFixed(PercentPlaces) + "%"
}

func classify(d decimal.Decimal) Direction {
	if d.Sign() > 0 {
		return Increase
	}
	return Decrease
}
