package pricing

import (
	"github.com/shopspring/decimal"
)

// HistoricalEntry is one observed monthly price for a tier.
type HistoricalEntry struct {
	Tier   Tier
	Period Period
	Price  decimal.Decimal
}

// PeriodRecord merges every tier's price for one period. Tiers without an
// observation hold zero.
type PeriodRecord struct {
	Period  Period
	Premium decimal.Decimal
	Medium  decimal.Decimal
	Low     decimal.Decimal
}

// NewPeriodRecord returns a record with all tier prices at zero.
func NewPeriodRecord(p Period) PeriodRecord {
	return PeriodRecord{
		Period:  p,
		Premium: decimal.Zero,
		Medium:  decimal.Zero,
		Low:     decimal.Zero,
	}
}

// Price returns the price held for tier t.
func (r PeriodRecord) Price(t Tier) decimal.Decimal {
	switch t {
	case TierPremium:
		return r.Premium
	case TierMedium:
		return r.Medium
	case TierLow:
		return r.Low
	default:
		return decimal.Zero
	}
}

// WithPrice returns a copy of r with tier t set to price.
func (r PeriodRecord) WithPrice(t Tier, price decimal.Decimal) PeriodRecord {
	switch t {
	case TierPremium:
		r.Premium = price
	case TierMedium:
		r.Medium = price
	case TierLow:
		r.Low = price
	}
	return r
}

// PredictionEntry is the forecast for one tier.
type PredictionEntry struct {
	Tier           Tier
	EstimatedPrice decimal.Decimal
	PreviousPrice  decimal.Decimal
}

// Prediction is the forecast for all tiers of a requested period.
type Prediction struct {
	Period  Period
	Entries map[Tier]PredictionEntry
}

// Ordered returns the entries in Tiers() order, skipping tiers the service
// did not return.
func (p Prediction) Ordered() []PredictionEntry {
	out := make([]PredictionEntry, 0, len(p.Entries))
	for _, t := range tierOrder {
		if e, ok := p.Entries[t]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Entry returns the forecast for tier t.
func (p Prediction) Entry(t Tier) (PredictionEntry, bool) {
	e, ok := p.Entries[t]
	return e, ok
}
