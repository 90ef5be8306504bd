package series

import (
	"sort"

	"ricecast/internal/pricing"
)

// DefaultWindow is the number of historical months shown on the chart.
const DefaultWindow = 12

// Reshape pivots tier-keyed historical entries into one record per period,
// sorted ascending by (year, month). Prices missing for a tier in a period
// stay zero.
func Reshape(historical map[pricing.Tier][]pricing.HistoricalEntry) []pricing.PeriodRecord {
	byKey := make(map[int]pricing.PeriodRecord)

	for _, tier := range pricing.Tiers() {
		for _, entry := range historical[tier] {
			key := entry.Period.Key()
			rec, ok := byKey[key]
			if !ok {
				rec = pricing.NewPeriodRecord(entry.Period)
			}
			byKey[key] = rec.WithPrice(tier, entry.Price)
		}
	}

	records := make([]pricing.PeriodRecord, 0, len(byKey))
	for _, rec := range byKey {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Period.Key() < records[j].Period.Key()
	})
	return records
}

// Last returns the trailing n records. A non-positive n returns all records.
func Last(records []pricing.PeriodRecord, n int) []pricing.PeriodRecord {
	if n <= 0 || len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}

// Gap marks a tier with no observation in a period.
type Gap struct {
	Period pricing.Period
	Tier   pricing.Tier
}

// Gaps lists the (period, tier) pairs absent from the source data, given the
// original tier-keyed input and its reshaped records.
func Gaps(historical map[pricing.Tier][]pricing.HistoricalEntry, records []pricing.PeriodRecord) []Gap {
	seen := make(map[pricing.Tier]map[int]struct{}, len(historical))
	for tier, entries := range historical {
		keys := make(map[int]struct{}, len(entries))
		for _, e := range entries {
			keys[e.Period.Key()] = struct{}{}
		}
		seen[tier] = keys
	}

	var gaps []Gap
	for _, rec := range records {
		for _, tier := range pricing.Tiers() {
			if _, ok := seen[tier][rec.Period.Key()]; !ok {
				gaps = append(gaps, Gap{Period: rec.Period, Tier: tier})
			}
		}
	}
	return gaps
}
