package render

import (
	"fmt"
	"io"

	"ricecast/internal/pricing"
)

// WriteHistoryTable prints merged historical records, oldest first.
func WriteHistoryTable(w io.Writer, records []pricing.PeriodRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no historical data found")
		return err
	}

	table := newTable(w)
	fmt.Fprint(table, "Periode")
	for _, tier := range pricing.Tiers() {
		fmt.Fprintf(table, "\t%s", tier.DisplayName())
	}
	fmt.Fprintln(table)

	for _, rec := range records {
		fmt.Fprint(table, rec.Period.Label())
		for _, tier := range pricing.Tiers() {
			fmt.Fprintf(table, "\t%s", Rupiah(rec.Price(tier)))
		}
		fmt.Fprintln(table)
	}
	return table.Flush()
}
