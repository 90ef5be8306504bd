package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ricecast/internal/delta"
	"ricecast/internal/pricing"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// WriteCards prints one row per forecast tier: predicted price, previous
// price, absolute change and the direction badge.
func WriteCards(w io.Writer, prediction pricing.Prediction) error {
	if _, err := fmt.Fprintf(w, "Hasil Prediksi: %s\n\n", prediction.Period.Label()); err != nil {
		return err
	}

	entries := prediction.Ordered()
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no predictions returned")
		return err
	}

	table := newTable(w)
	fmt.Fprintln(table, "Kualitas\tHarga Prediksi\tHarga Sebelumnya\tSelisih\tPerubahan")
	for _, entry := range entries {
		d := delta.ForEntry(entry)
		fmt.Fprintf(
			table,
			"%s\t%s\t%s\t%s\t%s\n",
			entry.Tier.DisplayName(),
			Rupiah(entry.EstimatedPrice),
			Rupiah(entry.PreviousPrice),
			Rupiah(d.Absolute),
			d.Badge(),
		)
	}
	return table.Flush()
}

// WriteErrors prints the user-facing failure messages, if any.
func WriteErrors(w io.Writer, messages ...string) error {
	for _, msg := range messages {
		if msg == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "error: %s\n", sanitizeInline(msg)); err != nil {
			return err
		}
	}
	return nil
}
