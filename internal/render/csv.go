package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"ricecast/internal/pricing"
)

var csvHeader = []string{"year", "month", "premium", "medium", "low_quality"}

// WriteRecordsCSV writes records as CSV with one column per tier.
func WriteRecordsCSV(w io.Writer, records []pricing.PeriodRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			strconv.Itoa(rec.Period.Year),
			strconv.Itoa(rec.Period.Month),
			rec.Premium.String(),
			rec.Medium.String(),
			rec.Low.String(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
