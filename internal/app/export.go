package app

import (
	"context"
	"errors"
	"fmt"

	"ricecast/internal/pricing"
	"ricecast/internal/render"
	"ricecast/internal/series"
)

// Export writes the merged history as CSV and/or a PNG chart of the last
// Window periods.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}
	kind, err := render.ParseChartKind(a.Config.ResolveChartType(opts.ChartType))
	if err != nil {
		return err
	}

	window := a.Config.ResolveWindow(opts.Window)
	svc := a.newService(window)

	records, err := a.loadRecords(ctx, svc)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		a.Logger.Info().Msg("no historical data to export")
		return nil
	}

	if opts.CSVPath != "" {
		if err := a.writeCSV(opts.CSVPath, records); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		points := series.ChartPoints(records, nil, window)
		if err := a.writeChart(opts.PNGPath, points, kind, "Harga Beras Historis"); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) writeCSV(path string, records []pricing.PeriodRecord) error {
	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := render.WriteRecordsCSV(file, records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	a.Logger.Info().Str("path", path).Int("records", len(records)).Msg("csv written")
	return nil
}
