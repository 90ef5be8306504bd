package app

import (
	"context"

	"ricecast/internal/pricing"
	"ricecast/internal/render"
	"ricecast/internal/series"
	"ricecast/internal/service"
)

// Historical prints the merged price history, newest Limit records (all
// when Limit is zero).
func (a *App) Historical(ctx context.Context, opts HistoricalOptions) error {
	svc := a.newService(0)

	records, err := a.loadRecords(ctx, svc)
	if err != nil {
		return err
	}
	if opts.Limit > 0 {
		records = series.Last(records, opts.Limit)
	}

	return render.WriteHistoryTable(a.Out, records)
}

func (a *App) loadRecords(ctx context.Context, svc *service.Service) ([]pricing.PeriodRecord, error) {
	_ = svc.LoadHistorical(ctx)
	snap := svc.State().Snapshot()
	if snap.HistoricalError != "" {
		if err := render.WriteErrors(a.Out, snap.HistoricalError); err != nil {
			return nil, err
		}
		return nil, ErrHistoricalUnavailable
	}
	return snap.Records, nil
}
