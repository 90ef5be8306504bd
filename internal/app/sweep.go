package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"ricecast/internal/delta"
	"ricecast/internal/forecast"
	"ricecast/internal/pricing"
	"ricecast/internal/render"
	"ricecast/internal/service"
)

const maxSweepMonths = 120

// Sweep forecasts every month from From through To with a bounded number
// of concurrent requests and prints one row per month and tier. Failed
// months are reported inline; the command fails only if every month did.
func (a *App) Sweep(ctx context.Context, opts SweepOptions) error {
	if err := a.checkPeriod(opts.From); err != nil {
		return err
	}
	if err := a.checkPeriod(opts.To); err != nil {
		return err
	}
	if opts.To.Before(opts.From) {
		return errors.New("--from must not be after --to")
	}

	var periods []pricing.Period
	for p := opts.From; !opts.To.Before(p); p = p.Next() {
		periods = append(periods, p)
		if len(periods) > maxSweepMonths {
			return fmt.Errorf("sweep range exceeds %d months", maxSweepMonths)
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	client := a.newClient()
	results := make([]pricing.Prediction, len(periods))
	failures := make([]error, len(periods))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, period := range periods {
		g.Go(func() error {
			pred, err := client.RequestPrediction(ctx, period)
			if err != nil {
				a.Logger.Error().Err(err).Str("period", period.String()).Msg("sweep forecast failed")
				failures[i] = err
				return nil
			}
			results[i] = pred
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Periode\tKualitas\tHarga Prediksi\tHarga Sebelumnya\tPerubahan")
	for i, period := range periods {
		if failures[i] != nil {
			failed++
			fmt.Fprintf(writer, "%s\t-\t-\t-\t%s\n", period.Label(), failureMessage(failures[i]))
			continue
		}
		for _, entry := range results[i].Ordered() {
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
				period.Label(),
				entry.Tier.DisplayName(),
				render.Rupiah(entry.EstimatedPrice),
				render.Rupiah(entry.PreviousPrice),
				delta.ForEntry(entry).Badge(),
			)
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	a.Logger.Info().Int("months", len(periods)).Int("failed", failed).Msg("sweep complete")
	if failed == len(periods) {
		return ErrPredictionUnavailable
	}
	return nil
}

func failureMessage(err error) string {
	if errors.Is(err, forecast.ErrNotConfigured) {
		return service.MsgNotConfigured
	}
	return service.MsgPredictionFailed
}
