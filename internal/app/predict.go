package app

import (
	"context"
	"fmt"

	"ricecast/internal/render"
	"ricecast/internal/series"
	"ricecast/internal/service"
)

// Predict fetches the forecast for one month and prints the tier cards.
// With History or ChartPath set, the historical series is loaded in
// parallel; its failure is reported without hiding the forecast.
func (a *App) Predict(ctx context.Context, opts PredictOptions) error {
	if err := a.checkPeriod(opts.Period); err != nil {
		return err
	}
	kind, err := render.ParseChartKind(a.Config.ResolveChartType(opts.ChartType))
	if err != nil {
		return err
	}

	window := a.Config.ResolveWindow(opts.Window)
	svc := a.newService(window)

	var view service.View
	if opts.History || opts.ChartPath != "" {
		view, _ = svc.Refresh(ctx, opts.Period)
	} else {
		_ = svc.LoadPrediction(ctx, opts.Period)
		view = svc.View()
	}

	if view.Prediction == nil {
		if err := render.WriteErrors(a.Out, view.PredictionError, view.HistoricalError); err != nil {
			return err
		}
		return ErrPredictionUnavailable
	}

	if err := render.WriteCards(a.Out, *view.Prediction); err != nil {
		return err
	}

	if opts.History {
		fmt.Fprintln(a.Out)
		if view.HistoricalError != "" {
			if err := render.WriteErrors(a.Out, view.HistoricalError); err != nil {
				return err
			}
		} else if err := render.WriteHistoryTable(a.Out, series.Last(view.Records, window)); err != nil {
			return err
		}
	}

	if opts.ChartPath != "" {
		if err := a.writeChart(opts.ChartPath, view.Points, kind, "Prediksi Harga Beras "+opts.Period.Label()); err != nil {
			return err
		}
	}

	if opts.Notify {
		if err := a.notify(ctx, a.newNotifier(), *view.Prediction, 0); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
	}

	return nil
}

func (a *App) writeChart(path string, points []series.Point, kind render.ChartKind, title string) error {
	if len(points) < 2 {
		return fmt.Errorf("render chart: %w", render.ErrTooFewPoints)
	}

	file, err := createFile(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := render.RenderChart(file, points, render.ChartOptions{
		Kind:   kind,
		Width:  a.Config.Chart.Width,
		Height: a.Config.Chart.Height,
		Title:  title,
	}); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	a.Logger.Info().Str("path", path).Str("type", string(kind)).Int("points", len(points)).Msg("chart written")
	return nil
}
