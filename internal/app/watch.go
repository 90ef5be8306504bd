package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"ricecast/internal/pricing"
	"ricecast/internal/render"
	"ricecast/internal/scheduler"
)

// Watch refreshes the forecast on the configured cadence until interrupted,
// printing the cards on every tick.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.Period != nil {
		if err := a.checkPeriod(*opts.Period); err != nil {
			return err
		}
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = a.Config.Watch.Interval
	}

	sched, err := scheduler.New(scheduler.Options{
		Interval:       interval,
		AlignToStart:   a.Config.Watch.Align,
		StartupDelay:   a.Config.Watch.StartupDelay,
		RunImmediately: true,
	}, a.Logger)
	if err != nil {
		return err
	}

	svc := a.newService(0)
	notifier := a.newNotifier()
	if a.Config.Alerting.Enabled && notifier == nil {
		a.Logger.Warn().Msg("alerting enabled but no channel configured")
	}

	ticks := 0
	tick := func(ctx context.Context, at time.Time) error {
		ticks++
		if opts.MaxTicks > 0 && ticks >= opts.MaxTicks {
			defer cancel()
		}

		period := pricing.PeriodOf(a.now())
		if opts.Period != nil {
			period = *opts.Period
		}

		view, refreshErr := svc.Refresh(ctx, period)

		fmt.Fprintf(a.Out, "== %s ==\n", at.Local().Format(time.DateTime))
		if view.Prediction != nil && view.PredictionError == "" {
			if err := render.WriteCards(a.Out, *view.Prediction); err != nil {
				return err
			}
		}
		if err := render.WriteErrors(a.Out, view.PredictionError, view.HistoricalError); err != nil {
			return err
		}
		fmt.Fprintln(a.Out)

		if a.Config.Alerting.Enabled && view.Prediction != nil && view.PredictionError == "" {
			if err := a.notify(ctx, notifier, *view.Prediction, a.Config.Alerting.ThresholdPct); err != nil {
				a.Logger.Error().Err(err).Msg("notification failed")
			}
		}
		return refreshErr
	}

	a.Logger.Info().Dur("interval", interval).Msg("starting forecast watch")
	err = sched.Run(ctx, tick)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("forecast watch stopped")
	return nil
}
