package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ricecast/internal/alerting"
	"ricecast/internal/config"
	"ricecast/internal/forecast"
	"ricecast/internal/pricing"
	"ricecast/internal/service"
	"ricecast/internal/version"
)

var (
	// ErrPredictionUnavailable is returned when no forecast could be shown.
	ErrPredictionUnavailable = errors.New("prediction unavailable")
	// ErrHistoricalUnavailable is returned when the history could not be loaded.
	ErrHistoricalUnavailable = errors.New("historical data unavailable")
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer

	now func() time.Time
}

// NewApp constructs a new application handle writing command output to stdout.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
		now:    time.Now,
	}
}

func (a *App) newClient() *forecast.Client {
	ua := a.Config.Forecast.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	return forecast.NewClient(forecast.Options{
		BaseURL:        a.Config.Forecast.BaseURL,
		PredictPath:    a.Config.Forecast.PredictPath,
		HistoricalPath: a.Config.Forecast.HistoricalPath,
		Timeout:        a.Config.Forecast.RequestTimeout,
		UserAgent:      ua,
	}, a.Logger)
}

func (a *App) newService(window int) *service.Service {
	return service.New(a.newClient(), nil, a.Config.ResolveWindow(window), a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(alerting.TelegramOptions{
			BotToken: cfg.BotToken,
			ChatID:   cfg.ChatID,
			BaseURL:  cfg.APIBase,
			Timeout:  cfg.Timeout,
		}, a.Logger)
	}
	return nil
}

// checkPeriod validates p and that its year is selectable.
func (a *App) checkPeriod(p pricing.Period) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !pricing.YearAllowed(p.Year, a.now()) {
		years := pricing.YearOptions(a.now())
		return fmt.Errorf("%w: year %d outside %d-%d", pricing.ErrInvalidPeriod, p.Year, years[0], years[len(years)-1])
	}
	return nil
}

// notify pushes the summary of p when it clears thresholdPct.
func (a *App) notify(ctx context.Context, notifier alerting.Notifier, p pricing.Prediction, thresholdPct float64) error {
	if notifier == nil {
		a.Logger.Warn().Msg("no alert channel configured; skipping notification")
		return nil
	}

	summary := alerting.NewSummary(p, thresholdPct)
	if !alerting.ShouldNotify(summary, thresholdPct) {
		a.Logger.Info().Float64("threshold_pct", thresholdPct).Msg("forecast change below threshold; not notifying")
		return nil
	}
	return notifier.Notify(ctx, summary)
}

func createFile(path string) (*os.File, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// PredictOptions configure the predict command.
type PredictOptions struct {
	Period    pricing.Period
	History   bool
	ChartPath string
	ChartType string
	Window    int
	Notify    bool
}

// HistoricalOptions configure the historical command.
type HistoricalOptions struct {
	Limit int
}

// ExportOptions hold parameters for exporting the merged history.
type ExportOptions struct {
	CSVPath   string
	PNGPath   string
	ChartType string
	Window    int
}

// WatchOptions configure the watch command. A nil Period follows the
// current month on every tick. MaxTicks stops the loop after that many
// refreshes; zero runs until interrupted.
type WatchOptions struct {
	Period   *pricing.Period
	Interval time.Duration
	MaxTicks int
}

// DeltaOptions configure the offline delta command.
type DeltaOptions struct {
	Estimated decimal.Decimal
	Previous  decimal.Decimal
}

// SweepOptions configure a multi-month forecast sweep.
type SweepOptions struct {
	From    pricing.Period
	To      pricing.Period
	Workers int
}
