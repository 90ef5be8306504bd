package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ricecast/internal/dashboard"
	"ricecast/internal/delta"
	"ricecast/internal/forecast"
	"ricecast/internal/pricing"
	"ricecast/internal/series"
)

// User-facing failure messages stored in dashboard state.
const (
	MsgPredictionFailed = "Failed to fetch prediction."
	MsgHistoricalFailed = "Failed to fetch historical data."
	MsgNotConfigured    = "Forecast API is not configured."
	MsgInvalidPeriod    = "Invalid year or month."
)

// ErrStale is returned when a response arrived after a newer request of the
// same kind and was discarded.
var ErrStale = errors.New("service: response superseded by a newer request")

// View is everything the presentation layer needs for one render.
type View struct {
	dashboard.Snapshot
	Points []series.Point
	Deltas map[pricing.Tier]delta.Result
}

// Service orchestrates forecast requests, reshaping, and delta computation.
type Service struct {
	api    forecast.API
	state  *dashboard.State
	window int
	logger zerolog.Logger
}

// New constructs the dashboard service. A nil state gets a fresh one.
func New(api forecast.API, state *dashboard.State, window int, logger zerolog.Logger) *Service {
	if state == nil {
		state = dashboard.NewState()
	}
	if window <= 0 {
		window = series.DefaultWindow
	}
	return &Service{
		api:    api,
		state:  state,
		window: window,
		logger: logger.With().Str("component", "service").Logger(),
	}
}

// State exposes the underlying dashboard state.
func (s *Service) State() *dashboard.State {
	return s.state
}

// LoadPrediction requests the forecast for period and stores it. Failures
// are recorded as a user-facing message and returned.
func (s *Service) LoadPrediction(ctx context.Context, period pricing.Period) error {
	ticket := s.state.Begin(dashboard.KindPrediction)
	logger := s.logger.With().Str("period", period.String()).Uint64("generation", ticket.Generation()).Logger()

	prediction, err := s.api.RequestPrediction(ctx, period)
	if err != nil {
		s.state.Fail(ticket, userMessage(err, MsgPredictionFailed))
		logger.Error().Err(err).Msg("prediction request failed")
		return fmt.Errorf("load prediction: %w", err)
	}

	if !s.state.CompletePrediction(ticket, prediction) {
		logger.Debug().Msg("discarding stale prediction response")
		return ErrStale
	}

	logger.Info().Int("tiers", len(prediction.Entries)).Msg("prediction loaded")
	return nil
}

// LoadHistorical fetches and reshapes the historical series.
func (s *Service) LoadHistorical(ctx context.Context) error {
	ticket := s.state.Begin(dashboard.KindHistorical)
	logger := s.logger.With().Uint64("generation", ticket.Generation()).Logger()

	historical, err := s.api.RequestHistorical(ctx)
	if err != nil {
		s.state.Fail(ticket, userMessage(err, MsgHistoricalFailed))
		logger.Error().Err(err).Msg("historical request failed")
		return fmt.Errorf("load historical: %w", err)
	}

	records := series.Reshape(historical)
	if gaps := series.Gaps(historical, records); len(gaps) > 0 {
		logger.Warn().Int("gaps", len(gaps)).Msg("historical series missing tiers; gaps charted as zero")
	}

	if !s.state.CompleteHistorical(ticket, records) {
		logger.Debug().Msg("discarding stale historical response")
		return ErrStale
	}

	logger.Info().Int("periods", len(records)).Msg("historical series loaded")
	return nil
}

// Refresh loads the prediction and the history concurrently. A failure of
// one does not cancel the other; both errors are joined.
func (s *Service) Refresh(ctx context.Context, period pricing.Period) (View, error) {
	var predErr, histErr error

	var g errgroup.Group
	g.Go(func() error {
		predErr = s.LoadPrediction(ctx, period)
		return nil
	})
	g.Go(func() error {
		histErr = s.LoadHistorical(ctx)
		return nil
	})
	_ = g.Wait()

	return s.View(), errors.Join(predErr, histErr)
}

// View derives the render model from the current state.
func (s *Service) View() View {
	snap := s.state.Snapshot()
	view := View{
		Snapshot: snap,
		Points:   series.ChartPoints(snap.Records, snap.Prediction, s.window),
	}
	if snap.Prediction != nil {
		view.Deltas = delta.ForPrediction(*snap.Prediction)
	}
	return view
}

func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, forecast.ErrNotConfigured):
		return MsgNotConfigured
	case errors.Is(err, pricing.ErrInvalidPeriod):
		return MsgInvalidPeriod
	default:
		return fallback
	}
}
