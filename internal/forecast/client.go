package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ricecast/internal/pricing"
)

const (
	defaultPredictPath    = "/predictions"
	defaultHistoricalPath = "/historical"
	defaultUserAgent      = "ricecast/1.0"

	requestIDHeader = "X-Request-ID"
)

// API is the forecasting service contract consumed by the dashboard.
type API interface {
	RequestPrediction(ctx context.Context, period pricing.Period) (pricing.Prediction, error)
	RequestHistorical(ctx context.Context) (map[pricing.Tier][]pricing.HistoricalEntry, error)
}

// Options parameterise the forecast client.
type Options struct {
	BaseURL        string
	PredictPath    string
	HistoricalPath string
	Timeout        time.Duration
	UserAgent      string
}

// Client calls the external forecasting service. Every call is sent once:
// no retries and no caching.
type Client struct {
	baseURL        string
	predictPath    string
	historicalPath string
	http           *resty.Client
	logger         zerolog.Logger
}

// NewClient constructs a forecast client. A missing base URL is reported on
// the first request, before any network activity.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	rc := resty.New().SetRetryCount(0)
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}

	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	rc.SetHeader("User-Agent", ua)
	rc.SetHeader("Accept", "application/json")

	return &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		predictPath:    normalizePath(opts.PredictPath, defaultPredictPath),
		historicalPath: normalizePath(opts.HistoricalPath, defaultHistoricalPath),
		http:           rc,
		logger:         logger.With().Str("component", "forecast_client").Logger(),
	}
}

// RequestPrediction asks the service for the forecast of period.
func (c *Client) RequestPrediction(ctx context.Context, period pricing.Period) (pricing.Prediction, error) {
	if err := period.Validate(); err != nil {
		return pricing.Prediction{}, err
	}

	body, err := c.do(ctx, "predict", c.predictPath, func(req *resty.Request, url string) (*resty.Response, error) {
		return req.SetBody(predictRequest{Year: period.Year, Month: period.Month}).Post(url)
	})
	if err != nil {
		return pricing.Prediction{}, err
	}

	var payload predictResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return pricing.Prediction{}, fmt.Errorf("%w: decode predictions: %v", ErrMalformedResponse, err)
	}
	if payload.Predictions == nil {
		return pricing.Prediction{}, fmt.Errorf("%w: missing predictions object", ErrMalformedResponse)
	}

	prediction := pricing.Prediction{
		Period:  period,
		Entries: make(map[pricing.Tier]pricing.PredictionEntry, len(payload.Predictions)),
	}
	for key, item := range payload.Predictions {
		tier, err := pricing.ParseTier(key)
		if err != nil {
			c.logger.Warn().Str("tier", key).Msg("skipping prediction for unknown tier")
			continue
		}
		if _, shadowed := payload.Predictions[tier.Key()]; shadowed && key != tier.Key() {
			c.logger.Warn().Str("tier", key).Str("canonical", tier.Key()).Msg("skipping alias tier; canonical key present")
			continue
		}
		prediction.Entries[tier] = pricing.PredictionEntry{
			Tier:           tier,
			EstimatedPrice: item.EstimatedPrice,
			PreviousPrice:  item.PreviousPrice,
		}
	}

	return prediction, nil
}

// RequestHistorical fetches the full historical series of every tier.
func (c *Client) RequestHistorical(ctx context.Context) (map[pricing.Tier][]pricing.HistoricalEntry, error) {
	body, err := c.do(ctx, "historical", c.historicalPath, func(req *resty.Request, url string) (*resty.Response, error) {
		return req.Get(url)
	})
	if err != nil {
		return nil, err
	}

	var payload historicalResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: decode historical: %v", ErrMalformedResponse, err)
	}
	if payload.Historical == nil {
		return nil, fmt.Errorf("%w: missing historical object", ErrMalformedResponse)
	}

	out := make(map[pricing.Tier][]pricing.HistoricalEntry, len(payload.Historical))
	for key, items := range payload.Historical {
		tier, err := pricing.ParseTier(key)
		if err != nil {
			c.logger.Warn().Str("tier", key).Msg("skipping historical series for unknown tier")
			continue
		}
		if _, shadowed := payload.Historical[tier.Key()]; shadowed && key != tier.Key() {
			c.logger.Warn().Str("tier", key).Str("canonical", tier.Key()).Msg("skipping alias tier; canonical key present")
			continue
		}

		entries := make([]pricing.HistoricalEntry, 0, len(items))
		for _, item := range items {
			period := pricing.Period{Year: item.Year, Month: item.Month}
			if err := period.Validate(); err != nil {
				c.logger.Warn().Err(err).Str("tier", key).Msg("skipping historical entry")
				continue
			}
			entries = append(entries, pricing.HistoricalEntry{Tier: tier, Period: period, Price: item.Price})
		}
		out[tier] = append(out[tier], entries...)
	}

	return out, nil
}

type sendFunc func(req *resty.Request, url string) (*resty.Response, error)

func (c *Client) do(ctx context.Context, op, path string, send sendFunc) ([]byte, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	requestID := uuid.New().String()
	url := c.baseURL + path
	logger := c.logger.With().Str("op", op).Str("request_id", requestID).Logger()

	started := time.Now()
	req := c.http.R().SetContext(ctx).SetHeader(requestIDHeader, requestID)
	resp, err := send(req, url)
	if err != nil {
		logger.Debug().Err(err).Str("url", url).Msg("forecast request failed")
		return nil, &NetworkError{Op: op, Err: err}
	}

	logger.Debug().
		Str("url", url).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(started)).
		Msg("forecast response received")

	if !resp.IsSuccess() {
		return nil, parseServiceError(op, resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func normalizePath(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return fallback
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

type predictRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type predictResponse struct {
	Predictions map[string]predictionItem `json:"predictions"`
}

type predictionItem struct {
	EstimatedPrice decimal.Decimal `json:"estimated_price"`
	PreviousPrice  decimal.Decimal `json:"previous_price"`
}

type historicalResponse struct {
	Historical map[string][]historicalItem `json:"historical"`
}

type historicalItem struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Price decimal.Decimal `json:"price"`
}

var _ API = (*Client)(nil)
