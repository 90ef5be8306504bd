package alerting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ricecast/internal/delta"
	"ricecast/internal/pricing"
	"ricecast/internal/render"
)

// Line is one tier of a forecast summary.
type Line struct {
	Tier      pricing.Tier
	Estimated decimal.Decimal
	Previous  decimal.Decimal
	Delta     delta.Result
}

// Summary is the forecast digest pushed to notification channels.
type Summary struct {
	Period        pricing.Period
	Lines         []Line
	ThresholdPct  float64
	AdditionalMsg string
}

// NewSummary builds a summary of p in tier order.
func NewSummary(p pricing.Prediction, thresholdPct float64) Summary {
	s := Summary{Period: p.Period, ThresholdPct: thresholdPct}
	for _, entry := range p.Ordered() {
		s.Lines = append(s.Lines, Line{
			Tier:      entry.Tier,
			Estimated: entry.EstimatedPrice,
			Previous:  entry.PreviousPrice,
			Delta:     delta.ForEntry(entry),
		})
	}
	return s
}

// ShouldNotify reports whether any tier moved by at least thresholdPct
// percent. Undefined percentages never trigger; a zero threshold always
// does.
func ShouldNotify(s Summary, thresholdPct float64) bool {
	if thresholdPct <= 0 {
		return true
	}
	limit := decimal.NewFromFloat(thresholdPct)
	for _, line := range s.Lines {
		if line.Delta.PercentDefined && line.Delta.Percentage.Abs().GreaterThanOrEqual(limit) {
			return true
		}
	}
	return false
}

// Notifier delivers forecast summaries.
type Notifier interface {
	Notify(ctx context.Context, summary Summary) error
}

// TelegramOptions configure the Telegram notifier.
type TelegramOptions struct {
	BotToken string
	ChatID   string
	BaseURL  string
	Timeout  time.Duration
}

// TelegramNotifier pushes summaries through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *resty.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(opts TelegramOptions, logger zerolog.Logger) *TelegramNotifier {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: opts.BotToken,
		chatID:   opts.ChatID,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		client:   resty.New().SetTimeout(opts.Timeout).SetRetryCount(0),
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

type sendMessageResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Notify calls sendMessage with the rendered summary.
func (n *TelegramNotifier) Notify(ctx context.Context, summary Summary) error {
	var result sendMessageResult
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id": n.chatID,
			"text":    renderMessage(summary),
		}).
		SetResult(&result).
		Post(fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken))
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("telegram unexpected status: %d", resp.StatusCode())
	}
	if !result.OK {
		return fmt.Errorf("telegram returned ok=false: %s", result.Description)
	}

	n.logger.Info().
		Str("period", summary.Period.String()).
		Int("tiers", len(summary.Lines)).
		Msg("forecast summary sent (Telegram)")
	return nil
}

func renderMessage(s Summary) string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("[Prediksi Harga Beras] %s\n", s.Period.Label()))
	for _, line := range s.Lines {
		builder.WriteString(fmt.Sprintf("%s: %s (sebelumnya %s) %s\n",
			line.Tier.DisplayName(),
			render.Rupiah(line.Estimated),
			render.Rupiah(line.Previous),
			line.Delta.Badge(),
		))
	}
	if s.ThresholdPct > 0 {
		builder.WriteString(fmt.Sprintf("Threshold: %.2f%%\n", s.ThresholdPct))
	}
	if s.AdditionalMsg != "" {
		builder.WriteString(s.AdditionalMsg)
	}
	return builder.String()
}

var _ Notifier = (*TelegramNotifier)(nil)
