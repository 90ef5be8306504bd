package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"ricecast/internal/config"
	"ricecast/internal/pricing"
	"ricecast/internal/render"
)

type fakeForecast struct {
	failHistorical bool
	singleRecord   bool
	failMonth      int
	requested      chan pricing.Period
}

func (f fakeForecast) recordPeriod(year, month int) {
	if f.requested == nil {
		return
	}
	select {
	case f.requested <- pricing.Period{Year: year, Month: month}:
	default:
	}
}

func (f fakeForecast) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/predictions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Year  int `json:"year"`
			Month int `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode predict request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.recordPeriod(req.Year, req.Month)
		if f.failMonth != 0 && req.Month == f.failMonth {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "model offline"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predictions":{
			"premium":{"estimated_price":13200,"previous_price":12000},
			"medium":{"estimated_price":11000,"previous_price":11000},
			"low_quality":{"estimated_price":9500,"previous_price":0}}}`))
	})
	mux.HandleFunc("/historical", func(w http.ResponseWriter, r *http.Request) {
		if f.failHistorical {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if f.singleRecord {
			_, _ = w.Write([]byte(`{"historical":{"premium":[{"year":2025,"month":1,"price":12000}]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"historical":{
			"premium":[{"year":2025,"month":1,"price":12000},{"year":2025,"month":2,"price":12100}],
			"medium":[{"year":2025,"month":1,"price":10900}],
			"low_quality":[{"year":2025,"month":2,"price":9400}]}}`))
	})
	return mux
}

func newTestApp(t *testing.T, f fakeForecast) *App {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	return newTestAppWithURL(srv.URL)
}

func newTestAppWithURL(baseURL string) *App {
	cfg := &config.Config{
		Forecast: config.ForecastConfig{
			BaseURL:        baseURL,
			RequestTimeout: 5 * time.Second,
		},
		Chart: config.ChartConfig{Width: 640, Height: 360, Window: 12, Type: "line"},
		Watch: config.WatchConfig{Interval: time.Hour},
	}
	out := &bytes.Buffer{}
	return &App{
		Config: cfg,
		Logger: zerolog.Nop(),
		Out:    out,
		now:    func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) },
	}
}

func output(a *App) string {
	return a.Out.(*bytes.Buffer).String()
}

func TestPredictWithHistoryAndChart(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	chartPath := filepath.Join(t.TempDir(), "charts", "forecast.png")

	err := a.Predict(context.Background(), PredictOptions{
		Period:    pricing.Period{Year: 2025, Month: 3},
		History:   true,
		ChartPath: chartPath,
		ChartType: "area",
	})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	out := output(a)
	for _, want := range []string{"Hasil Prediksi: Maret 2025", "Rp 13.200", "↑ 10.00%", "↓ 0.00%", "↑ N/A", "Januari 2025", "Februari 2025"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	data, err := os.ReadFile(chartPath)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatal("chart is not a png")
	}
}

func TestPredictHistoricalFailureStillPrintsPrediction(t *testing.T) {
	a := newTestApp(t, fakeForecast{failHistorical: true})

	err := a.Predict(context.Background(), PredictOptions{Period: pricing.Period{Year: 2025, Month: 3}, History: true})
	if err != nil {
		t.Fatalf("predict should succeed without history: %v", err)
	}
	out := output(a)
	if !strings.Contains(out, "Hasil Prediksi") || !strings.Contains(out, "Failed to fetch historical data.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestPredictNotConfigured(t *testing.T) {
	a := newTestAppWithURL("")

	err := a.Predict(context.Background(), PredictOptions{Period: pricing.Period{Year: 2025, Month: 3}})
	if !errors.Is(err, ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
	if !strings.Contains(output(a), "Forecast API is not configured.") {
		t.Fatalf("unexpected output %q", output(a))
	}
}

func TestPredictRejectsYearOutsideOptions(t *testing.T) {
	a := newTestAppWithURL("http://unused.invalid")

	for _, year := range []int{2023, 2032} {
		err := a.Predict(context.Background(), PredictOptions{Period: pricing.Period{Year: year, Month: 1}})
		if !errors.Is(err, pricing.ErrInvalidPeriod) {
			t.Fatalf("year %d: expected ErrInvalidPeriod, got %v", year, err)
		}
	}
}

func TestHistoricalLimit(t *testing.T) {
	a := newTestApp(t, fakeForecast{})

	if err := a.Historical(context.Background(), HistoricalOptions{Limit: 1}); err != nil {
		t.Fatalf("historical: %v", err)
	}
	out := output(a)
	if strings.Contains(out, "Januari 2025") || !strings.Contains(out, "Februari 2025") {
		t.Fatalf("limit should keep only the newest record:\n%s", out)
	}
}

func TestHistoricalFailure(t *testing.T) {
	a := newTestApp(t, fakeForecast{failHistorical: true})

	err := a.Historical(context.Background(), HistoricalOptions{})
	if !errors.Is(err, ErrHistoricalUnavailable) {
		t.Fatalf("expected ErrHistoricalUnavailable, got %v", err)
	}
}

func TestExportWritesFiles(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "history.csv")
	pngPath := filepath.Join(dir, "history.png")

	if err := a.Export(context.Background(), ExportOptions{CSVPath: csvPath, PNGPath: pngPath}); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := "year,month,premium,medium,low_quality\n2025,1,12000,10900,0\n2025,2,12100,0,9400\n"
	if string(data) != want {
		t.Fatalf("unexpected csv:\n%s", data)
	}
	if _, err := os.Stat(pngPath); err != nil {
		t.Fatalf("png missing: %v", err)
	}
}

func TestExportRequiresOutput(t *testing.T) {
	a := newTestAppWithURL("")
	if err := a.Export(context.Background(), ExportOptions{}); err == nil {
		t.Fatal("expected error without outputs")
	}
}

func TestDelta(t *testing.T) {
	a := newTestAppWithURL("")

	if err := a.Delta(DeltaOptions{Estimated: decimal.NewFromInt(90), Previous: decimal.NewFromInt(100)}); err != nil {
		t.Fatalf("delta: %v", err)
	}
	out := output(a)
	if !strings.Contains(out, "-10.00%") || !strings.Contains(out, "↓ 10.00%") || !strings.Contains(out, "decrease") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	a.Out.(*bytes.Buffer).Reset()
	if err := a.Delta(DeltaOptions{Estimated: decimal.NewFromInt(90), Previous: decimal.Zero}); err != nil {
		t.Fatalf("delta: %v", err)
	}
	if !strings.Contains(output(a), "N/A") {
		t.Fatalf("zero previous should render N/A:\n%s", output(a))
	}
}

func TestSweepReportsFailedMonthsInline(t *testing.T) {
	a := newTestApp(t, fakeForecast{failMonth: 2})

	err := a.Sweep(context.Background(), SweepOptions{
		From:    pricing.Period{Year: 2025, Month: 1},
		To:      pricing.Period{Year: 2025, Month: 3},
		Workers: 2,
	})
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	out := output(a)
	for _, want := range []string{"Januari 2025", "Februari 2025", "Failed to fetch prediction.", "Maret 2025"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Januari 2025") > strings.Index(out, "Maret 2025") {
		t.Fatalf("months out of order:\n%s", out)
	}
}

func TestSweepRejectsReversedRange(t *testing.T) {
	a := newTestAppWithURL("")
	err := a.Sweep(context.Background(), SweepOptions{
		From: pricing.Period{Year: 2025, Month: 3},
		To:   pricing.Period{Year: 2025, Month: 1},
	})
	if err == nil {
		t.Fatal("expected error for reversed range")
	}
}

func TestExportSinglePeriodLeavesNoChart(t *testing.T) {
	a := newTestApp(t, fakeForecast{singleRecord: true})
	pngPath := filepath.Join(t.TempDir(), "history.png")

	err := a.Export(context.Background(), ExportOptions{PNGPath: pngPath})
	if !errors.Is(err, render.ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	if _, statErr := os.Stat(pngPath); !os.IsNotExist(statErr) {
		t.Fatalf("no chart file should be created, stat err=%v", statErr)
	}
}

func TestSweepCancelledContextFailsEveryMonth(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.Sweep(ctx, SweepOptions{
		From:    pricing.Period{Year: 2025, Month: 1},
		To:      pricing.Period{Year: 2025, Month: 2},
		Workers: 2,
	})
	if !errors.Is(err, ErrPredictionUnavailable) {
		t.Fatalf("expected ErrPredictionUnavailable, got %v", err)
	}
}

type fakeTelegram struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("unexpected telegram path %s", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode telegram body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.texts = append(f.texts, body["text"])
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func (f *fakeTelegram) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func withTelegram(t *testing.T, a *App, enabled bool, thresholdPct float64) *fakeTelegram {
	t.Helper()
	tg := &fakeTelegram{}
	srv := httptest.NewServer(tg.handler(t))
	t.Cleanup(srv.Close)

	a.Config.Alerting = config.AlertingConfig{
		Enabled:      enabled,
		ThresholdPct: thresholdPct,
		Telegram: config.TelegramConfig{
			Enabled:  true,
			BotToken: "token",
			ChatID:   "chat",
			APIBase:  srv.URL,
			Timeout:  time.Second,
		},
	}
	return tg
}

func TestWatchFollowsCurrentMonthAndAlertsOverThreshold(t *testing.T) {
	requested := make(chan pricing.Period, 4)
	a := newTestApp(t, fakeForecast{requested: requested})
	tg := withTelegram(t, a, true, 5)

	if err := a.Watch(context.Background(), WatchOptions{Interval: time.Hour, MaxTicks: 1}); err != nil {
		t.Fatalf("watch: %v", err)
	}

	select {
	case got := <-requested:
		if got != (pricing.Period{Year: 2026, Month: 10}) {
			t.Fatalf("watch should follow the current month, requested %s", got)
		}
	default:
		t.Fatal("no prediction requested")
	}

	out := output(a)
	if strings.Count(out, "Hasil Prediksi: Oktober 2026") != 1 {
		t.Fatalf("expected one card block:\n%s", out)
	}

	sent := tg.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "Oktober 2026") {
		t.Fatalf("expected one summary for the 10%% premium move, got %q", sent)
	}
}

func TestWatchBelowThresholdDoesNotNotify(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	tg := withTelegram(t, a, true, 50)

	if err := a.Watch(context.Background(), WatchOptions{Interval: time.Hour, MaxTicks: 1}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if sent := tg.sent(); len(sent) != 0 {
		t.Fatalf("no tier cleared 50%%, got %q", sent)
	}
}

func TestWatchAlertingDisabledDoesNotNotify(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	tg := withTelegram(t, a, false, 0)

	if err := a.Watch(context.Background(), WatchOptions{Interval: time.Hour, MaxTicks: 1}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if sent := tg.sent(); len(sent) != 0 {
		t.Fatalf("alerting disabled, got %q", sent)
	}
}

func TestWatchHidesCardsOnPredictionError(t *testing.T) {
	a := newTestApp(t, fakeForecast{failMonth: 3})
	period := pricing.Period{Year: 2025, Month: 3}

	if err := a.Watch(context.Background(), WatchOptions{Period: &period, Interval: time.Hour, MaxTicks: 1}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	out := output(a)
	if strings.Contains(out, "Hasil Prediksi") || !strings.Contains(out, "Failed to fetch prediction.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestWatchAlertingWithoutChannel(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	a.Config.Alerting = config.AlertingConfig{Enabled: true}

	if err := a.Watch(context.Background(), WatchOptions{Interval: time.Hour, MaxTicks: 1}); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if !strings.Contains(output(a), "Hasil Prediksi: Oktober 2026") {
		t.Fatalf("cards should print without an alert channel:\n%s", output(a))
	}
}

func TestPredictNotifySendsSummary(t *testing.T) {
	a := newTestApp(t, fakeForecast{})
	tg := withTelegram(t, a, false, 50)

	err := a.Predict(context.Background(), PredictOptions{Period: pricing.Period{Year: 2025, Month: 3}, Notify: true})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	sent := tg.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "Maret 2025") || !strings.Contains(sent[0], "Rp 13.200") {
		t.Fatalf("expected one summary regardless of threshold, got %q", sent)
	}
}
