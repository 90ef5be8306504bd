package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ricecast/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. RICECAST_FORECAST_BASE_URL.
const EnvPrefix = "RICECAST"

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Alerting AlertingConfig `mapstructure:"alerting"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	EnvFile     string `mapstructure:"env_file"`
}

// ForecastConfig covers the external forecasting service.
type ForecastConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	PredictPath    string        `mapstructure:"predict_path"`
	HistoricalPath string        `mapstructure:"historical_path"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// ChartConfig sets PNG chart rendering.
type ChartConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Window int    `mapstructure:"window"`
	Type   string `mapstructure:"type"`
}

// WatchConfig governs the refresh cadence of the watch command.
type WatchConfig struct {
	Interval     time.Duration `mapstructure:"interval"`
	Align        bool          `mapstructure:"align"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines when forecast summaries are pushed.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	ThresholdPct float64        `mapstructure:"threshold_pct"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes Telegram delivery.
type TelegramConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	BotToken string        `mapstructure:"bot_token"`
	ChatID   string        `mapstructure:"chat_id"`
	APIBase  string        `mapstructure:"api_base"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Load builds configuration from env, the config file, an optional .env
// file, and defaults, in that order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := loadEnvFile(v, v.GetString("app.env_file")); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnvFile layers RICECAST_* entries of a dotenv file above the
// defaults and below the config file. The process environment is left
// untouched, so real env vars keep the highest precedence. A missing file
// is not an error.
func loadEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}

	keys := make(map[string]string, len(v.AllKeys()))
	for _, key := range v.AllKeys() {
		keys[envName(key)] = key
	}
	for name, value := range values {
		if key, ok := keys[strings.ToUpper(name)]; ok {
			v.SetDefault(key, value)
		}
	}
	return nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ricecast")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.env_file", ".env")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("forecast.base_url", "")
	v.SetDefault("forecast.predict_path", "/predictions")
	v.SetDefault("forecast.historical_path", "/historical")
	v.SetDefault("forecast.request_timeout", "30s")
	v.SetDefault("forecast.user_agent", "ricecast/1.0")

	v.SetDefault("chart.width", 1280)
	v.SetDefault("chart.height", 720)
	v.SetDefault("chart.window", 12)
	v.SetDefault("chart.type", "line")

	v.SetDefault("watch.interval", "1h")
	v.SetDefault("watch.align", false)
	v.SetDefault("watch.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.threshold_pct", 5.0)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.bot_token", "")
	v.SetDefault("alerting.telegram.chat_id", "")
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")
	v.SetDefault("alerting.telegram.timeout", "10s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values. The
// forecast base URL is checked per request instead, since offline commands
// do not need it.
func (c *Config) Validate() error {
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be greater than zero")
	}
	if c.Chart.Window <= 0 {
		return fmt.Errorf("chart.window must be greater than zero")
	}
	switch strings.ToLower(c.Chart.Type) {
	case "line", "area":
	default:
		return fmt.Errorf("chart.type must be line or area, got %q", c.Chart.Type)
	}
	if c.Forecast.RequestTimeout < 0 {
		return fmt.Errorf("forecast.request_timeout cannot be negative")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be greater than zero")
	}
	if c.Alerting.ThresholdPct < 0 {
		return fmt.Errorf("alerting.threshold_pct cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token is required")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id is required")
		}
	}
	return nil
}

// ResolveWindow returns either the CLI override or the chart default.
func (c *Config) ResolveWindow(override int) int {
	if override > 0 {
		return override
	}
	return c.Chart.Window
}

// ResolveChartType returns either the CLI override or the chart default.
func (c *Config) ResolveChartType(override string) string {
	if override != "" {
		return strings.ToLower(override)
	}
	return strings.ToLower(c.Chart.Type)
}
