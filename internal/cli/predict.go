package cli

import (
	"time"

	"github.com/spf13/cobra"

	"ricecast/internal/app"
	"ricecast/internal/pricing"
)

var (
	predictYear      int
	predictMonth     int
	predictHistory   bool
	predictChartPath string
	predictChartType string
	predictWindow    int
	predictNotify    bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast rice prices for a month",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := periodFromFlags(predictYear, predictMonth, time.Now())
		if err != nil {
			return err
		}

		opts := app.PredictOptions{
			Period:    period,
			History:   predictHistory,
			ChartPath: predictChartPath,
			ChartType: predictChartType,
			Window:    predictWindow,
			Notify:    predictNotify,
		}

		return getApp().Predict(cmd.Context(), opts)
	},
}

// periodFromFlags fills zero flags from now.
func periodFromFlags(year, month int, now time.Time) (pricing.Period, error) {
	current := pricing.PeriodOf(now)
	if year == 0 {
		year = current.Year
	}
	if month == 0 {
		month = current.Month
	}
	return pricing.NewPeriod(year, month)
}

func init() {
	predictCmd.Flags().IntVar(&predictYear, "year", 0, "Forecast year (defaults to the current year)")
	predictCmd.Flags().IntVar(&predictMonth, "month", 0, "Forecast month 1-12 (defaults to the current month)")
	predictCmd.Flags().BoolVar(&predictHistory, "history", false, "Also print the recent historical series")
	predictCmd.Flags().StringVar(&predictChartPath, "chart", "", "Path to write a PNG chart of history plus forecast")
	predictCmd.Flags().StringVar(&predictChartType, "chart-type", "", "Chart type: line or area (defaults to config)")
	predictCmd.Flags().IntVar(&predictWindow, "window", 0, "Historical periods to chart (defaults to config)")
	predictCmd.Flags().BoolVar(&predictNotify, "notify", false, "Send the forecast summary to the configured alert channel")
}
