package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ricecast/internal/app"
)

var (
	watchYear     int
	watchMonth    int
	watchInterval time.Duration
	watchCount    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the forecast periodically",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchCount < 0 {
			return fmt.Errorf("--count cannot be negative")
		}

		opts := app.WatchOptions{Interval: watchInterval, MaxTicks: watchCount}

		if watchYear != 0 || watchMonth != 0 {
			period, err := periodFromFlags(watchYear, watchMonth, time.Now())
			if err != nil {
				return err
			}
			opts.Period = &period
		}

		return getApp().Watch(cmd.Context(), opts)
	},
}

func init() {
	watchCmd.Flags().IntVar(&watchYear, "year", 0, "Fixed forecast year (omit both to follow the current month)")
	watchCmd.Flags().IntVar(&watchMonth, "month", 0, "Fixed forecast month 1-12")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Refresh interval (defaults to config)")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "Stop after this many refreshes (0 runs until interrupted)")
}
