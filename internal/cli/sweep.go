package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ricecast/internal/app"
	"ricecast/internal/pricing"
)

var (
	sweepFrom    string
	sweepTo      string
	sweepWorkers int
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Forecast every month in a range",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepFrom == "" || sweepTo == "" {
			return fmt.Errorf("--from and --to must be provided")
		}

		from, err := pricing.ParsePeriod(sweepFrom)
		if err != nil {
			return fmt.Errorf("invalid --from value: %w", err)
		}

		to, err := pricing.ParsePeriod(sweepTo)
		if err != nil {
			return fmt.Errorf("invalid --to value: %w", err)
		}

		opts := app.SweepOptions{
			From:    from,
			To:      to,
			Workers: sweepWorkers,
		}

		return getApp().Sweep(cmd.Context(), opts)
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "First month (YYYY-MM, inclusive)")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "Last month (YYYY-MM, inclusive)")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 2, "Number of concurrent requests")
}
