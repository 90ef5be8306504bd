package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ricecast/internal/app"
)

var historicalLimit int

var historicalCmd = &cobra.Command{
	Use:   "historical",
	Short: "Display the merged historical price series",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historicalLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		return getApp().Historical(cmd.Context(), app.HistoricalOptions{Limit: historicalLimit})
	},
}

func init() {
	historicalCmd.Flags().IntVar(&historicalLimit, "limit", 0, "Number of most recent periods to display (0 for all)")
}
