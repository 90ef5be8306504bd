package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"ricecast/internal/app"
)

var (
	deltaEstimated string
	deltaPrevious  string
)

var deltaCmd = &cobra.Command{
	Use:   "delta",
	Short: "Compute the change between an estimated and a previous price",
	RunE: func(cmd *cobra.Command, args []string) error {
		estimated, err := decimal.NewFromString(deltaEstimated)
		if err != nil {
			return fmt.Errorf("invalid --estimated value: %w", err)
		}

		previous, err := decimal.NewFromString(deltaPrevious)
		if err != nil {
			return fmt.Errorf("invalid --previous value: %w", err)
		}

		return getApp().Delta(app.DeltaOptions{Estimated: estimated, Previous: previous})
	},
}

func init() {
	deltaCmd.Flags().StringVar(&deltaEstimated, "estimated", "", "Estimated price")
	deltaCmd.Flags().StringVar(&deltaPrevious, "previous", "", "Previous price")
	_ = deltaCmd.MarkFlagRequired("estimated")
	_ = deltaCmd.MarkFlagRequired("previous")
}
