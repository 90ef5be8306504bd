package cli

import (
	"github.com/spf13/cobra"

	"ricecast/internal/app"
)

var (
	exportPNGPath   string
	exportCSVPath   string
	exportChartType string
	exportWindow    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export historical prices as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			ChartType: exportChartType,
			Window:    exportWindow,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data (full history)")
	exportCmd.Flags().StringVar(&exportChartType, "chart-type", "", "Chart type: line or area (defaults to config)")
	exportCmd.Flags().IntVar(&exportWindow, "window", 0, "Periods to chart (defaults to config)")
}
