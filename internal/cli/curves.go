package cli

import (
	"github.com/spf13/cobra"

	"pe-allocation/internal/app"
)

var (
	curvesFrom   float64
	curvesTo     float64
	curvesPoints int
)

var curvesCmd = &cobra.Command{
	Use:   "curves",
	Short: "Tabulate the rising and falling response curves",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts app.CurvesOptions
		flags := cmd.Flags()
		if flags.Changed("from") {
			opts.From = &curvesFrom
		}
		if flags.Changed("to") {
			opts.To = &curvesTo
		}
		if flags.Changed("points") {
			opts.Points = &curvesPoints
		}
		return getApp().Curves(cmd.Context(), opts)
	},
}

func init() {
	curvesCmd.Flags().Float64Var(&curvesFrom, "from", 0, "Lowest P/E in the table (defaults to config)")
	curvesCmd.Flags().Float64Var(&curvesTo, "to", 0, "Highest P/E in the table (defaults to config)")
	curvesCmd.Flags().IntVar(&curvesPoints, "points", 0, "Number of rows (defaults to config)")
}
