package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pe-allocation/internal/app"
	"pe-allocation/internal/history"
)

var (
	evaluateDate  string
	evaluateValue float64
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Compute the non-stock allocation for a P/E reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if evaluateDate != "" {
			parsed, err := history.ParseDate(evaluateDate)
			if err != nil {
				return fmt.Errorf("invalid --date value: %w", err)
			}
			date = parsed
		}
		if evaluateValue <= 0 {
			return fmt.Errorf("--value must be greater than zero")
		}

		return getApp().Evaluate(cmd.Context(), app.EvaluateOptions{Date: date, Value: evaluateValue})
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateDate, "date", "", "Observation date (YYYY-MM-DD, defaults to today)")
	evaluateCmd.Flags().Float64Var(&evaluateValue, "value", 0, "Current P/E ratio")
}
