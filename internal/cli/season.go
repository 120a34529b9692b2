package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pe-allocation/internal/history"
)

var seasonDate string

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show which curve the month-based fallback selects",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().UTC()
		if seasonDate != "" {
			parsed, err := history.ParseDate(seasonDate)
			if err != nil {
				return fmt.Errorf("invalid --date value: %w", err)
			}
			date = parsed
		}
		return getApp().Season(cmd.Context(), date)
	},
}

func init() {
	seasonCmd.Flags().StringVar(&seasonDate, "date", "", "Date to classify (defaults to today)")
}
