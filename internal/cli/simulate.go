package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pe-allocation/internal/app"
	"pe-allocation/internal/history"
)

var (
	simulateFrom string
	simulateTo   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay the P/E history through the hysteresis model",
	RunE: func(cmd *cobra.Command, args []string) error {
		var opts app.SimulateOptions

		if simulateFrom != "" {
			from, err := history.ParseDate(simulateFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = &from
		}

		if simulateTo != "" {
			to, err := history.ParseDate(simulateTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = &to
		}

		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateFrom, "from", "", "Start date (inclusive)")
	simulateCmd.Flags().StringVar(&simulateTo, "to", "", "End date (exclusive)")
}
