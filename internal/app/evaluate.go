package app

import (
	"context"
	"fmt"
	"math"
	"text/tabwriter"
	"time"
)

// Evaluate prints the non-stock allocation for one query with the decision
// that produced it.
func (a *App) Evaluate(ctx context.Context, opts EvaluateOptions) error {
	evaluator, err := a.loadEvaluator()
	if err != nil {
		return err
	}

	ev, err := evaluator.Explain(opts.Date, opts.Value)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Date\t%s\n", ev.Date.Format("2006-01-02"))
	fmt.Fprintf(writer, "Signal\t%s\n", a.formatFloat(ev.Signal))
	fmt.Fprintf(writer, "Anchor\t%s @ %s\n", a.formatFloat(ev.AnchorValue), ev.AnchorDate.Format("2006-01-02"))
	fmt.Fprintf(writer, "Slope\t%s\n", formatSlope(ev.Slope))
	fmt.Fprintf(writer, "Branch\t%s\n", ev.Branch)
	if ev.Crossover != 0 {
		fmt.Fprintf(writer, "Crossover\t%s\n", a.formatSignal(ev.Crossover))
	}
	fmt.Fprintf(writer, "Non-stock %%\t%s\n", a.formatFloat(ev.Value))
	return writer.Flush()
}

// Season prints the curve the month-based fallback selects for date.
func (a *App) Season(ctx context.Context, date time.Time) error {
	evaluator, err := a.newEvaluator()
	if err != nil {
		return err
	}

	regime := evaluator.SeasonalRegime(date)
	curve := evaluator.SelectCurveForMonth(date)
	_, err = fmt.Fprintf(a.Out, "%s: %s curve (midpoint %s)\n", date.Format("2006-01"), regime, a.formatFloat(curve.Midpoint))
	return err
}

// formatSignal also covers the infinite crossover of a saturated anchor.
func (a *App) formatSignal(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return a.formatFloat(v)
}

func formatSlope(v float64) string {
	return fmt.Sprintf("%+.4f", v)
}
