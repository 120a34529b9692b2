package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"pe-allocation/internal/hysteresis"
)

// SimulationRow is one replayed sample.
type SimulationRow struct {
	Sample     hysteresis.Sample
	Evaluation hysteresis.Evaluation
}

// Simulate replays the stored history: each sample is evaluated at its own
// date with its own value, tracing the allocation the model would have
// recommended at the time.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	evaluator, err := a.loadEvaluator()
	if err != nil {
		return err
	}

	rows, skipped, err := replay(ctx, evaluator, opts)
	if err != nil {
		return err
	}
	a.Logger.Info().Int("rows", len(rows)).Int("skipped", skipped).Msg("simulation complete")

	if len(rows) == 0 {
		_, err := fmt.Fprintln(a.Out, "no samples with enough history to evaluate")
		return err
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tP/E\tAnchor\tSlope\tBranch\tNon-stock%")
	for _, row := range rows {
		ev := row.Evaluation
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Sample.Date.Format("2006-01-02"),
			a.formatFloat(row.Sample.Value),
			a.formatFloat(ev.AnchorValue),
			formatSlope(ev.Slope),
			ev.Branch,
			a.formatFloat(ev.Value),
		)
	}
	return writer.Flush()
}

// replay evaluates every sample inside the window. Samples lacking history
// or a month-start anchor are counted as skipped.
func replay(ctx context.Context, evaluator *hysteresis.Evaluator, opts SimulateOptions) ([]SimulationRow, int, error) {
	series := evaluator.HistoricalData()
	if series == nil {
		return nil, 0, hysteresis.ErrNoHistory
	}

	var (
		rows    []SimulationRow
		skipped int
	)
	for i := 0; i < series.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		sample := series.At(i)
		if opts.From != nil && sample.Date.Before(*opts.From) {
			continue
		}
		if opts.To != nil && !sample.Date.Before(*opts.To) {
			break
		}

		ev, err := evaluator.Explain(sample.Date, sample.Value)
		if err != nil {
			var insufficient *hysteresis.InsufficientDataError
			var lookup *hysteresis.LookupError
			if errors.As(err, &insufficient) || errors.As(err, &lookup) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("evaluate %s: %w", sample.Date.Format("2006-01-02"), err)
		}
		rows = append(rows, SimulationRow{Sample: sample, Evaluation: ev})
	}
	return rows, skipped, nil
}
