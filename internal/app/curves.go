package app

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
)

// CurvePoint is one row of the curve table.
type CurvePoint struct {
	Signal  float64
	Rising  float64
	Falling float64
}

// Band is the width of the hysteresis loop at this signal.
func (p CurvePoint) Band() float64 {
	return p.Falling - p.Rising
}

// Curves prints both response curves sampled over an even grid.
func (a *App) Curves(ctx context.Context, opts CurvesOptions) error {
	from, to, points := a.Config.Report.CurveFrom, a.Config.Report.CurveTo, a.Config.Report.CurvePoints
	if opts.From != nil {
		from = *opts.From
	}
	if opts.To != nil {
		to = *opts.To
	}
	if opts.Points != nil {
		points = *opts.Points
	}
	if points < 2 {
		return errors.New("curve table needs at least two points")
	}
	if !(from < to) {
		return fmt.Errorf("curve range [%v, %v] is empty", from, to)
	}

	evaluator, err := a.newEvaluator()
	if err != nil {
		return err
	}

	table := sampleCurves(evaluator.RisingCurve().Evaluate, evaluator.FallingCurve().Evaluate, from, to, points)

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "P/E\tRising\tFalling\tBand")
	for _, p := range table {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", a.formatFloat(p.Signal), a.formatFloat(p.Rising), a.formatFloat(p.Falling), a.formatFloat(p.Band()))
	}
	return writer.Flush()
}

func sampleCurves(rising, falling func(float64) float64, from, to float64, points int) []CurvePoint {
	grid := floats.Span(make([]float64, points), from, to)
	out := make([]CurvePoint, len(grid))
	for i, x := range grid {
		out[i] = CurvePoint{Signal: x, Rising: rising(x), Falling: falling(x)}
	}
	return out
}
