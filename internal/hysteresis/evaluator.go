package hysteresis

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// Default model parameters.
const (
	DefaultSteepness   = 0.5
	DefaultMinValue    = 10.0
	DefaultMaxValue    = 90.0
	DefaultTrendWindow = 5
)

// Regime names the curve a query was answered from.
type Regime string

const (
	RegimeRising  Regime = "rising"
	RegimeFalling Regime = "falling"
)

// Branch identifies which path of the evaluation produced a value.
type Branch string

const (
	// BranchRisingContinue: upward trend, signal at or above the anchor.
	BranchRisingContinue Branch = "rising-continue"
	// BranchRisingCrossover: upward trend, signal fell past the falling curve's crossover.
	BranchRisingCrossover Branch = "rising-crossover"
	// BranchRisingHold: upward trend, signal dipped but has not crossed yet.
	BranchRisingHold Branch = "rising-hold"
	// BranchFallingContinue: flat or downward trend, signal at or below the anchor.
	BranchFallingContinue Branch = "falling-continue"
	// BranchFallingCrossover: flat or downward trend, signal rose past the rising curve's crossover.
	BranchFallingCrossover Branch = "falling-crossover"
	// BranchFallingHold: flat or downward trend, signal rose but has not crossed yet.
	BranchFallingHold Branch = "falling-hold"
)

// Options configures an Evaluator. TrendWindow counts the samples preceding
// the anchor, so the slope is fitted over TrendWindow+1 points.
type Options struct {
	RisingMidpoint  float64
	FallingMidpoint float64
	Steepness       float64
	MinValue        float64
	MaxValue        float64
	TrendWindow     int
}

// DefaultOptions returns options with the stock steepness, bounds and window.
func DefaultOptions(risingMidpoint, fallingMidpoint float64) Options {
	return Options{
		RisingMidpoint:  risingMidpoint,
		FallingMidpoint: fallingMidpoint,
		Steepness:       DefaultSteepness,
		MinValue:        DefaultMinValue,
		MaxValue:        DefaultMaxValue,
		TrendWindow:     DefaultTrendWindow,
	}
}

// Option customises an Evaluator.
type Option func(*Evaluator)

// WithLogger attaches a logger for branch decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger.With().Str("component", "hysteresis").Logger()
	}
}

// Evaluator picks between a rising and a falling curve based on the recent
// trend of the stored series.
type Evaluator struct {
	rising      Curve
	falling     Curve
	trendWindow int
	series      atomic.Pointer[Series]
	logger      zerolog.Logger
}

// Evaluation records how a query was answered.
type Evaluation struct {
	Date        time.Time
	Signal      float64
	AnchorDate  time.Time
	AnchorValue float64
	Slope       float64
	Intercept   float64
	Regime      Regime
	Branch      Branch
	// Crossover is the signal level on the other curve matching the anchor
	// reading. Zero unless the branch needed it; infinite when the anchor
	// reading saturated at a bound.
	Crossover float64
	Value     float64
}

// NewEvaluator builds both curves from opts.
func NewEvaluator(opts Options, options ...Option) (*Evaluator, error) {
	if opts.TrendWindow < 1 {
		return nil, fmt.Errorf("trend window must be at least 1, got %d", opts.TrendWindow)
	}

	rising, err := NewCurve(opts.RisingMidpoint, opts.Steepness, opts.MinValue, opts.MaxValue)
	if err != nil {
		return nil, fmt.Errorf("rising curve: %w", err)
	}
	falling, err := NewCurve(opts.FallingMidpoint, opts.Steepness, opts.MinValue, opts.MaxValue)
	if err != nil {
		return nil, fmt.Errorf("falling curve: %w", err)
	}

	e := &Evaluator{
		rising:      rising,
		falling:     falling,
		trendWindow: opts.TrendWindow,
		logger:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e, nil
}

// RisingCurve returns the curve used while the signal trends up.
func (e *Evaluator) RisingCurve() Curve { return e.rising }

// FallingCurve returns the curve used while the signal trends flat or down.
func (e *Evaluator) FallingCurve() Curve { return e.falling }

// TrendWindow returns the number of samples preceding the anchor in a fit.
func (e *Evaluator) TrendWindow() int { return e.trendWindow }

// SetHistoricalData validates and stores a new series. The previous series
// stays in place if validation fails.
func (e *Evaluator) SetHistoricalData(samples []Sample) error {
	series, err := NewSeries(samples)
	if err != nil {
		return err
	}
	e.series.Store(series)
	e.logger.Debug().Int("samples", series.Len()).Msg("historical data replaced")
	return nil
}

// HistoricalData returns the stored series, or nil if none was set.
func (e *Evaluator) HistoricalData() *Series {
	return e.series.Load()
}

// SeasonalRegime is the month-based fallback: rising from June onwards,
// falling before.
func (e *Evaluator) SeasonalRegime(date time.Time) Regime {
	if date.Month() >= time.June {
		return RegimeRising
	}
	return RegimeFalling
}

// SelectCurveForMonth returns the curve of SeasonalRegime.
func (e *Evaluator) SelectCurveForMonth(date time.Time) Curve {
	if e.SeasonalRegime(date) == RegimeRising {
		return e.rising
	}
	return e.falling
}

// EvaluateNonStockFraction returns the non-stock allocation for signal
// observed at date.
func (e *Evaluator) EvaluateNonStockFraction(date time.Time, signal float64) (float64, error) {
	ev, err := e.Explain(date, signal)
	if err != nil {
		return 0, err
	}
	return ev.Value, nil
}

// Explain runs the evaluation and returns the full decision record.
func (e *Evaluator) Explain(date time.Time, signal float64) (Evaluation, error) {
	series := e.series.Load()
	if series == nil {
		return Evaluation{}, ErrNoHistory
	}

	monthBegin := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	idx, ok := series.IndexOf(monthBegin)
	if !ok {
		return Evaluation{}, &LookupError{Date: monthBegin}
	}
	// A query on the boundary itself is anchored on the previous month.
	if date.Equal(monthBegin) {
		idx--
	}

	start := idx - e.trendWindow
	if start < 0 {
		anchor := monthBegin
		if idx >= 0 {
			anchor = series.At(idx).Date
		}
		return Evaluation{}, &InsufficientDataError{Anchor: anchor, Index: idx, Need: e.trendWindow + 1}
	}

	intercept, slope := fitTrend(series.Values(start, idx))
	anchor := series.At(idx)

	ev := Evaluation{
		Date:        date,
		Signal:      signal,
		AnchorDate:  anchor.Date,
		AnchorValue: anchor.Value,
		Slope:       slope,
		Intercept:   intercept,
	}

	var err error
	if slope > 0 {
		err = e.evaluateRising(&ev)
	} else {
		err = e.evaluateFalling(&ev)
	}
	if err != nil {
		return Evaluation{}, err
	}

	e.logger.Debug().
		Time("date", date).
		Float64("signal", signal).
		Float64("anchor", anchor.Value).
		Float64("slope", slope).
		Str("branch", string(ev.Branch)).
		Float64("value", ev.Value).
		Msg("evaluated non-stock fraction")

	return ev, nil
}

func (e *Evaluator) evaluateRising(ev *Evaluation) error {
	if ev.Signal >= ev.AnchorValue {
		ev.Regime, ev.Branch = RegimeRising, BranchRisingContinue
		ev.Value = e.rising.Evaluate(ev.Signal)
		return nil
	}

	held := e.rising.Evaluate(ev.AnchorValue)
	crossover, err := crossoverOn(e.falling, held)
	if err != nil {
		return fmt.Errorf("falling crossover for anchor %v: %w", ev.AnchorValue, err)
	}
	ev.Crossover = crossover

	if crossover > ev.Signal {
		ev.Regime, ev.Branch = RegimeFalling, BranchRisingCrossover
		ev.Value = e.falling.Evaluate(ev.Signal)
		return nil
	}
	ev.Regime, ev.Branch = RegimeRising, BranchRisingHold
	ev.Value = held
	return nil
}

// evaluateFalling mirrors evaluateRising with the curves swapped. Flat
// trends are treated as falling.
func (e *Evaluator) evaluateFalling(ev *Evaluation) error {
	if ev.Signal <= ev.AnchorValue {
		ev.Regime, ev.Branch = RegimeFalling, BranchFallingContinue
		ev.Value = e.falling.Evaluate(ev.Signal)
		return nil
	}

	held := e.falling.Evaluate(ev.AnchorValue)
	crossover, err := crossoverOn(e.rising, held)
	if err != nil {
		return fmt.Errorf("rising crossover for anchor %v: %w", ev.AnchorValue, err)
	}
	ev.Crossover = crossover

	if crossover < ev.Signal {
		ev.Regime, ev.Branch = RegimeRising, BranchFallingCrossover
		ev.Value = e.rising.Evaluate(ev.Signal)
		return nil
	}
	ev.Regime, ev.Branch = RegimeFalling, BranchFallingHold
	ev.Value = held
	return nil
}

// crossoverOn returns the signal at which c outputs y. Readings saturated
// at a bound map to the matching infinity, the limit of Invert there.
func crossoverOn(c Curve, y float64) (float64, error) {
	switch {
	case y >= c.MaxValue:
		return math.Inf(1), nil
	case y <= c.MinValue:
		return math.Inf(-1), nil
	}
	return c.Invert(y)
}

// fitTrend fits values against their positions 0..n-1 by least squares.
func fitTrend(values []float64) (intercept, slope float64) {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	return stat.LinearRegression(xs, values, nil, false)
}
