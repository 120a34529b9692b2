package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"pe-allocation/internal/config"
	"pe-allocation/internal/history"
	"pe-allocation/internal/hysteresis"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
}

// NewApp constructs a new application handle writing reports to stdout.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger(), Out: os.Stdout}
}

func (a *App) newEvaluator() (*hysteresis.Evaluator, error) {
	evaluator, err := hysteresis.NewEvaluator(a.Config.ModelOptions(), hysteresis.WithLogger(a.Logger))
	if err != nil {
		return nil, fmt.Errorf("build evaluator: %w", err)
	}
	return evaluator, nil
}

// loadEvaluator builds an evaluator and feeds it the configured history.
func (a *App) loadEvaluator() (*hysteresis.Evaluator, error) {
	evaluator, err := a.newEvaluator()
	if err != nil {
		return nil, err
	}

	samples, source, err := a.loadHistory()
	if err != nil {
		return nil, err
	}
	if err := evaluator.SetHistoricalData(samples); err != nil {
		return nil, fmt.Errorf("history from %s: %w", source, err)
	}

	series := evaluator.HistoricalData()
	a.Logger.Info().
		Str("source", source).
		Int("samples", series.Len()).
		Msg("historical data loaded")
	return evaluator, nil
}

func (a *App) loadHistory() ([]hysteresis.Sample, string, error) {
	if inline := a.Config.InlineSamples(); len(inline) > 0 {
		return inline, "config", nil
	}
	if a.Config.History.Path == "" {
		return nil, "", errors.New("no history configured; set history.path or history.samples")
	}
	samples, err := history.Load(a.Config.History.Path)
	if err != nil {
		return nil, "", err
	}
	return samples, a.Config.History.Path, nil
}

// EvaluateOptions describe a single allocation query.
type EvaluateOptions struct {
	Date  time.Time
	Value float64
}

// SimulateOptions bound the replayed window; nil means unbounded.
type SimulateOptions struct {
	From *time.Time
	To   *time.Time
}

// CurvesOptions override the report grid; nil fields fall back to config.
type CurvesOptions struct {
	From   *float64
	To     *float64
	Points *int
}

func (a *App) formatFloat(v float64) string {
	return formatDecimal(decimal.NewFromFloat(v), a.Config.Report.Precision)
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
