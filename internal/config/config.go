package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"pe-allocation/internal/hysteresis"
	"pe-allocation/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App     AppConfig      `mapstructure:"app"`
	Logging logging.Config `mapstructure:"logging"`
	Model   ModelConfig    `mapstructure:"model"`
	History HistoryConfig  `mapstructure:"history"`
	Report  ReportConfig   `mapstructure:"report"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ModelConfig holds the hysteresis curve parameters.
type ModelConfig struct {
	RisingMidpoint  float64 `mapstructure:"rising_midpoint"`
	FallingMidpoint float64 `mapstructure:"falling_midpoint"`
	Steepness       float64 `mapstructure:"steepness" validate:"gt=0"`
	MinValue        float64 `mapstructure:"min_value"`
	MaxValue        float64 `mapstructure:"max_value" validate:"gtfield=MinValue"`
	TrendWindow     int     `mapstructure:"trend_window" validate:"gte=1"`
}

// HistoryConfig points at the P/E history, either a file or inline samples.
type HistoryConfig struct {
	Path    string         `mapstructure:"path"`
	Samples []SampleConfig `mapstructure:"samples" validate:"dive"`
}

// SampleConfig is one inline history entry.
type SampleConfig struct {
	Date  time.Time `mapstructure:"date" validate:"required"`
	Value float64   `mapstructure:"value"`
}

// ReportConfig tunes CLI table output.
type ReportConfig struct {
	Precision   int32   `mapstructure:"precision" validate:"gte=0,lte=8"`
	CurveFrom   float64 `mapstructure:"curve_from"`
	CurveTo     float64 `mapstructure:"curve_to" validate:"gtfield=CurveFrom"`
	CurvePoints int     `mapstructure:"curve_points" validate:"gte=2"`
}

var validate = validator.New()

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PEALLOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pe-allocation")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("model.rising_midpoint", 29.0)
	v.SetDefault("model.falling_midpoint", 21.0)
	v.SetDefault("model.steepness", hysteresis.DefaultSteepness)
	v.SetDefault("model.min_value", hysteresis.DefaultMinValue)
	v.SetDefault("model.max_value", hysteresis.DefaultMaxValue)
	v.SetDefault("model.trend_window", hysteresis.DefaultTrendWindow)

	v.SetDefault("history.path", "data/pe_ratio_hist.json")

	v.SetDefault("report.precision", 2)
	v.SetDefault("report.curve_from", 10.0)
	v.SetDefault("report.curve_to", 40.0)
	v.SetDefault("report.curve_points", 13)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc("2006-01-02"),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs sanity checks on the configuration values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

// ModelOptions converts the model section into evaluator options.
func (c *Config) ModelOptions() hysteresis.Options {
	return hysteresis.Options{
		RisingMidpoint:  c.Model.RisingMidpoint,
		FallingMidpoint: c.Model.FallingMidpoint,
		Steepness:       c.Model.Steepness,
		MinValue:        c.Model.MinValue,
		MaxValue:        c.Model.MaxValue,
		TrendWindow:     c.Model.TrendWindow,
	}
}

// InlineSamples returns the samples listed directly in the config.
func (c *Config) InlineSamples() []hysteresis.Sample {
	if len(c.History.Samples) == 0 {
		return nil
	}
	out := make([]hysteresis.Sample, len(c.History.Samples))
	for i, s := range c.History.Samples {
		out[i] = hysteresis.Sample{Date: s.Date.UTC(), Value: s.Value}
	}
	return out
}
