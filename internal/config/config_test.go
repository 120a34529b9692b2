package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  environment: test\n"))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, 29.0, cfg.Model.RisingMidpoint)
	assert.Equal(t, 21.0, cfg.Model.FallingMidpoint)
	assert.Equal(t, 0.5, cfg.Model.Steepness)
	assert.Equal(t, 10.0, cfg.Model.MinValue)
	assert.Equal(t, 90.0, cfg.Model.MaxValue)
	assert.Equal(t, 5, cfg.Model.TrendWindow)
	assert.Equal(t, int32(2), cfg.Report.Precision)
	assert.Equal(t, 13, cfg.Report.CurvePoints)

	opts := cfg.ModelOptions()
	assert.Equal(t, 5, opts.TrendWindow)
	assert.Nil(t, cfg.InlineSamples())
}

func TestLoadInlineSamples(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
model:
  rising_midpoint: 30
  falling_midpoint: 20
  min_value: 0
  max_value: 100
history:
  samples:
    - date: 2024-02-01
      value: 25.5
    - date: "2024-01-01"
      value: 24
`))
	require.NoError(t, err)

	assert.Equal(t, 0.0, cfg.Model.MinValue)
	assert.Equal(t, 100.0, cfg.Model.MaxValue)

	samples := cfg.InlineSamples()
	require.Len(t, samples, 2)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), samples[0].Date)
	assert.Equal(t, 25.5, samples[0].Value)
	assert.Equal(t, 24.0, samples[1].Value)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PEALLOC_MODEL_TREND_WINDOW", "8")

	cfg, err := Load(writeConfig(t, "app:\n  name: env\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Model.TrendWindow)
}

func TestLoadRejectsInvalidModel(t *testing.T) {
	cases := map[string]string{
		"bounds":    "model:\n  min_value: 90\n  max_value: 10\n",
		"steepness": "model:\n  steepness: 0\n",
		"window":    "model:\n  trend_window: 0\n",
		"curve":     "report:\n  curve_from: 40\n  curve_to: 10\n",
		"format":    "logging:\n  format: xml\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
