package hysteresis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCurve(t *testing.T, midpoint float64) Curve {
	t.Helper()
	c, err := NewCurve(midpoint, 0.5, 10, 90)
	require.NoError(t, err)
	return c
}

func TestCurveEvaluateScenario(t *testing.T) {
	c := testCurve(t, 29)

	assert.Equal(t, 50.0, c.Evaluate(29))
	assert.Greater(t, c.Evaluate(100), 89.9)
	assert.Less(t, c.Evaluate(-100), 10.1)
	assert.GreaterOrEqual(t, c.Evaluate(-100), 10.0)
}

func TestCurveBoundedAndMonotonic(t *testing.T) {
	c := testCurve(t, 21)

	prev := c.Evaluate(-20)
	for x := -19.5; x <= 60; x += 0.5 {
		y := c.Evaluate(x)
		assert.Greater(t, y, c.MinValue, "x=%v", x)
		assert.Less(t, y, c.MaxValue, "x=%v", x)
		assert.Greater(t, y, prev, "x=%v", x)
		prev = y
	}
}

func TestCurveInvertRoundTrip(t *testing.T) {
	c := testCurve(t, 29)

	for _, y := range []float64{10.001, 11, 19.5, 50, 72.25, 89.999} {
		x, err := c.Invert(y)
		require.NoError(t, err, "y=%v", y)
		assert.InDelta(t, y, c.Evaluate(x), 1e-9, "y=%v", y)
	}
}

func TestCurveInvertOutsideRange(t *testing.T) {
	c := testCurve(t, 29)

	for _, y := range []float64{10, 9, 90, 120, math.NaN(), math.Inf(1)} {
		_, err := c.Invert(y)
		var domainErr *DomainError
		require.True(t, errors.As(err, &domainErr), "y=%v", y)
		assert.Equal(t, 10.0, domainErr.Min)
		assert.Equal(t, 90.0, domainErr.Max)
	}
}

func TestNewCurveRejectsBadParameters(t *testing.T) {
	cases := []struct {
		name               string
		mid, k, minV, maxV float64
	}{
		{"zero steepness", 29, 0, 10, 90},
		{"negative steepness", 29, -0.5, 10, 90},
		{"inverted bounds", 29, 0.5, 90, 10},
		{"equal bounds", 29, 0.5, 50, 50},
		{"nan midpoint", math.NaN(), 0.5, 10, 90},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCurve(tc.mid, tc.k, tc.minV, tc.maxV)
			assert.ErrorIs(t, err, ErrInvalidCurve)
		})
	}
}
