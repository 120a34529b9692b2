package hysteresis

import (
	"fmt"
	"math"
)

// Curve is a logistic response curve bounded by (MinValue, MaxValue).
type Curve struct {
	Midpoint  float64
	Steepness float64
	MinValue  float64
	MaxValue  float64
}

// NewCurve validates the parameters and returns a curve.
func NewCurve(midpoint, steepness, minValue, maxValue float64) (Curve, error) {
	for _, v := range []float64{midpoint, steepness, minValue, maxValue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Curve{}, fmt.Errorf("%w: parameters must be finite", ErrInvalidCurve)
		}
	}
	if steepness <= 0 {
		return Curve{}, fmt.Errorf("%w: steepness %v must be positive", ErrInvalidCurve, steepness)
	}
	if minValue >= maxValue {
		return Curve{}, fmt.Errorf("%w: min %v must be below max %v", ErrInvalidCurve, minValue, maxValue)
	}
	return Curve{Midpoint: midpoint, Steepness: steepness, MinValue: minValue, MaxValue: maxValue}, nil
}

// Evaluate maps a signal value onto the curve.
func (c Curve) Evaluate(x float64) float64 {
	return c.MinValue + (c.MaxValue-c.MinValue)/(1+math.Exp(-c.Steepness*(x-c.Midpoint)))
}

// Invert returns the signal value at which the curve outputs y.
func (c Curve) Invert(y float64) (float64, error) {
	if !(y > c.MinValue && y < c.MaxValue) {
		return 0, &DomainError{Value: y, Min: c.MinValue, Max: c.MaxValue}
	}
	arg := (c.MaxValue-c.MinValue)/(y-c.MinValue) - 1
	if arg <= 0 {
		return 0, &DomainError{Value: y, Min: c.MinValue, Max: c.MaxValue}
	}
	return c.Midpoint - math.Log(arg)/c.Steepness, nil
}

// Contains reports whether y lies strictly inside the curve's output range.
func (c Curve) Contains(y float64) bool {
	return y > c.MinValue && y < c.MaxValue
}
