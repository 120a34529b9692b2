package hysteresis

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoHistory is returned when an evaluation needs history but none was set.
	ErrNoHistory = errors.New("historical data not set")
	// ErrInvalidCurve reports unusable curve parameters.
	ErrInvalidCurve = errors.New("invalid curve parameters")
)

// ValidationError describes a malformed historical sample.
type ValidationError struct {
	Index  int
	Sample Sample
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid sample #%d (%s, %v): %s", e.Index, e.Sample.Date.Format(time.RFC3339), e.Sample.Value, e.Reason)
}

// LookupError is returned when a month boundary is missing from the series.
type LookupError struct {
	Date time.Time
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no sample dated %s in historical data", e.Date.Format(time.RFC3339))
}

// InsufficientDataError is returned when the trend window reaches before
// the first stored sample.
type InsufficientDataError struct {
	Anchor time.Time
	Index  int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need %d samples ending at %s, only %d available", e.Need, e.Anchor.Format("2006-01-02"), e.Index+1)
}

// DomainError is returned when a curve is inverted outside its open range.
type DomainError struct {
	Value float64
	Min   float64
	Max   float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("cannot invert %v: outside (%v, %v)", e.Value, e.Min, e.Max)
}
