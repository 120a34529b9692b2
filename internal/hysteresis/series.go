package hysteresis

import (
	"math"
	"sort"
	"time"
)

// Sample is a single dated observation of the valuation signal.
type Sample struct {
	Date  time.Time
	Value float64
}

// Series is an immutable, date-ordered run of samples.
type Series struct {
	samples []Sample
}

// NewSeries validates samples and returns them sorted ascending by date.
// Input order is irrelevant; samples sharing a timestamp are rejected.
func NewSeries(samples []Sample) (*Series, error) {
	sorted := make([]Sample, len(samples))
	for i, s := range samples {
		switch {
		case s.Date.IsZero():
			return nil, &ValidationError{Index: i, Sample: s, Reason: "missing timestamp"}
		case math.IsNaN(s.Value) || math.IsInf(s.Value, 0):
			return nil, &ValidationError{Index: i, Sample: s, Reason: "value is not a finite number"}
		}
		sorted[i] = s
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Date.Equal(sorted[i-1].Date) {
			return nil, &ValidationError{Index: inputIndex(samples, sorted[i]), Sample: sorted[i], Reason: "duplicate timestamp"}
		}
	}

	return &Series{samples: sorted}, nil
}

// inputIndex finds the last input position holding s, which is the
// entry the stable sort placed second.
func inputIndex(samples []Sample, s Sample) int {
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Date.Equal(s.Date) && samples[i].Value == s.Value {
			return i
		}
	}
	return -1
}

// Len returns the number of samples.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.samples)
}

// At returns the i-th sample in date order.
func (s *Series) At(i int) Sample {
	return s.samples[i]
}

// Samples returns a copy of the ordered samples.
func (s *Series) Samples() []Sample {
	if s == nil {
		return nil
	}
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// IndexOf returns the index of the sample dated exactly t.
func (s *Series) IndexOf(t time.Time) (int, bool) {
	if s == nil {
		return -1, false
	}
	i := sort.Search(len(s.samples), func(i int) bool {
		return !s.samples[i].Date.Before(t)
	})
	if i < len(s.samples) && s.samples[i].Date.Equal(t) {
		return i, true
	}
	return -1, false
}

// Values returns the signal values for indices [from, to].
func (s *Series) Values(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, s.samples[i].Value)
	}
	return out
}
