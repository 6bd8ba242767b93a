// Package ring implements the circular progress indicator: a state holder,
// the pure arc/label math and a terminal rasterizer for the resulting
// drawing commands.
package ring

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Sentinel errors for indicator mutations.
var (
	ErrDegenerateRange = errors.New("range end must be greater than start")
	ErrInvalidValue    = errors.New("value must be a finite number")
)

// State is the data the indicator renders.
type State struct {
	Start float64
	End   float64
	Value float64
}

// Indicator holds a ProgressRange and records when it needs repainting.
// It is owned by a single goroutine.
type Indicator struct {
	state State
	dirty bool
}

// New creates an indicator over [start, end] showing value.
func New(start, end, value float64) (*Indicator, error) {
	ind := &Indicator{}
	if err := ind.SetRange(start, end); err != nil {
		return nil, err
	}
	if err := ind.SetValue(value); err != nil {
		return nil, err
	}
	return ind, nil
}

// SetRange replaces both bounds. A range with end <= start is rejected and
// the previous range is kept.
func (i *Indicator) SetRange(start, end float64) error {
	if !finite(start) || !finite(end) || end <= start {
		return fmt.Errorf("%w: [%v, %v]", ErrDegenerateRange, start, end)
	}
	i.state.Start = start
	i.state.End = end
	i.dirty = true
	return nil
}

// SetValue updates the current value. Values outside the range are accepted
// as-is.
func (i *Indicator) SetValue(v float64) error {
	if !finite(v) {
		return fmt.Errorf("%w: %v", ErrInvalidValue, v)
	}
	i.state.Value = v
	i.dirty = true
	return nil
}

// State returns a copy of the current state.
func (i *Indicator) State() State { return i.state }

// Dirty reports whether a mutation happened since the last ClearDirty.
func (i *Indicator) Dirty() bool { return i.dirty }

// ClearDirty marks the current state as painted.
func (i *Indicator) ClearDirty() { i.dirty = false }

// Fraction is (value - start) / (end - start).
func Fraction(s State) float64 {
	span := s.End - s.Start
	if span <= 0 {
		return 0
	}
	return (s.Value - s.Start) / span
}

// SweepAngle returns the arc extent in degrees. Negative values sweep
// clockwise from StartAngle.
func SweepAngle(s State) float64 {
	sweep := -Fraction(s) * FullAngle
	if sweep == 0 {
		// avoid -0
		return 0
	}
	return sweep
}

// Label renders "value / end" with both numbers rounded to two decimals.
func Label(s State) string {
	return formatRounded(s.Value) + " / " + formatRounded(s.End)
}

func formatRounded(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
