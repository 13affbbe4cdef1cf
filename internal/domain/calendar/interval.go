package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInterval is returned for any interval whose end is not after its start.
var ErrInvalidInterval = errors.New("invalid_interval")

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (i Interval) Validate() error {
	if !i.End.After(i.Start) {
		return fmt.Errorf("%w: [%s, %s)", ErrInvalidInterval,
			i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
	}
	return nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Fits reports whether a range of length d starting at t stays inside i.
func (i Interval) Fits(t time.Time, d time.Duration) bool {
	return !t.Before(i.Start) && !t.Add(d).After(i.End)
}

// Subtract removes cut from base. The result has zero intervals when cut covers
// base, two when cut is strictly inside it and one otherwise.
func Subtract(base, cut Interval) ([]Interval, error) {
	if err := base.Validate(); err != nil {
		return nil, err
	}
	if err := cut.Validate(); err != nil {
		return nil, err
	}

	if !base.Start.Before(cut.End) || !cut.Start.Before(base.End) {
		return []Interval{base}, nil
	}

	out := make([]Interval, 0, 2)
	if base.Start.Before(cut.Start) {
		out = append(out, Interval{Start: base.Start, End: cut.Start})
	}
	if cut.End.Before(base.End) {
		out = append(out, Interval{Start: cut.End, End: base.End})
	}
	return out, nil
}

// SubtractAll removes cut from every interval in free, keeping order.
func SubtractAll(free []Interval, cut Interval) ([]Interval, error) {
	out := make([]Interval, 0, len(free)+1)
	for _, iv := range free {
		rest, err := Subtract(iv, cut)
		if err != nil {
			return nil, err
		}
		out = append(out, rest...)
	}
	return out, nil
}

// Overlaps reports whether a and b share any instant. Intervals that only
// touch (a.End == b.Start) do not overlap.
func Overlaps(a, b Interval) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if err := b.Validate(); err != nil {
		return false, err
	}
	return a.Start.Before(b.End) && b.Start.Before(a.End), nil
}
