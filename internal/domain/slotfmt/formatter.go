package slotfmt

import (
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

var ErrOutOfDay = errors.New("time_outside_day")

type Layout string

const (
	Layout24h Layout = "15:04"
	Layout12h Layout = "3:04 PM"
)

func ParseLayout(s string) (Layout, error) {
	switch s {
	case "", "24h":
		return Layout24h, nil
	case "12h":
		return Layout12h, nil
	}
	return "", fmt.Errorf("unknown slot layout %q", s)
}

// Slot is a start time ready for display.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Label string `json:"label"`
}

// Formatter renders engine output in the shop timezone. When Step is set,
// only start times lying on the Step grid (counted from midnight) are shown.
type Formatter struct {
	Location *time.Location
	Layout   Layout
	Step     time.Duration
}

func (f Formatter) layout() string {
	if f.Layout == "" {
		return string(Layout24h)
	}
	return string(f.Layout)
}

func (f Formatter) location() *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}

// FormatClock renders a time of day. 24:00 and anything outside [00:00, 24:00) fails.
func (f Formatter) FormatClock(c calendar.Clock) (string, error) {
	if c < 0 || c >= calendar.MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrOutOfDay, int(c))
	}
	ref := time.Date(2000, 1, 1, c.Hour(), c.Minute(), 0, 0, time.UTC)
	return ref.Format(f.layout()), nil
}

func (f Formatter) Format(t time.Time) (string, error) {
	return f.FormatClock(calendar.ClockOf(t, f.location()))
}

// Snap rounds c to the nearest multiple of step; ties go up. A result that
// would reach 24:00 stays on the last boundary inside the day.
func Snap(c calendar.Clock, step time.Duration) (calendar.Clock, error) {
	if c < 0 || c >= calendar.MinutesPerDay {
		return 0, fmt.Errorf("%w: %d minutes", ErrOutOfDay, int(c))
	}
	s := int(step / time.Minute)
	if s <= 0 {
		return c, nil
	}
	down := int(c) - int(c)%s
	if (int(c)%s)*2 >= s && down+s < calendar.MinutesPerDay {
		down += s
	}
	return calendar.Clock(down), nil
}

func (f Formatter) onGrid(c calendar.Clock) bool {
	s := int(f.Step / time.Minute)
	if s <= 0 {
		return true
	}
	return int(c)%s == 0
}

// Day renders the start times of one date for a service lasting dur.
func (f Formatter) Day(starts []time.Time, dur time.Duration) ([]Slot, error) {
	loc := f.location()
	out := make([]Slot, 0, len(starts))

	for _, t := range starts {
		c := calendar.ClockOf(t, loc)
		if !f.onGrid(c) {
			continue
		}

		start, err := f.FormatClock(c)
		if err != nil {
			return nil, err
		}

		endClock := calendar.ClockOf(t.Add(dur), loc)
		if calendar.DateOf(t.Add(dur), loc) != calendar.DateOf(t, loc) {
			endClock = calendar.MinutesPerDay
		}
		end := "24:00"
		if endClock < calendar.MinutesPerDay {
			if end, err = f.FormatClock(endClock); err != nil {
				return nil, err
			}
		}

		out = append(out, Slot{
			Start: start,
			End:   end,
			Label: start + " - " + end,
		})
	}

	return out, nil
}
