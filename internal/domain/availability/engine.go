package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

var ErrInvalidRequest = errors.New("invalid_availability_request")

type Request struct {
	From calendar.Date
	To   calendar.Date

	ServiceDuration time.Duration
	Granularity     time.Duration

	// Candidates starting before Now+LeadTime are dropped. A zero Now
	// disables the cutoff.
	LeadTime time.Duration
	Now      time.Time

	Location *time.Location
}

func (r Request) Validate() error {
	switch {
	case r.Location == nil:
		return fmt.Errorf("%w: location is required", ErrInvalidRequest)
	case r.From.IsZero() || r.To.IsZero():
		return fmt.Errorf("%w: date range is required", ErrInvalidRequest)
	case r.To.Before(r.From):
		return fmt.Errorf("%w: %s is after %s", ErrInvalidRequest, r.From, r.To)
	case r.ServiceDuration <= 0:
		return fmt.Errorf("%w: service duration must be positive", ErrInvalidRequest)
	case r.Granularity <= 0:
		return fmt.Errorf("%w: granularity must be positive", ErrInvalidRequest)
	case r.LeadTime < 0:
		return fmt.Errorf("%w: lead time must not be negative", ErrInvalidRequest)
	}
	return nil
}

type DaySlots struct {
	Date   calendar.Date
	Starts []time.Time
}

// Result holds one entry per requested date, in date order.
type Result struct {
	Days []DaySlots
}

// EmptyResult has every date of [from, to] with no start times.
func EmptyResult(from, to calendar.Date) Result {
	dates := calendar.Range(from, to)
	res := Result{Days: make([]DaySlots, 0, len(dates))}
	for _, d := range dates {
		res.Days = append(res.Days, DaySlots{Date: d, Starts: []time.Time{}})
	}
	return res
}

func (r Result) For(d calendar.Date) []time.Time {
	for _, day := range r.Days {
		if day.Date == d {
			return day.Starts
		}
	}
	return nil
}

func (r Result) Total() int {
	n := 0
	for _, day := range r.Days {
		n += len(day.Starts)
	}
	return n
}

// NotBefore drops start times earlier than cutoff. A zero cutoff keeps all.
func (r Result) NotBefore(cutoff time.Time) Result {
	out := Result{Days: make([]DaySlots, 0, len(r.Days))}
	for _, day := range r.Days {
		starts := make([]time.Time, 0, len(day.Starts))
		for _, t := range day.Starts {
			if !cutoff.IsZero() && t.Before(cutoff) {
				continue
			}
			starts = append(starts, t)
		}
		out.Days = append(out.Days, DaySlots{Date: day.Date, Starts: starts})
	}
	return out
}

// Compute returns the valid start times per date for a service of
// req.ServiceDuration. It performs no I/O and keeps no state between calls.
func Compute(req Request, sched Schedule, bookings []Booking) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	hours, err := indexWorkingHours(sched.WorkingHours)
	if err != nil {
		return Result{}, err
	}
	if err := validateBreaks(sched.Breaks); err != nil {
		return Result{}, err
	}
	busy, err := bookingIntervals(bookings)
	if err != nil {
		return Result{}, err
	}

	daysOff := make(map[calendar.Date]struct{}, len(sched.DaysOff))
	for _, d := range sched.DaysOff {
		daysOff[d] = struct{}{}
	}

	var cutoff time.Time
	if !req.Now.IsZero() {
		cutoff = req.Now.Add(req.LeadTime)
	}

	res := EmptyResult(req.From, req.To)
	for i := range res.Days {
		d := res.Days[i].Date

		if _, off := daysOff[d]; off {
			continue
		}

		wh, ok := hours[d.Weekday()]
		if !ok {
			continue
		}

		free, err := freeIntervals(d, wh, sched.Breaks, busy, req.Location)
		if err != nil {
			return Result{}, err
		}

		res.Days[i].Starts = candidates(free, req.ServiceDuration, req.Granularity, cutoff)
	}

	return res, nil
}

// freeIntervals returns the working interval of d minus every applicable
// break and every booking.
func freeIntervals(
	d calendar.Date,
	wh WorkingHours,
	breaks []Break,
	busy []calendar.Interval,
	loc *time.Location,
) ([]calendar.Interval, error) {

	work, err := calendar.IntervalOn(d, wh.Start, wh.End, loc)
	if err != nil {
		return nil, err
	}
	free := []calendar.Interval{work}

	for _, b := range breaks {
		if !b.Rule.AppliesOn(d) {
			continue
		}
		cut, err := calendar.IntervalOn(d, b.Start, b.End, loc)
		if err != nil {
			return nil, err
		}
		if free, err = calendar.SubtractAll(free, cut); err != nil {
			return nil, err
		}
	}

	for _, cut := range busy {
		if !cut.Start.Before(work.End) || !work.Start.Before(cut.End) {
			continue
		}
		if free, err = calendar.SubtractAll(free, cut); err != nil {
			return nil, err
		}
	}

	return free, nil
}

func candidates(free []calendar.Interval, dur, step time.Duration, cutoff time.Time) []time.Time {
	out := []time.Time{}
	for _, iv := range free {
		if iv.Duration() < dur {
			continue
		}
		for t := iv.Start; iv.Fits(t, dur); t = t.Add(step) {
			if !cutoff.IsZero() && t.Before(cutoff) {
				continue
			}
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// indexWorkingHours keeps the first entry per weekday; callers pass the
// active one first.
func indexWorkingHours(list []WorkingHours) (map[time.Weekday]WorkingHours, error) {
	out := make(map[time.Weekday]WorkingHours, len(list))
	for _, wh := range list {
		if wh.Weekday < time.Sunday || wh.Weekday > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d", ErrInvalidRequest, wh.Weekday)
		}
		if !wh.Start.Valid() || !wh.End.Valid() || wh.End <= wh.Start {
			return nil, fmt.Errorf("%w: working hours %s-%s on weekday %d",
				calendar.ErrInvalidInterval, wh.Start, wh.End, wh.Weekday)
		}
		if _, seen := out[wh.Weekday]; !seen {
			out[wh.Weekday] = wh
		}
	}
	return out, nil
}

func validateBreaks(list []Break) error {
	for _, b := range list {
		if b.Rule == nil {
			return fmt.Errorf("%w: break %s-%s has no rule", ErrInvalidRequest, b.Start, b.End)
		}
		if !b.Start.Valid() || !b.End.Valid() || b.End <= b.Start {
			return fmt.Errorf("%w: break %s-%s", calendar.ErrInvalidInterval, b.Start, b.End)
		}
	}
	return nil
}

func bookingIntervals(list []Booking) ([]calendar.Interval, error) {
	out := make([]calendar.Interval, 0, len(list))
	for _, b := range list {
		iv, err := b.Interval()
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}
