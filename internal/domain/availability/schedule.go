package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
)

// ===============================
// Schedule data
// ===============================

type WorkingHours struct {
	Weekday time.Weekday
	Start   calendar.Clock
	End     calendar.Clock
}

// Rule selects the dates a Break applies to. The set of rules is closed:
// Custom, Weekly and Everyday.
type Rule interface {
	AppliesOn(d calendar.Date) bool
	isRule()
}

// Custom applies to one specific date.
type Custom struct {
	Date calendar.Date
}

// Weekly applies to every date falling on Weekday.
type Weekly struct {
	Weekday time.Weekday
}

// Everyday applies to all dates.
type Everyday struct{}

func (r Custom) AppliesOn(d calendar.Date) bool   { return r.Date == d }
func (r Weekly) AppliesOn(d calendar.Date) bool   { return d.Weekday() == r.Weekday }
func (r Everyday) AppliesOn(d calendar.Date) bool { return true }

func (Custom) isRule()   {}
func (Weekly) isRule()   {}
func (Everyday) isRule() {}

type Break struct {
	Rule  Rule
	Start calendar.Clock
	End   calendar.Clock
	Note  string
}

// Booking is the part of an appointment that blocks time.
type Booking struct {
	Start           time.Time
	DurationMinutes int
}

func (b Booking) Interval() (calendar.Interval, error) {
	if b.DurationMinutes <= 0 {
		return calendar.Interval{}, fmt.Errorf("%w: booking at %s lasts %d minutes",
			calendar.ErrInvalidInterval, b.Start.Format(time.RFC3339), b.DurationMinutes)
	}
	return calendar.NewInterval(b.Start, b.Start.Add(time.Duration(b.DurationMinutes)*time.Minute))
}

// Schedule is everything the engine needs to know about one barber.
type Schedule struct {
	WorkingHours []WorkingHours
	Breaks       []Break
	DaysOff      []calendar.Date
}

// ===============================
// Repositories (consumed)
// ===============================

type ScheduleRepository interface {
	FetchSchedule(
		ctx context.Context,
		barberID uint,
		from calendar.Date,
		to calendar.Date,
	) (Schedule, error)
}

// BookingRepository returns the bookings of a barber that start before to and
// end after from. Cancelled appointments are never returned.
type BookingRepository interface {
	FetchBookings(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]Booking, error)
}
