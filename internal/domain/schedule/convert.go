package schedule

import (
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrCorruptRow is returned when a stored row cannot be read back into the
// engine's types.
var ErrCorruptRow = errors.New("corrupt_schedule_row")

func WorkingHoursFromModel(m models.WorkingHours) (availability.WorkingHours, error) {
	start, err := calendar.ParseClock(m.StartTime)
	if err != nil {
		return availability.WorkingHours{}, fmt.Errorf("%w: working_hours %d: %v", ErrCorruptRow, m.ID, err)
	}
	end, err := calendar.ParseClock(m.EndTime)
	if err != nil {
		return availability.WorkingHours{}, fmt.Errorf("%w: working_hours %d: %v", ErrCorruptRow, m.ID, err)
	}
	return availability.WorkingHours{
		Weekday: time.Weekday(m.Weekday),
		Start:   start,
		End:     end,
	}, nil
}

// BreakFromModel turns the single-table break row into the closed rule type.
// A row whose discriminator and fields disagree is rejected.
func BreakFromModel(m models.Break) (availability.Break, error) {
	start, err := calendar.ParseClock(m.StartTime)
	if err != nil {
		return availability.Break{}, fmt.Errorf("%w: break %d: %v", ErrCorruptRow, m.ID, err)
	}
	end, err := calendar.ParseClock(m.EndTime)
	if err != nil {
		return availability.Break{}, fmt.Errorf("%w: break %d: %v", ErrCorruptRow, m.ID, err)
	}

	var rule availability.Rule
	switch m.Type {
	case models.BreakCustom:
		if m.Date == nil || m.Weekday != nil {
			return availability.Break{}, fmt.Errorf("%w: custom break %d", ErrCorruptRow, m.ID)
		}
		d, err := calendar.ParseDate(*m.Date)
		if err != nil {
			return availability.Break{}, fmt.Errorf("%w: break %d: %v", ErrCorruptRow, m.ID, err)
		}
		rule = availability.Custom{Date: d}
	case models.BreakWeekly:
		if m.Weekday == nil || m.Date != nil || *m.Weekday < 0 || *m.Weekday > 6 {
			return availability.Break{}, fmt.Errorf("%w: weekly break %d", ErrCorruptRow, m.ID)
		}
		rule = availability.Weekly{Weekday: time.Weekday(*m.Weekday)}
	case models.BreakEveryday:
		if m.Weekday != nil || m.Date != nil {
			return availability.Break{}, fmt.Errorf("%w: everyday break %d", ErrCorruptRow, m.ID)
		}
		rule = availability.Everyday{}
	default:
		return availability.Break{}, fmt.Errorf("%w: break %d has type %q", ErrCorruptRow, m.ID, m.Type)
	}

	return availability.Break{Rule: rule, Start: start, End: end, Note: m.Note}, nil
}

func DayOffFromModel(m models.DayOff) (calendar.Date, error) {
	d, err := calendar.ParseDate(m.Date)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w: day_off %d: %v", ErrCorruptRow, m.ID, err)
	}
	return d, nil
}

// FromModels assembles the engine schedule. Inactive working hours are skipped.
func FromModels(hours []models.WorkingHours, breaks []models.Break, daysOff []models.DayOff) (availability.Schedule, error) {
	var out availability.Schedule

	for _, h := range hours {
		if !h.Active {
			continue
		}
		wh, err := WorkingHoursFromModel(h)
		if err != nil {
			return availability.Schedule{}, err
		}
		out.WorkingHours = append(out.WorkingHours, wh)
	}

	for _, b := range breaks {
		br, err := BreakFromModel(b)
		if err != nil {
			return availability.Schedule{}, err
		}
		out.Breaks = append(out.Breaks, br)
	}

	for _, d := range daysOff {
		date, err := DayOffFromModel(d)
		if err != nil {
			return availability.Schedule{}, err
		}
		out.DaysOff = append(out.DaysOff, date)
	}

	return out, nil
}
