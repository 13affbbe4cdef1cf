package schedule

import (
	"encoding/json"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// WorkingDay is one weekday of a weekly working-hours replacement.
type WorkingDay struct {
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Active    bool   `json:"active"`
	StartTime string `json:"start_time" binding:"omitempty,hhmm"`
	EndTime   string `json:"end_time" binding:"omitempty,hhmm"`

	// Optional lunch; stored as a weekly break.
	LunchStart string `json:"lunch_start" binding:"omitempty,hhmm"`
	LunchEnd   string `json:"lunch_end" binding:"omitempty,hhmm"`
}

type WorkingHoursPayload struct {
	Days []WorkingDay `json:"days" binding:"required,dive"`
}

type BreakPayload struct {
	Type      string `json:"type" binding:"required,oneof=custom weekly everyday"`
	Date      string `json:"date" binding:"omitempty,ymd"`
	Weekday   *int   `json:"weekday" binding:"omitempty,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Note      string `json:"note" binding:"max=255"`
}

type DayOffPayload struct {
	Date   string `json:"date" binding:"required,ymd"`
	Reason string `json:"reason" binding:"max=255"`
}

// ===============================
// Validation + conversion to rows
// ===============================

func validRange(start, end string) error {
	s, err := calendar.ParseClock(start)
	if err != nil {
		return httperr.ErrBusiness("invalid_time")
	}
	e, err := calendar.ParseClock(end)
	if err != nil {
		return httperr.ErrBusiness("invalid_time")
	}
	if e <= s {
		return httperr.ErrBusiness("invalid_interval")
	}
	return nil
}

// Rows validates p and returns the working hours and lunch breaks it describes.
func (p WorkingHoursPayload) Rows(barberID uint) ([]models.WorkingHours, []models.Break, error) {
	seen := map[int]bool{}
	var hours []models.WorkingHours
	var lunches []models.Break

	for _, d := range p.Days {
		if d.Weekday < 0 || d.Weekday > 6 {
			return nil, nil, httperr.ErrBusiness("invalid_weekday")
		}
		if seen[d.Weekday] {
			return nil, nil, httperr.ErrBusiness("duplicate_weekday")
		}
		seen[d.Weekday] = true

		if d.Active {
			if err := validRange(d.StartTime, d.EndTime); err != nil {
				return nil, nil, err
			}
		}

		hours = append(hours, models.WorkingHours{
			BarberID:  barberID,
			Weekday:   d.Weekday,
			Active:    d.Active,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
		})

		if !d.Active || (d.LunchStart == "" && d.LunchEnd == "") {
			continue
		}
		if err := validRange(d.LunchStart, d.LunchEnd); err != nil {
			return nil, nil, err
		}
		wd := d.Weekday
		lunches = append(lunches, models.Break{
			BarberID:  barberID,
			Type:      models.BreakWeekly,
			Weekday:   &wd,
			StartTime: d.LunchStart,
			EndTime:   d.LunchEnd,
			Note:      LunchNote,
		})
	}

	return hours, lunches, nil
}

// LunchNote marks breaks created from the lunch fields of working hours, so a
// later replacement can drop them.
const LunchNote = "almoço"

func (p BreakPayload) Row(barberID uint) (*models.Break, error) {
	if err := validRange(p.StartTime, p.EndTime); err != nil {
		return nil, err
	}

	b := &models.Break{
		BarberID:  barberID,
		Type:      p.Type,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Note:      p.Note,
	}

	switch p.Type {
	case models.BreakCustom:
		if p.Date == "" || p.Weekday != nil {
			return nil, httperr.ErrBusiness("invalid_break_rule")
		}
		if _, err := calendar.ParseDate(p.Date); err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
		date := p.Date
		b.Date = &date
	case models.BreakWeekly:
		if p.Weekday == nil || p.Date != "" {
			return nil, httperr.ErrBusiness("invalid_break_rule")
		}
		if *p.Weekday < 0 || *p.Weekday > 6 {
			return nil, httperr.ErrBusiness("invalid_weekday")
		}
		wd := *p.Weekday
		b.Weekday = &wd
	case models.BreakEveryday:
		if p.Weekday != nil || p.Date != "" {
			return nil, httperr.ErrBusiness("invalid_break_rule")
		}
	default:
		return nil, httperr.ErrBusiness("invalid_break_rule")
	}

	return b, nil
}

func (p DayOffPayload) Row(barberID uint) (*models.DayOff, error) {
	if _, err := calendar.ParseDate(p.Date); err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}
	return &models.DayOff{
		BarberID: barberID,
		Date:     p.Date,
		Reason:   p.Reason,
	}, nil
}

// DecodePayload parses raw into the payload type of kind and validates it
// against barberID without touching storage.
func DecodePayload(kind Kind, raw []byte, barberID uint) (any, error) {
	switch kind {
	case KindWorkingHours:
		var p WorkingHoursPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		if _, _, err := p.Rows(barberID); err != nil {
			return nil, err
		}
		return p, nil
	case KindBreak:
		var p BreakPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		if _, err := p.Row(barberID); err != nil {
			return nil, err
		}
		return p, nil
	case KindDayOff:
		var p DayOffPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, httperr.ErrBusiness("invalid_payload")
		}
		if _, err := p.Row(barberID); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, httperr.ErrBusiness("invalid_request_kind")
}
