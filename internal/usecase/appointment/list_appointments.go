package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointments struct {
	repo  domain.Repository
	zones *timezone.Zones
}

func NewListAppointments(
	repo domain.Repository,
	zones *timezone.Zones,
) *ListAppointments {
	return &ListAppointments{
		repo:  repo,
		zones: zones,
	}
}

// ByDate lists the appointments of one shop-local day.
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date calendar.Date,
) ([]dto.AppointmentListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := uc.zones.Location(shop.Timezone)
	return uc.list(ctx, barberID, date.Midnight(loc), date.AddDays(1).Midnight(loc), loc)
}

// ByMonth lists the appointments of one shop-local calendar month.
func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 1 {
		return nil, httperr.ErrBusiness("invalid_month")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := uc.zones.Location(shop.Timezone)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	return uc.list(ctx, barberID, start, end, loc)
}

func (uc *ListAppointments) list(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	loc *time.Location,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, toListDTO(ap, loc))
	}
	return out, nil
}

func toListDTO(ap models.Appointment, loc *time.Location) dto.AppointmentListDTO {
	start := ap.StartTime.In(loc)
	return dto.AppointmentListDTO{
		ID:          ap.ID,
		BarberID:    ap.BarberID,
		Date:        calendar.DateOf(start, loc).String(),
		StartTime:   start,
		EndTime:     ap.EndTime.In(loc),
		DurationMin: ap.DurationMinutes(),
		Status:      ap.Status,
		ClientName:  ap.Client.Name,
		ClientPhone: ap.Client.Phone,
		ProductID:   ap.BarberProductID,
		ProductName: ap.BarberProduct.Name,
		Notes:       ap.Notes,
	}
}
