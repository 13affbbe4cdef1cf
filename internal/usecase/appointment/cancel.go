package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type CancelAppointment struct {
	repo         domain.Repository
	availability *GetAvailability
	zones        *timezone.Zones
	audit        *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	availability *GetAvailability,
	zones *timezone.Zones,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:         repo,
		availability: availability,
		zones:        zones,
		audit:        audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	appointmentID uint,
	actorID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForBarber(ctx, appointmentID, barberID)
	if err != nil {
		return nil, err
	}
	if ap.BarbershopID != shop.ID {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := uc.zones.NowIn(shop.Timezone)
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	// O horário volta a ficar livre.
	uc.availability.Invalidate(ctx, barberID)
	metrics.IncAppointmentTransition(models.AppointmentCancelled)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		UserID:       &actorID,
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
