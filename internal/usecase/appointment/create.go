package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	BarbershopID uint
	BarberID     uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	ProductID uint

	Date  string
	Time  string
	Notes string

	// Staff member creating the appointment; nil for public bookings.
	ActorID   *uint
	RequestID string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo         domain.Repository
	availability *GetAvailability
	zones        *timezone.Zones
	audit        *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	availability *GetAvailability,
	zones *timezone.Zones,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:         repo,
		availability: availability,
		zones:        zones,
		audit:        audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		outcome := "error"
		if code, ok := httperr.BusinessCode(err); ok {
			outcome = code
		}
		metrics.IncAppointmentCreated(outcome)
		return nil, err
	}
	metrics.IncAppointmentCreated("created")
	return ap, nil
}

func (uc *CreateAppointment) execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Barbearia / barbeiro
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarbershopID, in.BarberID)
	if err != nil {
		return nil, err
	}
	if !barber.TakesAppointments() {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	// --------------------------------------------------
	// 2️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	loc := uc.zones.Location(shop.Timezone)

	date, err := calendar.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	clock, err := calendar.ParseClock(in.Time)
	if err != nil || clock >= calendar.MinutesPerDay {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}
	start := clock.On(date, loc)

	// --------------------------------------------------
	// 3️⃣ Serviço
	// --------------------------------------------------
	product, err := uc.repo.GetProduct(ctx, in.BarbershopID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active || product.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("product_not_found")
	}
	end := start.Add(product.Duration())

	// --------------------------------------------------
	// 4️⃣ Antecedência mínima
	// --------------------------------------------------
	lead := uc.availability.policy.leadTime(shop)
	if start.Before(uc.zones.Now().Add(lead)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	// --------------------------------------------------
	// 5️⃣ O horário precisa ser um dos oferecidos
	// --------------------------------------------------
	res, err := uc.availability.Candidates(ctx, shop, in.BarberID, product.Duration(), date, date)
	if err != nil {
		return nil, err
	}
	if !domain.Contains(res.For(date), start) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	// --------------------------------------------------
	// 6️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.BarbershopID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Criação (checagem de conflito na transação)
	// --------------------------------------------------
	ap := &models.Appointment{
		BarbershopID:    in.BarbershopID,
		BarberID:        in.BarberID,
		ClientID:        client.ID,
		BarberProductID: product.ID,
		StartTime:       start,
		EndTime:         end,
		Status:          string(domain.InitialStatus()),
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.availability.Invalidate(ctx, in.BarberID)

	// --------------------------------------------------
	// 8️⃣ Auditoria
	// --------------------------------------------------
	userID := in.ActorID
	if userID == nil {
		userID = &in.BarberID
	}
	uc.audit.Dispatch(audit.Event{
		BarbershopID: in.BarbershopID,
		UserID:       userID,
		Action:       "appointment_created",
		Entity:       "appointment",
		EntityID:     &ap.ID,
		Metadata: map[string]any{
			"start":   start.Format(time.RFC3339),
			"product": product.ID,
			"public":  in.ActorID == nil,
		},
		RequestID: in.RequestID,
	})

	return ap, nil
}
