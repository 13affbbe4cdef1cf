package schedule

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// Schedule change requests
// ======================================================

// Requests lets barbers propose schedule changes. Nothing reaches the
// working_hours, breaks or days_off tables before an admin approves.
type Requests struct {
	repo  domain.Repository
	cache Invalidator
	zones *timezone.Zones
	audit *audit.Dispatcher
}

func NewRequests(
	repo domain.Repository,
	cache Invalidator,
	zones *timezone.Zones,
	audit *audit.Dispatcher,
) *Requests {
	return &Requests{
		repo:  repo,
		cache: cache,
		zones: zones,
		audit: audit,
	}
}

type SubmitInput struct {
	Kind    string
	Payload json.RawMessage
}

func (uc *Requests) Submit(
	ctx context.Context,
	actor Actor,
	in SubmitInput,
) (*models.ScheduleRequest, error) {

	barber, err := uc.repo.GetBarber(ctx, actor.BarbershopID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !barber.TakesAppointments() {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	kind, err := domain.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	if _, err := domain.DecodePayload(kind, in.Payload, barber.ID); err != nil {
		return nil, err
	}

	req := &models.ScheduleRequest{
		PublicID:     uuid.NewString(),
		BarbershopID: actor.BarbershopID,
		BarberID:     barber.ID,
		Kind:         string(kind),
		Payload:      datatypes.JSON(in.Payload),
		Status:       string(domain.StatusPending),
	}

	if err := uc.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: actor.BarbershopID,
		UserID:       &actor.UserID,
		Action:       "schedule_request_submitted",
		Entity:       "schedule_request",
		EntityID:     &req.ID,
		Metadata:     map[string]any{"kind": req.Kind},
		RequestID:    actor.RequestID,
	})

	return req, nil
}

// Approve applies the request payload and marks it approved in one
// transaction. A payload that no longer validates leaves the request pending.
func (uc *Requests) Approve(
	ctx context.Context,
	actor Actor,
	requestID uint,
) (*models.ScheduleRequest, error) {

	var approved *models.ScheduleRequest

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		req, err := tx.GetRequest(ctx, actor.BarbershopID, requestID)
		if err != nil {
			return err
		}

		if err := domain.Approve(req, actor.UserID, uc.zones.Now()); err != nil {
			return err
		}
		if err := apply(ctx, tx, req); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}

		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, approved.BarberID)
	metrics.IncScheduleDecision(string(domain.StatusApproved))

	uc.audit.Dispatch(audit.Event{
		BarbershopID: actor.BarbershopID,
		UserID:       &actor.UserID,
		Action:       "schedule_request_approved",
		Entity:       "schedule_request",
		EntityID:     &approved.ID,
		Metadata:     map[string]any{"kind": approved.Kind, "barber_id": approved.BarberID},
		RequestID:    actor.RequestID,
	})

	return approved, nil
}

func (uc *Requests) Reject(
	ctx context.Context,
	actor Actor,
	requestID uint,
	reason string,
) (*models.ScheduleRequest, error) {

	var rejected *models.ScheduleRequest

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		req, err := tx.GetRequest(ctx, actor.BarbershopID, requestID)
		if err != nil {
			return err
		}
		if err := domain.Reject(req, actor.UserID, reason, uc.zones.Now()); err != nil {
			return err
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncScheduleDecision(string(domain.StatusRejected))

	uc.audit.Dispatch(audit.Event{
		BarbershopID: actor.BarbershopID,
		UserID:       &actor.UserID,
		Action:       "schedule_request_rejected",
		Entity:       "schedule_request",
		EntityID:     &rejected.ID,
		Metadata:     map[string]any{"reason": reason},
		RequestID:    actor.RequestID,
	})

	return rejected, nil
}

// List returns requests of a barbershop; barberID and status narrow it.
func (uc *Requests) List(
	ctx context.Context,
	barbershopID uint,
	barberID *uint,
	status string,
) ([]models.ScheduleRequest, error) {

	if status != "" {
		if _, err := domain.ParseStatus(status); err != nil {
			return nil, err
		}
	}
	return uc.repo.ListRequests(ctx, barbershopID, barberID, status)
}

// apply writes the rows described by an approved request.
func apply(ctx context.Context, repo domain.Repository, req *models.ScheduleRequest) error {
	kind, err := domain.ParseKind(req.Kind)
	if err != nil {
		return err
	}

	payload, err := domain.DecodePayload(kind, req.Payload, req.BarberID)
	if err != nil {
		return err
	}

	switch p := payload.(type) {
	case domain.WorkingHoursPayload:
		hours, lunches, err := p.Rows(req.BarberID)
		if err != nil {
			return err
		}
		return repo.ReplaceWorkingHours(ctx, req.BarberID, hours, lunches)

	case domain.BreakPayload:
		b, err := p.Row(req.BarberID)
		if err != nil {
			return err
		}
		return repo.CreateBreak(ctx, b)

	case domain.DayOffPayload:
		d, err := p.Row(req.BarberID)
		if err != nil {
			return err
		}
		return repo.CreateDayOff(ctx, d)
	}

	return httperr.ErrBusiness("invalid_request_kind")
}
