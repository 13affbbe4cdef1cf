package schedule

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Invalidator drops cached availability of a barber after a schedule write.
type Invalidator interface {
	Invalidate(ctx context.Context, barberID uint)
}

// Actor identifies who performs a write.
type Actor struct {
	BarbershopID uint
	UserID       uint
	RequestID    string
}

// ======================================================
// Direct schedule management (admin / owner)
// ======================================================

type Manage struct {
	repo  domain.Repository
	cache Invalidator
	audit *audit.Dispatcher
}

func NewManage(
	repo domain.Repository,
	cache Invalidator,
	audit *audit.Dispatcher,
) *Manage {
	return &Manage{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *Manage) barber(ctx context.Context, barbershopID, barberID uint) error {
	_, err := uc.repo.GetBarber(ctx, barbershopID, barberID)
	return err
}

func (uc *Manage) record(actor Actor, action, entity string, entityID *uint, meta any) {
	uc.audit.Dispatch(audit.Event{
		BarbershopID: actor.BarbershopID,
		UserID:       &actor.UserID,
		Action:       action,
		Entity:       entity,
		EntityID:     entityID,
		Metadata:     meta,
		RequestID:    actor.RequestID,
	})
}

// -------- Working hours --------

func (uc *Manage) ListWorkingHours(ctx context.Context, barbershopID, barberID uint) ([]models.WorkingHours, error) {
	if err := uc.barber(ctx, barbershopID, barberID); err != nil {
		return nil, err
	}
	return uc.repo.ListWorkingHours(ctx, barberID)
}

func (uc *Manage) ReplaceWorkingHours(
	ctx context.Context,
	actor Actor,
	barberID uint,
	p domain.WorkingHoursPayload,
) error {

	if err := uc.barber(ctx, actor.BarbershopID, barberID); err != nil {
		return err
	}

	hours, lunches, err := p.Rows(barberID)
	if err != nil {
		return err
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, barberID, hours, lunches); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, barberID)
	uc.record(actor, "working_hours_updated", "barber", &barberID, p)
	return nil
}

// -------- Breaks --------

func (uc *Manage) ListBreaks(ctx context.Context, barbershopID, barberID uint) ([]models.Break, error) {
	if err := uc.barber(ctx, barbershopID, barberID); err != nil {
		return nil, err
	}
	return uc.repo.ListBreaks(ctx, barberID)
}

func (uc *Manage) CreateBreak(
	ctx context.Context,
	actor Actor,
	barberID uint,
	p domain.BreakPayload,
) (*models.Break, error) {

	if err := uc.barber(ctx, actor.BarbershopID, barberID); err != nil {
		return nil, err
	}

	b, err := p.Row(barberID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateBreak(ctx, b); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, barberID)
	uc.record(actor, "break_created", "break", &b.ID, p)
	return b, nil
}

func (uc *Manage) DeleteBreak(ctx context.Context, actor Actor, barberID, breakID uint) error {
	if err := uc.barber(ctx, actor.BarbershopID, barberID); err != nil {
		return err
	}
	if err := uc.repo.DeleteBreak(ctx, barberID, breakID); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, barberID)
	uc.record(actor, "break_deleted", "break", &breakID, nil)
	return nil
}

// -------- Days off --------

// ListDaysOff lists days off in [from, to]; zero dates leave the bound open.
func (uc *Manage) ListDaysOff(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	from calendar.Date,
	to calendar.Date,
) ([]models.DayOff, error) {

	if err := uc.barber(ctx, barbershopID, barberID); err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	var f, t string
	if !from.IsZero() {
		f = from.String()
	}
	if !to.IsZero() {
		t = to.String()
	}
	return uc.repo.ListDaysOff(ctx, barberID, f, t)
}

func (uc *Manage) CreateDayOff(
	ctx context.Context,
	actor Actor,
	barberID uint,
	p domain.DayOffPayload,
) (*models.DayOff, error) {

	if err := uc.barber(ctx, actor.BarbershopID, barberID); err != nil {
		return nil, err
	}

	d, err := p.Row(barberID)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.CreateDayOff(ctx, d); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, barberID)
	uc.record(actor, "day_off_created", "day_off", &d.ID, p)
	return d, nil
}

func (uc *Manage) DeleteDayOff(ctx context.Context, actor Actor, barberID, dayOffID uint) error {
	if err := uc.barber(ctx, actor.BarbershopID, barberID); err != nil {
		return err
	}
	if err := uc.repo.DeleteDayOff(ctx, barberID, dayOffID); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, barberID)
	uc.record(actor, "day_off_deleted", "day_off", &dayOffID, nil)
	return nil
}
