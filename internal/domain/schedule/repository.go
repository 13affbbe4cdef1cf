package schedule

import (
	"context"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	// -------- Barber --------
	GetBarber(ctx context.Context, barbershopID, barberID uint) (*models.User, error)

	// -------- Working hours --------
	ListWorkingHours(ctx context.Context, barberID uint) ([]models.WorkingHours, error)

	// ReplaceWorkingHours swaps the weekly hours and lunch breaks of a barber.
	ReplaceWorkingHours(ctx context.Context, barberID uint, hours []models.WorkingHours, lunches []models.Break) error

	// -------- Breaks --------
	ListBreaks(ctx context.Context, barberID uint) ([]models.Break, error)
	CreateBreak(ctx context.Context, b *models.Break) error
	DeleteBreak(ctx context.Context, barberID, id uint) error

	// -------- Days off --------
	ListDaysOff(ctx context.Context, barberID uint, from, to string) ([]models.DayOff, error)
	CreateDayOff(ctx context.Context, d *models.DayOff) error
	DeleteDayOff(ctx context.Context, barberID, id uint) error

	// -------- Requests --------
	CreateRequest(ctx context.Context, r *models.ScheduleRequest) error
	GetRequest(ctx context.Context, barbershopID, id uint) (*models.ScheduleRequest, error)
	ListRequests(ctx context.Context, barbershopID uint, barberID *uint, status string) ([]models.ScheduleRequest, error)
	UpdateRequest(ctx context.Context, r *models.ScheduleRequest) error

	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
