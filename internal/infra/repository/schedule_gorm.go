package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) WithinTx(
	ctx context.Context,
	fn func(schedule.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ScheduleGormRepository{db: tx})
	})
}

func (r *ScheduleGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.User, error) {
	return getBarber(ctx, r.db, barbershopID, barberID)
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	barberID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Order("active DESC").
		Order("updated_at DESC").
		Find(&hours).Error
	if err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *ScheduleGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	barberID uint,
	hours []models.WorkingHours,
	lunches []models.Break,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Where("barber_id = ?", barberID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}

		if err := tx.
			Where("barber_id = ? AND type = ? AND note = ?",
				barberID, models.BreakWeekly, schedule.LunchNote).
			Delete(&models.Break{}).Error; err != nil {
			return err
		}

		if len(hours) > 0 {
			if err := tx.Create(&hours).Error; err != nil {
				return err
			}
		}
		if len(lunches) > 0 {
			if err := tx.Create(&lunches).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --------------------------------------------------
// Breaks
// --------------------------------------------------

func (r *ScheduleGormRepository) ListBreaks(
	ctx context.Context,
	barberID uint,
) ([]models.Break, error) {

	var breaks []models.Break
	err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("id ASC").
		Find(&breaks).Error
	if err != nil {
		return nil, err
	}
	return breaks, nil
}

func (r *ScheduleGormRepository) CreateBreak(
	ctx context.Context,
	b *models.Break,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *ScheduleGormRepository) DeleteBreak(
	ctx context.Context,
	barberID uint,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		Delete(&models.Break{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("break_not_found")
	}
	return nil
}

// --------------------------------------------------
// Days off
// --------------------------------------------------

// ListDaysOff returns the days off in [from, to]. Empty bounds are open.
func (r *ScheduleGormRepository) ListDaysOff(
	ctx context.Context,
	barberID uint,
	from string,
	to string,
) ([]models.DayOff, error) {

	q := r.db.WithContext(ctx).Where("barber_id = ?", barberID)
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}

	var days []models.DayOff
	if err := q.Order("date ASC").Find(&days).Error; err != nil {
		return nil, err
	}
	return days, nil
}

func (r *ScheduleGormRepository) CreateDayOff(
	ctx context.Context,
	d *models.DayOff,
) error {

	err := r.db.WithContext(ctx).Create(d).Error
	if httperr.IsUniqueViolation(err) {
		return httperr.ErrBusiness("day_off_exists")
	}
	return err
}

func (r *ScheduleGormRepository) DeleteDayOff(
	ctx context.Context,
	barberID uint,
	id uint,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ? AND barber_id = ?", id, barberID).
		Delete(&models.DayOff{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("day_off_not_found")
	}
	return nil
}

// --------------------------------------------------
// Requests
// --------------------------------------------------

func (r *ScheduleGormRepository) CreateRequest(
	ctx context.Context,
	req *models.ScheduleRequest,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetRequest locks the row when called inside WithinTx, so concurrent reviews
// of one request serialize.
func (r *ScheduleGormRepository) GetRequest(
	ctx context.Context,
	barbershopID uint,
	id uint,
) (*models.ScheduleRequest, error) {

	var req models.ScheduleRequest
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND barbershop_id = ?", id, barbershopID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("request_not_found")
		}
		return nil, err
	}
	return &req, nil
}

func (r *ScheduleGormRepository) ListRequests(
	ctx context.Context,
	barbershopID uint,
	barberID *uint,
	status string,
) ([]models.ScheduleRequest, error) {

	q := r.db.WithContext(ctx).Where("barbershop_id = ?", barbershopID)
	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var reqs []models.ScheduleRequest
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *ScheduleGormRepository) UpdateRequest(
	ctx context.Context,
	req *models.ScheduleRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// --------------------------------------------------
// Availability (schedule projection)
// --------------------------------------------------

// FetchSchedule loads what the engine needs for [from, to]. Custom breaks and
// days off outside the range are not read.
func (r *ScheduleGormRepository) FetchSchedule(
	ctx context.Context,
	barberID uint,
	from calendar.Date,
	to calendar.Date,
) (availability.Schedule, error) {

	db := r.db.WithContext(ctx)

	var hours []models.WorkingHours
	if err := db.
		Where("barber_id = ? AND active = ?", barberID, true).
		Order("weekday ASC").
		Order("updated_at DESC").
		Find(&hours).Error; err != nil {
		return availability.Schedule{}, err
	}

	var breaks []models.Break
	if err := db.
		Where("barber_id = ?", barberID).
		Where("(type <> ? OR (date >= ? AND date <= ?))",
			models.BreakCustom, from.String(), to.String()).
		Order("id ASC").
		Find(&breaks).Error; err != nil {
		return availability.Schedule{}, err
	}

	var daysOff []models.DayOff
	if err := db.
		Where("barber_id = ? AND date >= ? AND date <= ?",
			barberID, from.String(), to.String()).
		Order("date ASC").
		Find(&daysOff).Error; err != nil {
		return availability.Schedule{}, err
	}

	return schedule.FromModels(hours, breaks, daysOff)
}

// Compile-time check
var (
	_ schedule.Repository             = (*ScheduleGormRepository)(nil)
	_ availability.ScheduleRepository = (*ScheduleGormRepository)(nil)
)
