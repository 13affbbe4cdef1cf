package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/barber-booking/internal/domain/availability"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/domain/slotfmt"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/cache"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// AvailabilityCache is satisfied by cache.AvailabilityCache and cache.Nop.
type AvailabilityCache interface {
	Get(ctx context.Context, k cache.Key) (availability.Result, cache.Entry, bool)
	Set(ctx context.Context, e cache.Entry, res availability.Result)
	Invalidate(ctx context.Context, barberID uint) error
}

// Policy holds the shop-independent defaults. A barbershop may override
// granularity and lead time.
type Policy struct {
	Granularity  time.Duration
	LeadTime     time.Duration
	MaxRangeDays int
	Timeout      time.Duration
	Layout       slotfmt.Layout
}

func (p Policy) granularity(shop *models.Barbershop) time.Duration {
	if shop.SlotGranularityMin != nil && *shop.SlotGranularityMin > 0 {
		return time.Duration(*shop.SlotGranularityMin) * time.Minute
	}
	return p.Granularity
}

func (p Policy) leadTime(shop *models.Barbershop) time.Duration {
	if shop.MinAdvanceMinutes != nil && *shop.MinAdvanceMinutes >= 0 {
		return time.Duration(*shop.MinAdvanceMinutes) * time.Minute
	}
	return p.LeadTime
}

// ======================================================
// INPUT / OUTPUT
// ======================================================

type AvailabilityInput struct {
	BarbershopID uint
	BarberID     uint
	ProductID    uint

	From calendar.Date
	To   calendar.Date

	// Optional display grid; zero shows every candidate.
	DisplayStep time.Duration
}

type DayAvailability struct {
	Date    string         `json:"date"`
	Weekday int            `json:"weekday"`
	Slots   []slotfmt.Slot `json:"slots"`
}

type AvailabilityOutput struct {
	BarberID       uint              `json:"barber_id"`
	ProductID      uint              `json:"product_id"`
	DurationMin    int               `json:"duration_min"`
	GranularityMin int               `json:"granularity_min"`
	Timezone       string            `json:"timezone"`
	Days           []DayAvailability `json:"days"`
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo      domain.Repository
	schedules availability.ScheduleRepository
	bookings  availability.BookingRepository
	cache     AvailabilityCache
	zones     *timezone.Zones
	policy    Policy
	log       zerolog.Logger
}

func NewGetAvailability(
	repo domain.Repository,
	schedules availability.ScheduleRepository,
	bookings availability.BookingRepository,
	cache AvailabilityCache,
	zones *timezone.Zones,
	policy Policy,
	log zerolog.Logger,
) *GetAvailability {
	return &GetAvailability{
		repo:      repo,
		schedules: schedules,
		bookings:  bookings,
		cache:     cache,
		zones:     zones,
		policy:    policy,
		log:       log,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) (*AvailabilityOutput, error) {

	// --------------------------------------------------
	// 1️⃣ Intervalo de datas
	// --------------------------------------------------
	if in.From.IsZero() || in.To.IsZero() || in.To.Before(in.From) {
		return nil, httperr.ErrBusiness("invalid_range")
	}
	if uc.policy.MaxRangeDays > 0 && in.From.DaysUntil(in.To)+1 > uc.policy.MaxRangeDays {
		return nil, httperr.ErrBusiness("range_too_large")
	}

	// --------------------------------------------------
	// 2️⃣ Barbearia / serviço
	// --------------------------------------------------
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	product, err := uc.repo.GetProduct(ctx, in.BarbershopID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active || product.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("product_not_found")
	}

	loc := uc.zones.Location(shop.Timezone)
	gran := uc.policy.granularity(shop)

	out := &AvailabilityOutput{
		BarberID:       in.BarberID,
		ProductID:      product.ID,
		DurationMin:    product.DurationMin,
		GranularityMin: int(gran / time.Minute),
		Timezone:       loc.String(),
	}

	// --------------------------------------------------
	// 3️⃣ Horários candidatos
	// --------------------------------------------------
	res, err := uc.Candidates(ctx, shop, in.BarberID, product.Duration(), in.From, in.To)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Formatação
	// --------------------------------------------------
	f := slotfmt.Formatter{Location: loc, Layout: uc.policy.Layout, Step: in.DisplayStep}

	out.Days = make([]DayAvailability, 0, len(res.Days))
	for _, day := range res.Days {
		slots, err := f.Day(day.Starts, product.Duration())
		if err != nil {
			return nil, err
		}
		out.Days = append(out.Days, DayAvailability{
			Date:    day.Date.String(),
			Weekday: int(day.Date.Weekday()),
			Slots:   slots,
		})
	}

	return out, nil
}

// Candidates returns the bookable start times of a barber for a service of
// dur over [from, to], with the shop's lead time applied. A barber that does
// not exist or does not take appointments has no availability.
func (uc *GetAvailability) Candidates(
	ctx context.Context,
	shop *models.Barbershop,
	barberID uint,
	dur time.Duration,
	from calendar.Date,
	to calendar.Date,
) (availability.Result, error) {

	begin := time.Now()

	barber, err := uc.repo.GetBarber(ctx, shop.ID, barberID)
	if err != nil {
		if httperr.IsBusiness(err, "barber_not_found") {
			return availability.EmptyResult(from, to), nil
		}
		return availability.Result{}, err
	}
	if !barber.TakesAppointments() {
		return availability.EmptyResult(from, to), nil
	}

	loc := uc.zones.Location(shop.Timezone)
	gran := uc.policy.granularity(shop)

	key := cache.Key{
		BarberID:       barberID,
		From:           from,
		To:             to,
		ServiceMin:     int(dur / time.Minute),
		GranularityMin: int(gran / time.Minute),
		Timezone:       loc.String(),
	}

	res, entry, hit := uc.cache.Get(ctx, key)
	if !hit {
		res, err = uc.compute(ctx, barberID, dur, gran, from, to, loc)
		if err != nil {
			return availability.Result{}, err
		}
		uc.cache.Set(ctx, entry, res)
	}

	metrics.ObserveAvailability(hit, time.Since(begin))

	cutoff := uc.zones.Now().Add(uc.policy.leadTime(shop))
	return res.NotBefore(cutoff), nil
}

// compute fetches schedule and bookings concurrently and runs the engine
// without a cutoff, so the result can be cached.
func (uc *GetAvailability) compute(
	ctx context.Context,
	barberID uint,
	dur time.Duration,
	gran time.Duration,
	from calendar.Date,
	to calendar.Date,
	loc *time.Location,
) (availability.Result, error) {

	if uc.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.policy.Timeout)
		defer cancel()
	}

	var (
		sched    availability.Schedule
		bookings []availability.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sched, err = uc.schedules.FetchSchedule(gctx, barberID, from, to)
		if err != nil {
			return fmt.Errorf("fetch schedule: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = uc.bookings.FetchBookings(gctx, barberID, from.Midnight(loc), to.AddDays(1).Midnight(loc))
		if err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return availability.Result{}, err
	}

	res, err := availability.Compute(availability.Request{
		From:            from,
		To:              to,
		ServiceDuration: dur,
		Granularity:     gran,
		Location:        loc,
	}, sched, bookings)
	if err != nil {
		uc.log.Error().Err(err).Uint("barber_id", barberID).Msg("availability computation failed")
		return availability.Result{}, err
	}
	return res, nil
}

// Invalidate drops cached availability of a barber. Failures are logged; the
// cache TTL bounds staleness.
func (uc *GetAvailability) Invalidate(ctx context.Context, barberID uint) {
	if err := uc.cache.Invalidate(ctx, barberID); err != nil {
		uc.log.Warn().Err(err).Uint("barber_id", barberID).Msg("availability cache invalidation failed")
	}
}
