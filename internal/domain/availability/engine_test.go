package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/domain/calendar"
	"github.com/BruksfildServices01/barber-booking/internal/domain/slotfmt"
)

// 2026-03-02 is a Monday.
var (
	monday    = calendar.Date{Year: 2026, Month: time.March, Day: 2}
	wednesday = calendar.Date{Year: 2026, Month: time.March, Day: 4}
)

func clock(s string) calendar.Clock { return calendar.MustClock(s) }

func weekdays(start, end string) []WorkingHours {
	out := make([]WorkingHours, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out, WorkingHours{Weekday: wd, Start: clock(start), End: clock(end)})
	}
	return out
}

func request(from, to calendar.Date, dur, step int) Request {
	return Request{
		From:            from,
		To:              to,
		ServiceDuration: time.Duration(dur) * time.Minute,
		Granularity:     time.Duration(step) * time.Minute,
		Location:        time.UTC,
	}
}

func clocks(starts []time.Time) []string {
	out := make([]string, 0, len(starts))
	for _, t := range starts {
		out = append(out, calendar.ClockOf(t, time.UTC).String())
	}
	return out
}

func TestCompute_FullDayWithoutExclusions(t *testing.T) {
	res, err := Compute(request(monday, monday, 30, 30), Schedule{WorkingHours: weekdays("09:00", "18:00")}, nil)
	require.NoError(t, err)

	got := clocks(res.For(monday))
	require.Len(t, got, 18)
	assert.Equal(t, "09:00", got[0])
	assert.Equal(t, "09:30", got[1])
	assert.Equal(t, "17:30", got[17])
}

func TestCompute_BookingExcludesOverlappingStarts(t *testing.T) {
	bookings := []Booking{{
		Start:           calendar.MustClock("10:00").On(monday, time.UTC),
		DurationMinutes: 45,
	}}

	res, err := Compute(request(monday, monday, 30, 15), Schedule{WorkingHours: weekdays("09:00", "18:00")}, bookings)
	require.NoError(t, err)

	got := clocks(res.For(monday))
	assert.Contains(t, got, "09:30")
	assert.Contains(t, got, "10:45")
	for _, bad := range []string{"09:45", "10:00", "10:15", "10:30"} {
		assert.NotContains(t, got, bad)
	}
}

func TestCompute_WeeklyBreakLeavesGap(t *testing.T) {
	sched := Schedule{
		WorkingHours: weekdays("09:00", "18:00"),
		Breaks: []Break{{
			Rule:  Weekly{Weekday: time.Monday},
			Start: clock("12:00"),
			End:   clock("13:00"),
		}},
	}

	res, err := Compute(request(monday, monday.AddDays(1), 30, 15), sched, nil)
	require.NoError(t, err)

	mon := clocks(res.For(monday))
	assert.Contains(t, mon, "11:30")
	assert.Contains(t, mon, "13:00")
	for _, bad := range []string{"11:45", "12:00", "12:15", "12:30", "12:45"} {
		assert.NotContains(t, mon, bad)
	}

	// Tuesday is untouched by a Monday break.
	assert.Contains(t, clocks(res.For(monday.AddDays(1))), "12:00")
}

func TestCompute_DayOffOnlyAffectsItsDate(t *testing.T) {
	next := wednesday.AddDays(7)
	sched := Schedule{
		WorkingHours: []WorkingHours{{Weekday: time.Wednesday, Start: clock("09:00"), End: clock("12:00")}},
		Breaks:       []Break{{Rule: Everyday{}, Start: clock("10:00"), End: clock("10:30")}},
		DaysOff:      []calendar.Date{wednesday},
	}

	res, err := Compute(request(wednesday, next, 30, 30), sched, nil)
	require.NoError(t, err)

	require.Len(t, res.Days, 8)
	assert.Empty(t, res.For(wednesday))
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, clocks(res.For(next)))
	assert.Equal(t, 5, res.Total())
}

func TestCompute_CustomBreakMatchesExactDate(t *testing.T) {
	sched := Schedule{
		WorkingHours: weekdays("09:00", "11:00"),
		Breaks:       []Break{{Rule: Custom{Date: monday}, Start: clock("09:00"), End: clock("10:00")}},
	}

	res, err := Compute(request(monday, monday.AddDays(1), 60, 60), sched, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"10:00"}, clocks(res.For(monday)))
	assert.Equal(t, []string{"09:00", "10:00"}, clocks(res.For(monday.AddDays(1))))
}

func TestCompute_NoWorkingHoursMeansEmpty(t *testing.T) {
	sched := Schedule{WorkingHours: []WorkingHours{{Weekday: time.Friday, Start: clock("09:00"), End: clock("10:00")}}}

	res, err := Compute(request(monday, monday, 30, 15), sched, nil)
	require.NoError(t, err)

	require.Len(t, res.Days, 1)
	assert.NotNil(t, res.Days[0].Starts)
	assert.Empty(t, res.Days[0].Starts)
}

func TestCompute_ShortGapsProduceNothing(t *testing.T) {
	sched := Schedule{
		WorkingHours: weekdays("09:00", "10:00"),
		Breaks:       []Break{{Rule: Everyday{}, Start: clock("09:20"), End: clock("09:40")}},
	}

	res, err := Compute(request(monday, monday, 30, 5), sched, nil)
	require.NoError(t, err)
	assert.Empty(t, res.For(monday))
}

func TestCompute_LeadTimeCutoff(t *testing.T) {
	req := request(monday, monday.AddDays(1), 60, 60)
	req.Now = calendar.MustClock("10:10").On(monday, time.UTC)
	req.LeadTime = 30 * time.Minute

	res, err := Compute(req, Schedule{WorkingHours: weekdays("09:00", "13:00")}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"11:00", "12:00"}, clocks(res.For(monday)))
	assert.Len(t, res.For(monday.AddDays(1)), 4)
}

func TestCompute_FirstWorkingHoursPerWeekdayWins(t *testing.T) {
	sched := Schedule{WorkingHours: []WorkingHours{
		{Weekday: time.Monday, Start: clock("14:00"), End: clock("15:00")},
		{Weekday: time.Monday, Start: clock("09:00"), End: clock("10:00")},
	}}

	res, err := Compute(request(monday, monday, 60, 60), sched, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00"}, clocks(res.For(monday)))
}

func TestCompute_UsesShopTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	req := request(monday, monday, 60, 60)
	req.Location = ny

	res, err := Compute(req, Schedule{WorkingHours: weekdays("09:00", "11:00")}, nil)
	require.NoError(t, err)

	starts := res.For(monday)
	require.Len(t, starts, 2)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC), starts[0].UTC())
}

func labels(t *testing.T, starts []time.Time, dur time.Duration, loc *time.Location) []string {
	t.Helper()
	slots, err := slotfmt.Formatter{Location: loc}.Day(starts, dur)
	require.NoError(t, err)

	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Label)
	}
	return out
}

func TestCompute_DaylightSavingTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	t.Run("spring forward skips the missing hour", func(t *testing.T) {
		// 02:00 EST jumps to 03:00 EDT.
		day := calendar.Date{Year: 2026, Month: time.March, Day: 8}
		req := request(day, day, 60, 60)
		req.Location = ny

		res, err := Compute(req, Schedule{WorkingHours: weekdays("00:00", "06:00")}, nil)
		require.NoError(t, err)

		starts := res.For(day)
		require.Len(t, starts, 5)
		for i := 1; i < len(starts); i++ {
			assert.Equal(t, time.Hour, starts[i].Sub(starts[i-1]))
		}
		assert.Equal(t, time.Date(2026, 3, 8, 5, 0, 0, 0, time.UTC), starts[0].UTC())
		assert.Equal(t, time.Date(2026, 3, 8, 9, 0, 0, 0, time.UTC), starts[4].UTC())

		assert.Equal(t, []string{
			"00:00 - 01:00",
			"01:00 - 03:00",
			"03:00 - 04:00",
			"04:00 - 05:00",
			"05:00 - 06:00",
		}, labels(t, starts, time.Hour, ny))
	})

	t.Run("fall back repeats the hour", func(t *testing.T) {
		// 02:00 EDT goes back to 01:00 EST.
		day := calendar.Date{Year: 2026, Month: time.November, Day: 1}
		req := request(day, day, 60, 60)
		req.Location = ny

		res, err := Compute(req, Schedule{WorkingHours: weekdays("00:00", "03:00")}, nil)
		require.NoError(t, err)

		starts := res.For(day)
		require.Len(t, starts, 4)
		for i := 1; i < len(starts); i++ {
			assert.Equal(t, time.Hour, starts[i].Sub(starts[i-1]))
		}
		assert.Equal(t, time.Date(2026, 11, 1, 4, 0, 0, 0, time.UTC), starts[0].UTC())
		assert.Equal(t, time.Date(2026, 11, 1, 7, 0, 0, 0, time.UTC), starts[3].UTC())

		assert.Equal(t, []string{
			"00:00 - 01:00",
			"01:00 - 01:00",
			"01:00 - 02:00",
			"02:00 - 03:00",
		}, labels(t, starts, time.Hour, ny))
	})

	t.Run("business hours keep their local labels", func(t *testing.T) {
		for _, day := range []calendar.Date{
			{Year: 2026, Month: time.March, Day: 8},
			{Year: 2026, Month: time.November, Day: 1},
		} {
			from, to := day.AddDays(-1), day.AddDays(1)
			req := request(from, to, 30, 60)
			req.Location = ny

			res, err := Compute(req, Schedule{WorkingHours: weekdays("09:00", "12:00")}, nil)
			require.NoError(t, err)
			require.Len(t, res.Days, 3)

			for _, d := range res.Days {
				assert.Equal(t, []string{
					"09:00 - 09:30",
					"10:00 - 10:30",
					"11:00 - 11:30",
				}, labels(t, d.Starts, 30*time.Minute, ny), d.Date.String())
			}

			// The UTC offset changes across the transition date.
			before := res.For(from)[0]
			after := res.For(to)[0]
			assert.NotEqual(t, 48*time.Hour, after.Sub(before), day.String())
		}
	})
}

func TestCompute_InvalidData(t *testing.T) {
	t.Run("reversed working hours", func(t *testing.T) {
		sched := Schedule{WorkingHours: []WorkingHours{{Weekday: time.Monday, Start: clock("18:00"), End: clock("09:00")}}}
		_, err := Compute(request(monday, monday, 30, 15), sched, nil)
		assert.ErrorIs(t, err, calendar.ErrInvalidInterval)
	})

	t.Run("reversed break", func(t *testing.T) {
		sched := Schedule{
			WorkingHours: weekdays("09:00", "18:00"),
			Breaks:       []Break{{Rule: Everyday{}, Start: clock("13:00"), End: clock("12:00")}},
		}
		_, err := Compute(request(monday, monday, 30, 15), sched, nil)
		assert.ErrorIs(t, err, calendar.ErrInvalidInterval)
	})

	t.Run("zero length booking", func(t *testing.T) {
		bookings := []Booking{{Start: calendar.MustClock("10:00").On(monday, time.UTC)}}
		_, err := Compute(request(monday, monday, 30, 15), Schedule{WorkingHours: weekdays("09:00", "18:00")}, bookings)
		assert.ErrorIs(t, err, calendar.ErrInvalidInterval)
	})

	t.Run("bad request", func(t *testing.T) {
		_, err := Compute(request(monday, monday.AddDays(-1), 30, 15), Schedule{}, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)

		_, err = Compute(request(monday, monday, 0, 15), Schedule{}, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)

		req := request(monday, monday, 30, 15)
		req.Location = nil
		_, err = Compute(req, Schedule{}, nil)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestCompute_Properties(t *testing.T) {
	sched := Schedule{
		WorkingHours: weekdays("08:00", "20:00"),
		Breaks: []Break{
			{Rule: Everyday{}, Start: clock("12:00"), End: clock("13:00")},
			{Rule: Weekly{Weekday: time.Tuesday}, Start: clock("12:30"), End: clock("14:10")},
		},
		DaysOff: []calendar.Date{monday.AddDays(3)},
	}
	bookings := []Booking{
		{Start: calendar.MustClock("09:10").On(monday, time.UTC), DurationMinutes: 40},
		{Start: calendar.MustClock("16:00").On(monday.AddDays(1), time.UTC), DurationMinutes: 25},
	}
	req := request(monday, monday.AddDays(6), 35, 10)

	first, err := Compute(req, sched, bookings)
	require.NoError(t, err)
	second, err := Compute(req, sched, bookings)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	busy, err := bookingIntervals(bookings)
	require.NoError(t, err)

	for _, day := range first.Days {
		work, err := calendar.IntervalOn(day.Date, clock("08:00"), clock("20:00"), time.UTC)
		require.NoError(t, err)

		for i, start := range day.Starts {
			if i > 0 {
				assert.True(t, day.Starts[i-1].Before(start), "order on %s", day.Date)
			}

			slot, err := calendar.NewInterval(start, start.Add(req.ServiceDuration))
			require.NoError(t, err)
			assert.True(t, work.Fits(start, req.ServiceDuration))

			for _, b := range busy {
				hit, err := calendar.Overlaps(slot, b)
				require.NoError(t, err)
				assert.False(t, hit, "slot %s overlaps a booking", start)
			}
			for _, br := range sched.Breaks {
				if !br.Rule.AppliesOn(day.Date) {
					continue
				}
				cut, err := calendar.IntervalOn(day.Date, br.Start, br.End, time.UTC)
				require.NoError(t, err)
				hit, err := calendar.Overlaps(slot, cut)
				require.NoError(t, err)
				assert.False(t, hit, "slot %s overlaps a break", start)
			}
		}
	}

	assert.Empty(t, first.For(monday.AddDays(3)))
}

func TestCompute_GranularityFromFreeIntervalStart(t *testing.T) {
	bookings := []Booking{{Start: calendar.MustClock("09:00").On(monday, time.UTC), DurationMinutes: 25}}

	res, err := Compute(request(monday, monday, 30, 15), Schedule{WorkingHours: weekdays("09:00", "10:30")}, bookings)
	require.NoError(t, err)

	// The free interval starts at 09:25, so the grid does too.
	assert.Equal(t, []string{"09:25", "09:40", "09:55"}, clocks(res.For(monday)))
}

func TestResult_NotBefore(t *testing.T) {
	res, err := Compute(request(monday, monday.AddDays(1), 60, 60), Schedule{WorkingHours: weekdays("09:00", "12:00")}, nil)
	require.NoError(t, err)

	cut := res.NotBefore(calendar.MustClock("10:00").On(monday, time.UTC))
	assert.Equal(t, []string{"10:00", "11:00"}, clocks(cut.For(monday)))
	assert.Len(t, cut.For(monday.AddDays(1)), 3)

	assert.Equal(t, res, res.NotBefore(time.Time{}))
	assert.Len(t, res.For(monday), 3)
}

func TestEmptyResult(t *testing.T) {
	res := EmptyResult(monday, monday.AddDays(2))
	require.Len(t, res.Days, 3)
	assert.Zero(t, res.Total())
	assert.Nil(t, res.For(monday.AddDays(5)))
}
