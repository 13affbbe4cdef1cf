package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func iv(t *testing.T, sh, sm, eh, em int) Interval {
	t.Helper()
	out, err := NewInterval(at(sh, sm), at(eh, em))
	require.NoError(t, err)
	return out
}

func TestNewInterval_RejectsEmptyAndReversed(t *testing.T) {
	_, err := NewInterval(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = NewInterval(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestSubtract(t *testing.T) {
	base := iv(t, 9, 0, 18, 0)

	t.Run("cut covers base", func(t *testing.T) {
		out, err := Subtract(base, iv(t, 8, 0, 19, 0))
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("cut strictly inside", func(t *testing.T) {
		out, err := Subtract(base, iv(t, 12, 0, 13, 0))
		require.NoError(t, err)
		assert.Equal(t, []Interval{iv(t, 9, 0, 12, 0), iv(t, 13, 0, 18, 0)}, out)
	})

	t.Run("cut at start", func(t *testing.T) {
		out, err := Subtract(base, iv(t, 8, 0, 10, 0))
		require.NoError(t, err)
		assert.Equal(t, []Interval{iv(t, 10, 0, 18, 0)}, out)
	})

	t.Run("cut at end", func(t *testing.T) {
		out, err := Subtract(base, iv(t, 17, 0, 20, 0))
		require.NoError(t, err)
		assert.Equal(t, []Interval{iv(t, 9, 0, 17, 0)}, out)
	})

	t.Run("disjoint or touching keeps base", func(t *testing.T) {
		out, err := Subtract(base, iv(t, 18, 0, 19, 0))
		require.NoError(t, err)
		assert.Equal(t, []Interval{base}, out)
	})

	t.Run("malformed input fails", func(t *testing.T) {
		_, err := Subtract(base, Interval{Start: at(12, 0), End: at(11, 0)})
		assert.ErrorIs(t, err, ErrInvalidInterval)
	})
}

func TestSubtractAll_OverlappingCuts(t *testing.T) {
	free := []Interval{iv(t, 9, 0, 18, 0)}

	free, err := SubtractAll(free, iv(t, 12, 0, 13, 0))
	require.NoError(t, err)
	free, err = SubtractAll(free, iv(t, 12, 30, 14, 0))
	require.NoError(t, err)

	assert.Equal(t, []Interval{iv(t, 9, 0, 12, 0), iv(t, 14, 0, 18, 0)}, free)
}

func TestOverlaps_TouchingIsNotConflict(t *testing.T) {
	ok, err := Overlaps(iv(t, 9, 0, 10, 0), iv(t, 10, 0, 11, 0))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Overlaps(iv(t, 9, 0, 10, 1), iv(t, 10, 0, 11, 0))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Overlaps(Interval{}, iv(t, 10, 0, 11, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestParseClock(t *testing.T) {
	cases := map[string]Clock{
		"00:00":    0,
		"09:30":    570,
		"18:00:00": 1080,
		"24:00":    MinutesPerDay,
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "9", "9:5", "24:01", "12:60", "10:00:30", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestClock_OnUsesLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	d := Date{Year: 2026, Month: time.July, Day: 1}
	got := MustClock("09:00").On(d, ny)

	assert.Equal(t, time.Date(2026, 7, 1, 13, 0, 0, 0, time.UTC), got.UTC())
	assert.Equal(t, MustClock("09:00"), ClockOf(got, ny))
}

func TestIntervalOn_EndOfDay(t *testing.T) {
	d := Date{Year: 2026, Month: time.March, Day: 2}

	out, err := IntervalOn(d, MustClock("22:00"), MustClock("24:00"), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, out.Duration())

	_, err = IntervalOn(d, MustClock("10:00"), MustClock("09:00"), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestDate_Weekday(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d.Weekday())

	d, err = ParseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Thursday, d.Weekday())

	_, err = ParseDate("2026-02-29")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestWeekdayOf_DependsOnZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Sunday 20:00 UTC is already Monday in Tokyo.
	instant := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Sunday, WeekdayOf(instant, time.UTC))
	assert.Equal(t, time.Monday, WeekdayOf(instant, tokyo))
}

func TestDate_Arithmetic(t *testing.T) {
	d := Date{Year: 2026, Month: time.December, Day: 31}

	assert.Equal(t, Date{Year: 2027, Month: time.January, Day: 1}, d.AddDays(1))
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.Equal(t, -3, d.DaysUntil(d.AddDays(-3)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.Equal(t, "2026-12-31", d.String())
}

func TestRange(t *testing.T) {
	from := Date{Year: 2026, Month: time.February, Day: 27}
	to := Date{Year: 2026, Month: time.March, Day: 2}

	got := Range(from, to)
	require.Len(t, got, 4)
	assert.Equal(t, from, got[0])
	assert.Equal(t, to, got[3])

	assert.Empty(t, Range(to, from))
}
