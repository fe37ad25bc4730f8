package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 is a Monday.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var (
	mon = date(2024, time.January, 1)
	fri = date(2024, time.January, 5)
	sat = date(2024, time.January, 6)
	sun = date(2024, time.January, 7)
)

func TestNormalize(t *testing.T) {
	noon := time.Date(2024, time.January, 1, 12, 30, 45, 0, time.FixedZone("CET", 3600))
	assert.Equal(t, date(2024, time.January, 1), Normalize(noon))
}

func TestWorkCalendar_IsWorkingDay(t *testing.T) {
	cal := NewWorkCalendar()

	assert.True(t, cal.IsWorkingDay(mon))
	assert.True(t, cal.IsWorkingDay(fri))
	assert.False(t, cal.IsWorkingDay(sat))
	assert.False(t, cal.IsWorkingDay(sun))

	cal.AddHoliday(mon)
	assert.False(t, cal.IsWorkingDay(mon))

	cal.RemoveHoliday(mon)
	assert.True(t, cal.IsWorkingDay(mon))
}

func TestWorkCalendar_AddWorkingDays(t *testing.T) {
	cal := NewWorkCalendar()

	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"zero on working day", mon, 0, mon},
		{"zero on saturday normalizes forward", sat, 0, date(2024, time.January, 8)},
		{"monday plus four is friday", mon, 4, fri},
		{"friday plus one skips weekend", fri, 1, date(2024, time.January, 8)},
		{"two weeks", mon, 10, date(2024, time.January, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cal.AddWorkingDays(tt.from, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkCalendar_AddWorkingDays_Negative(t *testing.T) {
	cal := NewWorkCalendar()

	_, err := cal.AddWorkingDays(mon, -1)
	assert.ErrorIs(t, err, ErrNegativeDays)
}

func TestWorkCalendar_AddWorkingDays_SkipsHolidays(t *testing.T) {
	cal := NewWorkCalendar()
	cal.AddHoliday(date(2024, time.January, 2)) // Tuesday

	got, err := cal.AddWorkingDays(mon, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 3), got)
}

func TestWorkCalendar_ShiftWorkingDays_Backward(t *testing.T) {
	cal := NewWorkCalendar()

	assert.Equal(t, fri, cal.ShiftWorkingDays(date(2024, time.January, 8), -1))
	assert.Equal(t, mon, cal.ShiftWorkingDays(fri, -4))
}

func TestWorkCalendar_WorkingDaysBetween(t *testing.T) {
	cal := NewWorkCalendar()

	assert.Equal(t, 4, cal.WorkingDaysBetween(mon, fri))
	assert.Equal(t, 5, cal.WorkingDaysBetween(mon, date(2024, time.January, 8)))
	assert.Equal(t, 0, cal.WorkingDaysBetween(fri, mon))
	assert.Equal(t, 0, cal.WorkingDaysBetween(mon, mon))
	assert.Equal(t, 0, cal.WorkingDaysBetween(sat, sun))
}

func TestWorkCalendar_SignedWorkingDaysBetween(t *testing.T) {
	cal := NewWorkCalendar()

	assert.Equal(t, 4, cal.SignedWorkingDaysBetween(mon, fri))
	assert.Equal(t, -4, cal.SignedWorkingDaysBetween(fri, mon))
}

func TestWorkCalendar_WorkingDaySpan(t *testing.T) {
	cal := NewWorkCalendar()

	assert.Equal(t, 5, cal.WorkingDaySpan(mon, fri))
	assert.Equal(t, 1, cal.WorkingDaySpan(mon, mon))
	assert.Equal(t, 6, cal.WorkingDaySpan(mon, date(2024, time.January, 8)))
}

// WorkingDaysBetween(d, AddWorkingDays(d, n)) == n must hold for every
// start date, working or not, and every non-negative n.
func TestWorkCalendar_InverseLaw(t *testing.T) {
	cal := NewWorkCalendar()
	cal.AddHoliday(date(2024, time.January, 10))

	for offset := 0; offset < 14; offset++ {
		d := mon.AddDate(0, 0, offset)
		for n := 0; n <= 10; n++ {
			added, err := cal.AddWorkingDays(d, n)
			require.NoError(t, err)
			assert.Equal(t, n, cal.WorkingDaysBetween(d, added),
				"start %s n %d", d.Format("2006-01-02"), n)
		}
	}
}

func TestWorkCalendar_SetWorkingWeekday(t *testing.T) {
	cal := NewWorkCalendar()

	require.NoError(t, cal.SetWorkingWeekday(time.Saturday, true))
	assert.True(t, cal.IsWorkingDay(sat))

	// Disabling every weekday must be rejected before the last one goes.
	days := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday,
	}
	for _, d := range days[:len(days)-1] {
		require.NoError(t, cal.SetWorkingWeekday(d, false))
	}
	assert.ErrorIs(t, cal.SetWorkingWeekday(days[len(days)-1], false), ErrNoWorkingDays)
}

func TestNewContinuousCalendar(t *testing.T) {
	cal := NewContinuousCalendar()

	assert.True(t, cal.IsWorkingDay(sat))
	assert.True(t, cal.IsWorkingDay(sun))
	assert.Equal(t, 2, cal.WorkingDaysBetween(fri, sun))
}
