package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
)

func TestNewActivity(t *testing.T) {
	cal := calendarDomain.NewWorkCalendar()

	t.Run("derives finish through the calendar", func(t *testing.T) {
		a, err := NewActivity("A100", "Pour foundation", day(2024, time.January, 4), 3, cal)
		require.NoError(t, err)
		// Thu, Fri, then Monday.
		assert.Equal(t, day(2024, time.January, 8), a.PlannedFinish())
	})

	t.Run("milestone finishes the day it starts", func(t *testing.T) {
		a, err := NewActivity("M1", "Permit granted", day(2024, time.January, 5), 0, cal)
		require.NoError(t, err)
		assert.True(t, a.IsMilestone())
		assert.Equal(t, a.PlannedStart(), a.PlannedFinish())
	})

	t.Run("zero start leaves activity unscheduled", func(t *testing.T) {
		a, err := NewActivity("A100", "Later", time.Time{}, 3, cal)
		require.NoError(t, err)
		assert.False(t, a.IsScheduled())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := NewActivity("", "x", day(2024, time.January, 1), 1, cal)
		assert.ErrorIs(t, err, ErrEmptyCode)
		_, err = NewActivity("A", "", day(2024, time.January, 1), 1, cal)
		assert.ErrorIs(t, err, ErrEmptyName)
		_, err = NewActivity("A", "x", day(2024, time.January, 1), -1, cal)
		assert.ErrorIs(t, err, ErrNegativeDuration)
	})
}

func TestActivity_Progress(t *testing.T) {
	cal := calendarDomain.NewWorkCalendar()
	a, err := NewActivity("A", "x", day(2024, time.January, 1), 2, cal)
	require.NoError(t, err)

	require.NoError(t, a.UpdateProgress(40))
	assert.ErrorIs(t, a.UpdateProgress(30), ErrProgressRegression)
	assert.ErrorIs(t, a.UpdateProgress(101), ErrInvalidPercentComplete)
	require.NoError(t, a.UpdateProgress(40)) // same value is allowed
}

func TestActivity_StatusLifecycle(t *testing.T) {
	cal := calendarDomain.NewWorkCalendar()

	t.Run("start and complete", func(t *testing.T) {
		a, err := NewActivity("A", "x", day(2024, time.January, 1), 2, cal)
		require.NoError(t, err)

		require.NoError(t, a.Start(day(2024, time.January, 1)))
		assert.Equal(t, StatusInProgress, a.Status())

		require.NoError(t, a.Complete(day(2024, time.January, 2)))
		assert.Equal(t, StatusCompleted, a.Status())
		assert.Equal(t, 100, a.PercentComplete())
	})

	t.Run("complete before start is rejected", func(t *testing.T) {
		a, err := NewActivity("A", "x", day(2024, time.January, 1), 2, cal)
		require.NoError(t, err)
		require.NoError(t, a.Start(day(2024, time.January, 5)))

		err = a.Complete(day(2024, time.January, 2))
		var rangeErr *InvalidDateRangeError
		require.ErrorAs(t, err, &rangeErr)
		assert.Equal(t, StatusInProgress, a.Status())
	})

	t.Run("terminal states allow no transitions", func(t *testing.T) {
		a, err := NewActivity("A", "x", day(2024, time.January, 1), 2, cal)
		require.NoError(t, err)
		require.NoError(t, a.ChangeStatus(StatusCancelled))
		assert.ErrorIs(t, a.ChangeStatus(StatusInProgress), ErrInvalidStatusTransition)
	})

	t.Run("hold and resume", func(t *testing.T) {
		a, err := NewActivity("A", "x", day(2024, time.January, 1), 2, cal)
		require.NoError(t, err)
		require.NoError(t, a.Start(day(2024, time.January, 1)))
		require.NoError(t, a.ChangeStatus(StatusOnHold))
		require.NoError(t, a.ChangeStatus(StatusInProgress))
	})
}

func TestDurationFromDates(t *testing.T) {
	cal := calendarDomain.NewWorkCalendar()

	t.Run("counts both endpoints", func(t *testing.T) {
		d, err := DurationFromDates(cal, day(2024, time.January, 1), day(2024, time.January, 5), false)
		require.NoError(t, err)
		assert.Equal(t, 5, d)
	})

	t.Run("spans weekends", func(t *testing.T) {
		d, err := DurationFromDates(cal, day(2024, time.January, 4), day(2024, time.January, 8), false)
		require.NoError(t, err)
		assert.Equal(t, 3, d)
	})

	t.Run("milestone is zero regardless of dates", func(t *testing.T) {
		d, err := DurationFromDates(cal, day(2024, time.January, 1), day(2024, time.January, 1), true)
		require.NoError(t, err)
		assert.Equal(t, 0, d)
	})

	t.Run("finish before start fails", func(t *testing.T) {
		_, err := DurationFromDates(cal, day(2024, time.January, 5), day(2024, time.January, 1), false)
		var rangeErr *InvalidDateRangeError
		assert.ErrorAs(t, err, &rangeErr)
	})
}
