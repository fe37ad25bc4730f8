package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleStats(t *testing.T) {
	t.Run("counts and duration weighted progress", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 8) // Mon .. Wed next week
		b := mustAdd(t, s, "B", day(2024, time.January, 1), 2)
		m := mustAdd(t, s, "M", day(2024, time.January, 1), 0)
		_, err := s.AddDependency(a.ID(), m.ID(), FinishToStart, 0)
		require.NoError(t, err)

		require.NoError(t, a.UpdateProgress(50))
		require.NoError(t, b.Start(day(2024, time.January, 1)))
		require.NoError(t, b.Complete(day(2024, time.January, 2)))

		stats, err := s.Stats(day(2024, time.January, 3))
		require.NoError(t, err)

		assert.Equal(t, 3, stats.ActivityCount)
		assert.Equal(t, 1, stats.DependencyCount)
		assert.Equal(t, 1, stats.MilestoneCount)
		assert.Equal(t, 1, stats.StatusCounts[StatusNotStarted]) // A was never started
		assert.Equal(t, 1, stats.StatusCounts[StatusCompleted])

		// (8*50 + 2*100 + 1*0) / 11
		assert.InDelta(t, 600.0/11.0, stats.PercentComplete, 0.001)
		assert.Equal(t, day(2024, time.January, 1), stats.ProjectStart)
		assert.Nil(t, stats.ProjectVariance)
	})

	t.Run("overdue excludes completed and cancelled", func(t *testing.T) {
		s := newTestSchedule(t)
		mustAdd(t, s, "L", day(2024, time.January, 1), 1)
		done := mustAdd(t, s, "D", day(2024, time.January, 1), 1)
		gone := mustAdd(t, s, "G", day(2024, time.January, 1), 1)
		mustAdd(t, s, "F", day(2024, time.January, 10), 1)

		require.NoError(t, done.Start(day(2024, time.January, 1)))
		require.NoError(t, done.Complete(day(2024, time.January, 1)))
		require.NoError(t, gone.ChangeStatus(StatusCancelled))

		stats, err := s.Stats(day(2024, time.January, 8))
		require.NoError(t, err)
		assert.Equal(t, 1, stats.OverdueCount)
	})

	t.Run("includes project variance when a baseline is active", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
		_, err := s.CreateBaseline("BL1", "")
		require.NoError(t, err)

		start := day(2024, time.January, 3)
		_, err = s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		stats, err := s.Stats(day(2024, time.January, 1))
		require.NoError(t, err)
		require.NotNil(t, stats.ProjectVariance)
		assert.Equal(t, 2, *stats.ProjectVariance)
	})

	t.Run("critical count matches computation", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
		b := mustAdd(t, s, "B", day(2024, time.January, 3), 2)
		mustAdd(t, s, "X", day(2024, time.January, 1), 1)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)

		stats, err := s.Stats(day(2024, time.January, 1))
		require.NoError(t, err)
		assert.Equal(t, 2, stats.CriticalCount)
	})
}
