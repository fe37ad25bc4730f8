package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReschedule_TargetOnly(t *testing.T) {
	t.Run("move start preserves duration", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 5)

		start := day(2024, time.January, 8)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 8), a.PlannedStart())
		assert.Equal(t, day(2024, time.January, 12), a.PlannedFinish())
		assert.Equal(t, 5, a.Duration())
		require.Len(t, result.Changes, 1)
		assert.Equal(t, day(2024, time.January, 1), result.Changes[0].OldStart)
		assert.Equal(t, day(2024, time.January, 8), result.Changes[0].NewStart)
	})

	t.Run("move finish back-computes start", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 3)

		finish := day(2024, time.January, 10)
		_, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewFinish: &finish})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 8), a.PlannedStart())
		assert.Equal(t, day(2024, time.January, 10), a.PlannedFinish())
		assert.Equal(t, 3, a.Duration())
	})

	t.Run("change duration preserves start", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 3)

		d := 5
		_, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewDuration: &d})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 1), a.PlannedStart())
		assert.Equal(t, day(2024, time.January, 5), a.PlannedFinish())
	})

	t.Run("empty request fails", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 3)

		_, err := s.Reschedule(ChangeRequest{ActivityID: a.ID()})
		assert.ErrorIs(t, err, ErrNoChangeRequested)
	})

	t.Run("negative duration fails without mutation", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 3)

		d := -1
		_, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewDuration: &d})
		assert.ErrorIs(t, err, ErrNegativeDuration)
		assert.Equal(t, 3, a.Duration())
		assert.Equal(t, day(2024, time.January, 1), a.PlannedStart())
	})
}

func TestReschedule_Propagation(t *testing.T) {
	t.Run("tight chain shifts by the same amount", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2) // Mon-Tue
		b := mustAdd(t, s, "B", day(2024, time.January, 3), 2) // Wed-Thu
		c := mustAdd(t, s, "C", day(2024, time.January, 5), 1) // Fri
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)
		_, err = s.AddDependency(b.ID(), c.ID(), FinishToStart, 0)
		require.NoError(t, err)

		start := day(2024, time.January, 3)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 3), a.PlannedStart())
		assert.Equal(t, day(2024, time.January, 4), a.PlannedFinish())
		assert.Equal(t, day(2024, time.January, 5), b.PlannedStart())
		assert.Equal(t, day(2024, time.January, 8), b.PlannedFinish())
		assert.Equal(t, day(2024, time.January, 9), c.PlannedStart())
		assert.Len(t, result.Changes, 3)
	})

	t.Run("successor float absorbs the shift", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)  // Mon-Tue
		b := mustAdd(t, s, "B", day(2024, time.January, 10), 2) // already a week later
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)

		start := day(2024, time.January, 2)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		// B's gap swallows the one-day slip; only A moved.
		assert.Equal(t, day(2024, time.January, 10), b.PlannedStart())
		require.Len(t, result.Changes, 1)
		assert.Equal(t, a.ID(), result.Changes[0].ActivityID)
	})

	t.Run("activities off the downstream path never move", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
		b := mustAdd(t, s, "B", day(2024, time.January, 3), 2)
		bystander := mustAdd(t, s, "X", day(2024, time.January, 3), 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)

		start := day(2024, time.January, 8)
		_, err = s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 3), bystander.PlannedStart())
	})

	t.Run("moving target earlier does not pull successors back", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 8), 2)
		b := mustAdd(t, s, "B", day(2024, time.January, 10), 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)

		start := day(2024, time.January, 1)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		assert.Equal(t, day(2024, time.January, 10), b.PlannedStart())
		require.Len(t, result.Changes, 1)
	})

	t.Run("diamond propagates through both branches once", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 1)  // Mon
		b := mustAdd(t, s, "B", day(2024, time.January, 2), 1)  // Tue
		c := mustAdd(t, s, "C", day(2024, time.January, 2), 2)  // Tue-Wed
		d := mustAdd(t, s, "D", day(2024, time.January, 4), 1)  // Thu
		for _, edge := range [][2]*Activity{{a, b}, {a, c}, {b, d}, {c, d}} {
			_, err := s.AddDependency(edge[0].ID(), edge[1].ID(), FinishToStart, 0)
			require.NoError(t, err)
		}

		start := day(2024, time.January, 2)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		// D obeys the later of its two shifted predecessors.
		assert.Equal(t, day(2024, time.January, 3), b.PlannedStart())
		assert.Equal(t, day(2024, time.January, 3), c.PlannedStart())
		assert.Equal(t, day(2024, time.January, 4), c.PlannedFinish())
		assert.Equal(t, day(2024, time.January, 5), d.PlannedStart())
		assert.Len(t, result.Changes, 4)
	})

	t.Run("reports fresh critical path", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
		b := mustAdd(t, s, "B", day(2024, time.January, 3), 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)

		start := day(2024, time.January, 3)
		result, err := s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)
		require.NotNil(t, result.Result)
		assert.Equal(t, day(2024, time.January, 8), result.Result.ProjectFinish)
	})

	t.Run("emits event listing every changed activity", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
		b := mustAdd(t, s, "B", day(2024, time.January, 3), 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
		require.NoError(t, err)
		s.ClearDomainEvents()

		start := day(2024, time.January, 3)
		_, err = s.Reschedule(ChangeRequest{ActivityID: a.ID(), NewStart: &start})
		require.NoError(t, err)

		events := s.DomainEvents()
		require.Len(t, events, 1)
		rescheduled, ok := events[0].(ActivityRescheduled)
		require.True(t, ok)
		assert.Len(t, rescheduled.ChangedActivityIDs, 2)
	})
}

func TestReschedule_ComputeFailureLeavesGraphUnchanged(t *testing.T) {
	// With every activity unscheduled and no project start, the critical
	// path recomputation after the change has no anchor date and fails.
	// The change itself is valid, so the rollback path is the only thing
	// keeping the failed call from leaking a partial mutation.
	s := newTestSchedule(t)
	target := mustAdd(t, s, "A", time.Time{}, 3)
	other := mustAdd(t, s, "B", time.Time{}, 2)
	s.ClearDomainEvents()

	d := 7
	_, err := s.Reschedule(ChangeRequest{ActivityID: target.ID(), NewDuration: &d})

	var disconnectedErr *DisconnectedDateError
	require.ErrorAs(t, err, &disconnectedErr)
	assert.Equal(t, 3, target.Duration())
	assert.False(t, target.IsScheduled())
	assert.Equal(t, 2, other.Duration())
	assert.Empty(t, s.DomainEvents())
}

func TestReschedule_UnknownActivity(t *testing.T) {
	s := newTestSchedule(t)
	start := day(2024, time.January, 1)
	_, err := s.Reschedule(ChangeRequest{ActivityID: uuid.New(), NewStart: &start})
	var unknownErr *UnknownActivityError
	assert.ErrorAs(t, err, &unknownErr)
}
