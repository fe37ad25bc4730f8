package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSchedule_CriticalChain(t *testing.T) {
	// A is a standalone milestone; B drives C through a finish-to-start
	// edge. B and C form the critical path, A floats to the project finish.
	s := newTestSchedule(t)
	a := mustAdd(t, s, "A", day(2024, time.January, 1), 0)
	b := mustAdd(t, s, "B", day(2024, time.January, 1), 5)
	c := mustAdd(t, s, "C", time.Time{}, 3)
	_, err := s.AddDependency(b.ID(), c.ID(), FinishToStart, 0)
	require.NoError(t, err)

	result, err := s.ComputeSchedule()
	require.NoError(t, err)

	bs, _ := result.Activity(b.ID())
	assert.Equal(t, day(2024, time.January, 1), bs.EarlyStart)
	assert.Equal(t, day(2024, time.January, 5), bs.EarlyFinish)
	assert.Equal(t, 0, bs.TotalFloat)
	assert.True(t, bs.Critical)

	// C starts the working day after B finishes, skipping the weekend.
	cs, _ := result.Activity(c.ID())
	assert.Equal(t, day(2024, time.January, 8), cs.EarlyStart)
	assert.Equal(t, day(2024, time.January, 10), cs.EarlyFinish)
	assert.Equal(t, 0, cs.TotalFloat)
	assert.True(t, cs.Critical)

	// The milestone can slide to the project finish without delaying anything.
	as, _ := result.Activity(a.ID())
	assert.Equal(t, day(2024, time.January, 1), as.EarlyStart)
	assert.Equal(t, day(2024, time.January, 10), as.LateFinish)
	assert.Equal(t, 7, as.TotalFloat)
	assert.False(t, as.Critical)

	assert.Equal(t, day(2024, time.January, 10), result.ProjectFinish)
	assert.Equal(t, []interface{}{b.ID(), c.ID()}, []interface{}{result.CriticalPath[0], result.CriticalPath[1]})
	assert.Len(t, result.CriticalPath, 2)
}

func TestComputeSchedule_LagAndLead(t *testing.T) {
	t.Run("positive lag defers successor", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 2) // Mon-Tue
		b := mustAdd(t, s, "B", time.Time{}, 1)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 2)
		require.NoError(t, err)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		bs, _ := result.Activity(b.ID())
		// A finishes Tue Jan 2; one day gap is Wed, two lag days push to Fri.
		assert.Equal(t, day(2024, time.January, 5), bs.EarlyStart)
	})

	t.Run("negative lag overlaps successor", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 5) // Mon-Fri
		b := mustAdd(t, s, "B", time.Time{}, 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, -2)
		require.NoError(t, err)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		bs, _ := result.Activity(b.ID())
		assert.Equal(t, day(2024, time.January, 4), bs.EarlyStart)
	})
}

func TestComputeSchedule_DependencyKinds(t *testing.T) {
	t.Run("start to start", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 5)
		b := mustAdd(t, s, "B", time.Time{}, 2)
		_, err := s.AddDependency(a.ID(), b.ID(), StartToStart, 1)
		require.NoError(t, err)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		bs, _ := result.Activity(b.ID())
		assert.Equal(t, day(2024, time.January, 2), bs.EarlyStart)
	})

	t.Run("finish to finish", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 1), 5) // finishes Fri Jan 5
		b := mustAdd(t, s, "B", time.Time{}, 2)
		_, err := s.AddDependency(a.ID(), b.ID(), FinishToFinish, 0)
		require.NoError(t, err)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		bs, _ := result.Activity(b.ID())
		assert.Equal(t, day(2024, time.January, 5), bs.EarlyFinish)
		assert.Equal(t, day(2024, time.January, 4), bs.EarlyStart)
	})

	t.Run("start to finish", func(t *testing.T) {
		s := newTestSchedule(t)
		a := mustAdd(t, s, "A", day(2024, time.January, 8), 3)
		b := mustAdd(t, s, "B", time.Time{}, 2)
		_, err := s.AddDependency(a.ID(), b.ID(), StartToFinish, 0)
		require.NoError(t, err)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		bs, _ := result.Activity(b.ID())
		assert.Equal(t, day(2024, time.January, 8), bs.EarlyFinish)
		assert.Equal(t, day(2024, time.January, 5), bs.EarlyStart)
	})
}

func TestComputeSchedule_WeekendsNeverScheduled(t *testing.T) {
	s := newTestSchedule(t)
	prev := mustAdd(t, s, "A", day(2024, time.January, 4), 2) // Thu-Fri
	next := mustAdd(t, s, "B", time.Time{}, 3)
	_, err := s.AddDependency(prev.ID(), next.ID(), FinishToStart, 0)
	require.NoError(t, err)

	result, err := s.ComputeSchedule()
	require.NoError(t, err)
	bs, _ := result.Activity(next.ID())
	assert.Equal(t, day(2024, time.January, 8), bs.EarlyStart)
	for _, sched := range result.Activities {
		assert.True(t, s.Calendar().IsWorkingDay(sched.EarlyStart))
		assert.True(t, s.Calendar().IsWorkingDay(sched.EarlyFinish))
		assert.True(t, s.Calendar().IsWorkingDay(sched.LateStart))
		assert.True(t, s.Calendar().IsWorkingDay(sched.LateFinish))
	}
}

func TestComputeSchedule_DisconnectedStart(t *testing.T) {
	t.Run("unscheduled root without project start fails", func(t *testing.T) {
		s := newTestSchedule(t)
		orphan := mustAdd(t, s, "A", time.Time{}, 3)

		_, err := s.ComputeSchedule()
		var dateErr *DisconnectedDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, orphan.ID(), dateErr.ActivityID)
	})

	t.Run("project start override anchors unscheduled roots", func(t *testing.T) {
		s := newTestSchedule(t)
		mustAdd(t, s, "A", time.Time{}, 3)
		start := day(2024, time.January, 1)
		s.SetProjectStart(&start)

		result, err := s.ComputeSchedule()
		require.NoError(t, err)
		assert.Equal(t, day(2024, time.January, 1), result.ProjectStart)
		assert.Equal(t, day(2024, time.January, 3), result.ProjectFinish)
	})
}

func TestComputeSchedule_CycleFails(t *testing.T) {
	s := newTestSchedule(t)
	a := mustAdd(t, s, "A", day(2024, time.January, 1), 1)
	b := mustAdd(t, s, "B", day(2024, time.January, 2), 1)
	_, err := s.AddDependency(a.ID(), b.ID(), FinishToStart, 0)
	require.NoError(t, err)

	// Corrupt the graph below the aggregate's validation to prove the
	// engine still refuses to order a cyclic graph.
	key := DependencyKey{PredecessorID: b.ID(), SuccessorID: a.ID()}
	s.dependencies[key] = NewDependency(b.ID(), a.ID(), FinishToStart, 0)
	s.successors[b.ID()] = append(s.successors[b.ID()], a.ID())
	s.predecessors[a.ID()] = append(s.predecessors[a.ID()], b.ID())
	s.invalidate()

	_, err = s.ComputeSchedule()
	var cycleErr *CycleError
	assert.ErrorAs(t, err, &cycleErr)
}

func TestComputeSchedule_Memoization(t *testing.T) {
	s := newTestSchedule(t)
	a := mustAdd(t, s, "A", day(2024, time.January, 1), 2)
	assert.True(t, s.IsDirty())

	first, err := s.ComputeSchedule()
	require.NoError(t, err)
	assert.False(t, s.IsDirty())

	second, err := s.ComputeSchedule()
	require.NoError(t, err)
	assert.Same(t, first, second)

	a.SetPlannedStart(day(2024, time.January, 8), s.Calendar())
	s.invalidate()
	third, err := s.ComputeSchedule()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	as, _ := third.Activity(a.ID())
	assert.Equal(t, day(2024, time.January, 8), as.EarlyStart)
}

func TestComputeSchedule_Empty(t *testing.T) {
	s := newTestSchedule(t)
	result, err := s.ComputeSchedule()
	require.NoError(t, err)
	assert.Empty(t, result.Activities)
	assert.True(t, result.ProjectFinish.IsZero())
}
