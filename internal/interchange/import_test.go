package interchange

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	scheduleDomain "github.com/torvane/gantry/internal/schedule/domain"
)

func emptySchedule(t *testing.T) *scheduleDomain.Schedule {
	t.Helper()
	s, err := scheduleDomain.NewSchedule(uuid.New(), "Imported Project", calendarDomain.NewWorkCalendar())
	require.NoError(t, err)
	return s
}

func TestImport_Strict(t *testing.T) {
	t.Run("valid batch applies completely", func(t *testing.T) {
		s := emptySchedule(t)
		activities := []ActivityRecord{
			{ActivityID: "A100", Name: "Mobilize", StartDate: "2024-01-01", DurationDays: 2},
			{ActivityID: "A200", Name: "Excavate", DurationDays: 5},
			{ActivityID: "M1", Name: "Permit", StartDate: "2024-01-01", IsMilestone: true},
		}
		deps := []DependencyRecord{
			{PredecessorID: "A100", SuccessorID: "A200", Kind: "FS", LagDays: 0},
		}

		result, err := Import(s, activities, deps, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, result.ActivitiesAdded)
		assert.Equal(t, 1, result.DependenciesAdded)
		assert.Empty(t, result.RowErrors)

		a, ok := s.ActivityByCode("A100")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), a.PlannedStart())
		m, ok := s.ActivityByCode("M1")
		require.True(t, ok)
		assert.True(t, m.IsMilestone())
		assert.Len(t, s.Dependencies(), 1)
	})

	t.Run("unknown predecessor aborts the whole import", func(t *testing.T) {
		s := emptySchedule(t)
		activities := []ActivityRecord{
			{ActivityID: "A100", Name: "Mobilize", StartDate: "2024-01-01", DurationDays: 2},
		}
		deps := []DependencyRecord{
			{PredecessorID: "NOPE", SuccessorID: "A100", Kind: "FS"},
		}

		_, err := Import(s, activities, deps, ImportOptions{})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		require.Len(t, valErr.Rows, 1)
		assert.Equal(t, "dependency", valErr.Rows[0].Kind)

		// Nothing persisted, activities included.
		assert.Empty(t, s.Activities())
		assert.Empty(t, s.Dependencies())
	})

	t.Run("malformed rows are all reported", func(t *testing.T) {
		s := emptySchedule(t)
		activities := []ActivityRecord{
			{ActivityID: "", Name: "No id", DurationDays: 1},
			{ActivityID: "A2", Name: "", DurationDays: 1},
			{ActivityID: "A3", Name: "Bad date", StartDate: "01/15/2024", DurationDays: 1},
			{ActivityID: "A4", Name: "Bad range", StartDate: "2024-01-05", FinishDate: "2024-01-01"},
			{ActivityID: "A5", Name: "Negative", DurationDays: -3},
		}

		_, err := Import(s, activities, nil, ImportOptions{})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Len(t, valErr.Rows, 5)
		assert.Empty(t, s.Activities())
	})

	t.Run("cyclic dependency rows are rejected", func(t *testing.T) {
		s := emptySchedule(t)
		activities := []ActivityRecord{
			{ActivityID: "A", Name: "a", StartDate: "2024-01-01", DurationDays: 1},
			{ActivityID: "B", Name: "b", StartDate: "2024-01-02", DurationDays: 1},
		}
		deps := []DependencyRecord{
			{PredecessorID: "A", SuccessorID: "B", Kind: "FS"},
			{PredecessorID: "B", SuccessorID: "A", Kind: "FS"},
		}

		_, err := Import(s, activities, deps, ImportOptions{})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Empty(t, s.Activities())
	})

	t.Run("duplicate id against existing graph is rejected", func(t *testing.T) {
		s := emptySchedule(t)
		_, err := s.AddActivity(scheduleDomain.ActivityParams{Code: "A100", Name: "Existing", PlannedStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DurationDays: 1})
		require.NoError(t, err)

		_, err = Import(s, []ActivityRecord{{ActivityID: "A100", Name: "Clash", DurationDays: 1}}, nil, ImportOptions{})
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Len(t, s.Activities(), 1)
	})

	t.Run("clear existing replaces the graph", func(t *testing.T) {
		s := emptySchedule(t)
		_, err := s.AddActivity(scheduleDomain.ActivityParams{Code: "OLD", Name: "Old", PlannedStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), DurationDays: 1})
		require.NoError(t, err)

		result, err := Import(s, []ActivityRecord{{ActivityID: "NEW", Name: "New", StartDate: "2024-02-01", DurationDays: 1}}, nil, ImportOptions{ClearExisting: true})
		require.NoError(t, err)
		assert.True(t, result.ClearedExisting)

		_, oldExists := s.ActivityByCode("OLD")
		assert.False(t, oldExists)
		_, newExists := s.ActivityByCode("NEW")
		assert.True(t, newExists)
	})
}

func TestImport_BestEffort(t *testing.T) {
	s := emptySchedule(t)
	activities := []ActivityRecord{
		{ActivityID: "A100", Name: "Good", StartDate: "2024-01-01", DurationDays: 2},
		{ActivityID: "", Name: "Bad"},
		{ActivityID: "A300", Name: "Also good", StartDate: "2024-01-03", DurationDays: 1},
	}
	deps := []DependencyRecord{
		{PredecessorID: "A100", SuccessorID: "A300", Kind: "FS"},
		{PredecessorID: "MISSING", SuccessorID: "A300", Kind: "FS"},
		{PredecessorID: "A100", SuccessorID: "A300", Kind: "XX"},
	}

	result, err := Import(s, activities, deps, ImportOptions{BestEffort: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ActivitiesAdded)
	assert.Equal(t, 1, result.DependenciesAdded)
	assert.Len(t, result.RowErrors, 3)
	assert.Len(t, s.Activities(), 2)
}
