package interchange

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	scheduleDomain "github.com/torvane/gantry/internal/schedule/domain"
)

func buildSampleSchedule(t *testing.T) *scheduleDomain.Schedule {
	t.Helper()
	s := emptySchedule(t)
	activities := []ActivityRecord{
		{ActivityID: "A100", Name: "Mobilize", WBSCode: "1.1", StartDate: "2024-01-01", DurationDays: 2, Notes: "crew of four"},
		{ActivityID: "A200", Name: "Excavate", WBSCode: "1.2", DurationDays: 5},
		{ActivityID: "M1", Name: "Permit granted", StartDate: "2024-01-01", IsMilestone: true},
	}
	deps := []DependencyRecord{
		{PredecessorID: "A100", SuccessorID: "A200", Kind: "FS", LagDays: 1},
		{PredecessorID: "M1", SuccessorID: "A100", Kind: "SS", LagDays: 0},
	}
	_, err := Import(s, activities, deps, ImportOptions{})
	require.NoError(t, err)
	return s
}

func TestExport(t *testing.T) {
	s := buildSampleSchedule(t)

	file, err := Export(s)
	require.NoError(t, err)
	require.Len(t, file.Activities, 3)
	require.Len(t, file.Dependencies, 2)
	assert.Equal(t, "Imported Project", file.ProjectName)

	byID := make(map[string]ActivityRecord)
	for _, rec := range file.Activities {
		byID[rec.ActivityID] = rec
	}

	a100 := byID["A100"]
	assert.Equal(t, "2024-01-01", a100.StartDate)
	assert.Equal(t, "2024-01-02", a100.FinishDate)
	assert.Equal(t, 2, a100.DurationDays)
	assert.True(t, a100.Critical)

	a200 := byID["A200"]
	// One lag day after A100 finishes Tue: gap Wed, start Thu.
	assert.Equal(t, "2024-01-04", a200.StartDate)
	assert.True(t, a200.Critical)

	m1 := byID["M1"]
	assert.True(t, m1.IsMilestone)
	assert.Equal(t, m1.StartDate, m1.FinishDate)
}

func TestRoundTrip(t *testing.T) {
	original := buildSampleSchedule(t)
	exported, err := Export(original)
	require.NoError(t, err)

	restored := emptySchedule(t)
	_, err = Import(restored, exported.Activities, exported.Dependencies, ImportOptions{})
	require.NoError(t, err)

	again, err := Export(restored)
	require.NoError(t, err)

	assert.Equal(t, exported.Activities, again.Activities)
	assert.Equal(t, exported.Dependencies, again.Dependencies)
}

func TestJSONCodec(t *testing.T) {
	file, err := Export(buildSampleSchedule(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, file))

	decoded, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, file.Activities, decoded.Activities)
	assert.Equal(t, file.Dependencies, decoded.Dependencies)

	_, err = ReadJSON(bytes.NewBufferString(`{"unknown_field": true}`))
	assert.Error(t, err)
}

func TestCSVCodec(t *testing.T) {
	file, err := Export(buildSampleSchedule(t))
	require.NoError(t, err)

	var actBuf, depBuf bytes.Buffer
	require.NoError(t, WriteActivitiesCSV(&actBuf, file.Activities))
	require.NoError(t, WriteDependenciesCSV(&depBuf, file.Dependencies))

	activities, err := ReadActivitiesCSV(&actBuf)
	require.NoError(t, err)
	deps, err := ReadDependenciesCSV(&depBuf)
	require.NoError(t, err)

	restored := emptySchedule(t)
	_, err = Import(restored, activities, deps, ImportOptions{})
	require.NoError(t, err)
	assert.Len(t, restored.Activities(), 3)
	assert.Len(t, restored.Dependencies(), 2)

	a, ok := restored.ActivityByCode("A100")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), a.PlannedStart())
	assert.Equal(t, "crew of four", a.Notes())
}
