package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityVariance is one activity's slip against the active baseline, in
// working days. Positive means behind the baseline.
type ActivityVariance struct {
	ActivityID     uuid.UUID `json:"activity_id"`
	BaselineStart  time.Time `json:"baseline_start"`
	BaselineFinish time.Time `json:"baseline_finish"`
	PlannedStart   time.Time `json:"planned_start"`
	PlannedFinish  time.Time `json:"planned_finish"`
	StartVariance  int       `json:"start_variance"`
	FinishVariance int       `json:"finish_variance"`
}

// VarianceReport compares the current schedule to the active baseline.
// ProjectVariance is the slip of the computed project finish against the
// baseline's projected finish, so only slips that push the critical path
// move it; float absorbs the rest.
type VarianceReport struct {
	BaselineID            uuid.UUID          `json:"baseline_id"`
	BaselineName          string             `json:"baseline_name"`
	BaselineProjectFinish time.Time          `json:"baseline_project_finish"`
	ProjectFinish         time.Time          `json:"project_finish"`
	ProjectVariance       int                `json:"project_variance"`
	Activities            []ActivityVariance `json:"activities"`
}

// ActivityVariance returns one activity's variance against the active
// baseline. Fails with ErrNoActiveBaseline when no baseline is active and
// ErrNoBaselineEntry when the baseline predates the activity.
func (s *Schedule) ActivityVariance(activityID uuid.UUID) (ActivityVariance, error) {
	a, err := s.Activity(activityID)
	if err != nil {
		return ActivityVariance{}, err
	}
	baseline := s.ActiveBaseline()
	if baseline == nil {
		return ActivityVariance{}, ErrNoActiveBaseline
	}
	entry, ok := baseline.Entry(activityID)
	if !ok {
		return ActivityVariance{}, ErrNoBaselineEntry
	}
	return s.varianceFor(a, entry), nil
}

func (s *Schedule) varianceFor(a *Activity, entry BaselineEntry) ActivityVariance {
	v := ActivityVariance{
		ActivityID:     a.ID(),
		BaselineStart:  entry.Start,
		BaselineFinish: entry.Finish,
		PlannedStart:   a.PlannedStart(),
		PlannedFinish:  a.PlannedFinish(),
	}
	if a.IsScheduled() {
		v.StartVariance = s.calendar.SignedWorkingDaysBetween(entry.Start, a.PlannedStart())
		v.FinishVariance = s.calendar.SignedWorkingDaysBetween(entry.Finish, a.PlannedFinish())
	}
	return v
}

// Variance builds the full variance report against the active baseline.
func (s *Schedule) Variance() (*VarianceReport, error) {
	baseline := s.ActiveBaseline()
	if baseline == nil {
		return nil, ErrNoActiveBaseline
	}

	result, err := s.ComputeSchedule()
	if err != nil {
		return nil, err
	}

	report := &VarianceReport{
		BaselineID:            baseline.ID(),
		BaselineName:          baseline.Name(),
		BaselineProjectFinish: baseline.ProjectFinish(),
		ProjectFinish:         result.ProjectFinish,
	}
	if !report.BaselineProjectFinish.IsZero() && !report.ProjectFinish.IsZero() {
		report.ProjectVariance = s.calendar.SignedWorkingDaysBetween(report.BaselineProjectFinish, report.ProjectFinish)
	}

	for _, a := range s.Activities() {
		entry, ok := baseline.Entry(a.ID())
		if !ok {
			continue
		}
		report.Activities = append(report.Activities, s.varianceFor(a, entry))
	}
	return report, nil
}
