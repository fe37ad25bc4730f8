package interchange

import (
	scheduleDomain "github.com/torvane/gantry/internal/schedule/domain"
)

// Export flattens the schedule into the interchange format, derived fields
// included. Export is lossless against the internal planned model: importing
// the result into an empty schedule reproduces the same activities and
// dependencies modulo internal ids.
func Export(s *scheduleDomain.Schedule) (*ScheduleFile, error) {
	result, err := s.ComputeSchedule()
	if err != nil {
		return nil, err
	}

	file := &ScheduleFile{
		ProjectName:  s.Name(),
		Activities:   make([]ActivityRecord, 0, len(s.Activities())),
		Dependencies: make([]DependencyRecord, 0, len(s.Dependencies())),
	}

	for _, a := range s.Activities() {
		rec := ActivityRecord{
			ActivityID:   a.Code(),
			Name:         a.Name(),
			WBSCode:      a.WBSCode(),
			StartDate:    formatDate(a.PlannedStart()),
			FinishDate:   formatDate(a.PlannedFinish()),
			DurationDays: a.Duration(),
			IsMilestone:  a.IsMilestone(),
			Notes:        a.Notes(),
		}
		if derived, ok := result.Activity(a.ID()); ok {
			rec.Critical = derived.Critical
			rec.FloatDays = derived.TotalFloat
		}
		file.Activities = append(file.Activities, rec)
	}

	for _, d := range s.Dependencies() {
		pred, err := s.Activity(d.PredecessorID())
		if err != nil {
			return nil, err
		}
		succ, err := s.Activity(d.SuccessorID())
		if err != nil {
			return nil, err
		}
		file.Dependencies = append(file.Dependencies, DependencyRecord{
			PredecessorID: pred.Code(),
			SuccessorID:   succ.Code(),
			Kind:          d.Kind().String(),
			LagDays:       d.Lag(),
		})
	}

	return file, nil
}
