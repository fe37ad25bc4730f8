package domain

import "time"

// ScheduleStats summarizes the state of a schedule for dashboards and the
// CLI status view. Overall percent complete is weighted by working-day
// duration, with milestones counting at weight one so they are not invisible.
type ScheduleStats struct {
	ActivityCount    int            `json:"activity_count"`
	DependencyCount  int            `json:"dependency_count"`
	MilestoneCount   int            `json:"milestone_count"`
	StatusCounts     map[Status]int `json:"status_counts"`
	CriticalCount    int            `json:"critical_count"`
	OverdueCount     int            `json:"overdue_count"`
	PercentComplete  float64        `json:"percent_complete"`
	ProjectStart     time.Time      `json:"project_start"`
	ProjectFinish    time.Time      `json:"project_finish"`
	TotalWorkingDays int            `json:"total_working_days"`
	ProjectVariance  *int           `json:"project_variance,omitempty"`
}

// Stats computes summary statistics. Overdue means a planned finish before
// the given reference date on an activity that is not completed or cancelled.
// Project variance is included only when a baseline is active.
func (s *Schedule) Stats(now time.Time) (*ScheduleStats, error) {
	result, err := s.ComputeSchedule()
	if err != nil {
		return nil, err
	}

	stats := &ScheduleStats{
		ActivityCount:   len(s.activities),
		DependencyCount: len(s.dependencies),
		StatusCounts:    make(map[Status]int),
		ProjectStart:    result.ProjectStart,
		ProjectFinish:   result.ProjectFinish,
		CriticalCount:   len(result.CriticalPath),
	}
	if !result.ProjectStart.IsZero() {
		stats.TotalWorkingDays = s.calendar.WorkingDaySpan(result.ProjectStart, result.ProjectFinish)
	}

	var weightSum, progressSum float64
	ref := now.UTC().Truncate(24 * time.Hour)
	for _, a := range s.Activities() {
		stats.StatusCounts[a.Status()]++
		if a.IsMilestone() {
			stats.MilestoneCount++
		}

		weight := float64(a.Duration())
		if weight == 0 {
			weight = 1
		}
		weightSum += weight
		progressSum += weight * float64(a.PercentComplete())

		if a.IsScheduled() && a.PlannedFinish().Before(ref) &&
			a.Status() != StatusCompleted && a.Status() != StatusCancelled {
			stats.OverdueCount++
		}
	}
	if weightSum > 0 {
		stats.PercentComplete = progressSum / weightSum
	}

	if s.ActiveBaseline() != nil {
		report, err := s.Variance()
		if err != nil {
			return nil, err
		}
		v := report.ProjectVariance
		stats.ProjectVariance = &v
	}
	return stats, nil
}
