package domain

import (
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/google/uuid"
)

// ActivitySchedule holds the derived dates and float for one activity after
// a critical path computation. All dates are UTC midnight working days.
type ActivitySchedule struct {
	ActivityID  uuid.UUID `json:"activity_id"`
	EarlyStart  time.Time `json:"early_start"`
	EarlyFinish time.Time `json:"early_finish"`
	LateStart   time.Time `json:"late_start"`
	LateFinish  time.Time `json:"late_finish"`
	TotalFloat  int       `json:"total_float"`
	Critical    bool      `json:"critical"`
}

// Result is one full critical path computation over a schedule. It is
// immutable once computed and cached on the schedule until the next mutation.
type Result struct {
	ProjectStart  time.Time                        `json:"project_start"`
	ProjectFinish time.Time                        `json:"project_finish"`
	Activities    map[uuid.UUID]ActivitySchedule   `json:"activities"`
	Order         []uuid.UUID                      `json:"order"`
	CriticalPath  []uuid.UUID                      `json:"critical_path"`
	ComputedAt    time.Time                        `json:"computed_at"`
}

// Activity returns the derived schedule for one activity.
func (r *Result) Activity(id uuid.UUID) (ActivitySchedule, bool) {
	a, ok := r.Activities[id]
	return a, ok
}

// ComputeSchedule returns the critical path result for the current graph,
// recomputing only when a mutation has invalidated the cache. The forward
// pass derives each activity's earliest dates from its predecessors, the
// backward pass derives the latest dates from the project finish, and float
// is the working-day gap between them. Zero float marks the critical path.
func (s *Schedule) ComputeSchedule() (*Result, error) {
	if !s.dirty && s.cached != nil {
		return s.cached, nil
	}

	result, err := s.compute()
	if err != nil {
		return nil, err
	}
	s.cached = result
	s.dirty = false
	return result, nil
}

func (s *Schedule) compute() (*Result, error) {
	order, err := s.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Activities: make(map[uuid.UUID]ActivitySchedule, len(order)),
		Order:      order,
		ComputedAt: time.Now().UTC(),
	}
	if len(order) == 0 {
		return result, nil
	}

	cal := s.calendar
	overallStart, err := s.overallStart()
	if err != nil {
		return nil, err
	}

	// Forward pass. A planned start acts as a start-no-earlier-than
	// constraint alongside the predecessor constraints.
	early := make(map[uuid.UUID]ActivitySchedule, len(order))
	for _, id := range order {
		a := s.activities[id]

		var es time.Time
		if a.IsScheduled() {
			es = cal.ShiftWorkingDays(a.PlannedStart(), 0)
		}
		if len(s.predecessors[id]) == 0 {
			if es.IsZero() {
				if overallStart.IsZero() {
					return nil, &DisconnectedDateError{ActivityID: id}
				}
				es = overallStart
			}
		}
		for _, predID := range s.predecessors[id] {
			d := s.dependencies[DependencyKey{PredecessorID: predID, SuccessorID: id}]
			pred := early[predID]
			candidate := earliestStartUnder(cal, d, pred, a.Duration())
			if es.IsZero() || candidate.After(es) {
				es = candidate
			}
		}

		ef := finishFor(cal, es, a.Duration())
		early[id] = ActivitySchedule{ActivityID: id, EarlyStart: es, EarlyFinish: ef}

		if result.ProjectStart.IsZero() || es.Before(result.ProjectStart) {
			result.ProjectStart = es
		}
		if ef.After(result.ProjectFinish) {
			result.ProjectFinish = ef
		}
	}

	// Backward pass. Terminal activities finish no later than the project
	// finish; everyone else is bounded by their successors.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		a := s.activities[id]
		sched := early[id]

		lf := result.ProjectFinish
		for _, succID := range s.successors[id] {
			d := s.dependencies[DependencyKey{PredecessorID: id, SuccessorID: succID}]
			succ := early[succID]
			bound := latestFinishUnder(cal, d, succ, a.Duration())
			if bound.Before(lf) {
				lf = bound
			}
		}

		sched.LateFinish = lf
		sched.LateStart = startForFinish(cal, lf, a.Duration())
		sched.TotalFloat = cal.SignedWorkingDaysBetween(sched.EarlyStart, sched.LateStart)
		sched.Critical = sched.TotalFloat == 0
		early[id] = sched
		result.Activities[id] = sched
	}

	for _, id := range order {
		if result.Activities[id].Critical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}
	return result, nil
}

// overallStart resolves the project's earliest allowed start: the explicit
// override when set, otherwise the earliest planned start in the graph. Zero
// when neither exists.
func (s *Schedule) overallStart() (time.Time, error) {
	if s.projectStart != nil {
		return s.calendar.ShiftWorkingDays(*s.projectStart, 0), nil
	}
	var min time.Time
	for _, id := range s.order {
		a := s.activities[id]
		if !a.IsScheduled() {
			continue
		}
		if min.IsZero() || a.PlannedStart().Before(min) {
			min = a.PlannedStart()
		}
	}
	if min.IsZero() {
		return time.Time{}, nil
	}
	return s.calendar.ShiftWorkingDays(min, 0), nil
}

// earliestStartUnder translates one dependency edge into the earliest start
// it permits for the successor.
func earliestStartUnder(cal *calendarDomain.WorkCalendar, d *Dependency, pred ActivitySchedule, succDuration int) time.Time {
	switch d.Kind() {
	case StartToStart:
		return cal.ShiftWorkingDays(pred.EarlyStart, d.Lag())
	case FinishToFinish:
		finish := cal.ShiftWorkingDays(pred.EarlyFinish, d.Lag())
		return startForFinish(cal, finish, succDuration)
	case StartToFinish:
		finish := cal.ShiftWorkingDays(pred.EarlyStart, d.Lag())
		return startForFinish(cal, finish, succDuration)
	default: // finish-to-start
		return cal.ShiftWorkingDays(pred.EarlyFinish, 1+d.Lag())
	}
}

// latestFinishUnder translates one dependency edge into the latest finish it
// permits for the predecessor, given the successor's late dates.
func latestFinishUnder(cal *calendarDomain.WorkCalendar, d *Dependency, succ ActivitySchedule, predDuration int) time.Time {
	switch d.Kind() {
	case StartToStart:
		ls := cal.ShiftWorkingDays(succ.LateStart, -d.Lag())
		return finishFor(cal, ls, predDuration)
	case FinishToFinish:
		return cal.ShiftWorkingDays(succ.LateFinish, -d.Lag())
	case StartToFinish:
		ls := cal.ShiftWorkingDays(succ.LateFinish, -d.Lag())
		return finishFor(cal, ls, predDuration)
	default: // finish-to-start
		return cal.ShiftWorkingDays(succ.LateStart, -(1 + d.Lag()))
	}
}

// startForFinish inverts finishFor: the start that makes an activity of the
// given duration finish on the given working day.
func startForFinish(cal *calendarDomain.WorkCalendar, finish time.Time, durationDays int) time.Time {
	if durationDays == 0 {
		return finish
	}
	return cal.ShiftWorkingDays(finish, -(durationDays - 1))
}
