package domain

import (
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/google/uuid"
)

// ChangeRequest describes a date or duration change to one activity. Nil
// fields are left unchanged; at least one field must be set.
type ChangeRequest struct {
	ActivityID  uuid.UUID
	NewStart    *time.Time
	NewFinish   *time.Time
	NewDuration *int
}

// ActivityChange records one activity's planned dates before and after a
// reschedule.
type ActivityChange struct {
	ActivityID uuid.UUID `json:"activity_id"`
	OldStart   time.Time `json:"old_start"`
	OldFinish  time.Time `json:"old_finish"`
	NewStart   time.Time `json:"new_start"`
	NewFinish  time.Time `json:"new_finish"`
}

// RescheduleResult is the outcome of one reschedule: every activity whose
// planned dates moved, target first in dependency order, plus the fresh
// critical path computation.
type RescheduleResult struct {
	Changes []ActivityChange `json:"changes"`
	Result  *Result          `json:"result"`
}

// Reschedule applies a change to one activity and ripples it through the
// graph. Propagation is minimal: only successors whose dependency constraints
// the change violates are shifted, each by the smallest working-day amount
// that restores its constraints, preserving its duration. Activities not
// downstream of the target never move. All validation happens before any
// mutation, so a failed reschedule leaves the schedule untouched.
func (s *Schedule) Reschedule(req ChangeRequest) (*RescheduleResult, error) {
	target, err := s.Activity(req.ActivityID)
	if err != nil {
		return nil, err
	}
	if req.NewStart == nil && req.NewFinish == nil && req.NewDuration == nil {
		return nil, ErrNoChangeRequested
	}

	newStart, newDuration, err := s.resolveChange(target, req)
	if err != nil {
		return nil, err
	}

	order, err := s.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	changes := make([]ActivityChange, 0, 1)
	snapshots := []activitySnapshot{snapshotActivity(target)}

	targetChange := ActivityChange{
		ActivityID: target.ID(),
		OldStart:   target.PlannedStart(),
		OldFinish:  target.PlannedFinish(),
	}
	target.duration = newDuration
	if !newStart.IsZero() {
		target.plannedStart = newStart
		target.plannedFinish = finishFor(s.calendar, newStart, newDuration)
	} else if !target.plannedStart.IsZero() {
		target.plannedFinish = finishFor(s.calendar, target.plannedStart, newDuration)
	}
	target.Touch()
	targetChange.NewStart = target.PlannedStart()
	targetChange.NewFinish = target.PlannedFinish()
	if !targetChange.NewStart.Equal(targetChange.OldStart) || !targetChange.NewFinish.Equal(targetChange.OldFinish) {
		changes = append(changes, targetChange)
	}

	downstream := s.reachableFrom(target.ID())
	for _, id := range order {
		if !downstream[id] || id == target.ID() {
			continue
		}
		a := s.activities[id]
		if !a.IsScheduled() {
			continue
		}
		required, ok := s.requiredStart(a)
		if !ok || !a.PlannedStart().Before(required) {
			continue
		}
		change := ActivityChange{
			ActivityID: a.ID(),
			OldStart:   a.PlannedStart(),
			OldFinish:  a.PlannedFinish(),
		}
		snapshots = append(snapshots, snapshotActivity(a))
		a.SetPlannedStart(required, s.calendar)
		change.NewStart = a.PlannedStart()
		change.NewFinish = a.PlannedFinish()
		changes = append(changes, change)
	}

	s.invalidate()
	s.Touch()

	result, err := s.ComputeSchedule()
	if err != nil {
		// A failed reschedule leaves the graph unchanged: roll every touched
		// activity back to its pre-change dates and duration.
		for _, snap := range snapshots {
			snap.restore()
		}
		s.invalidate()
		return nil, err
	}

	changedIDs := make([]uuid.UUID, len(changes))
	for i, c := range changes {
		changedIDs[i] = c.ActivityID
	}
	s.AddDomainEvent(NewActivityRescheduled(s.ID(), target, changedIDs))

	return &RescheduleResult{Changes: changes, Result: result}, nil
}

// resolveChange validates the request against the target and returns the new
// planned start (zero to keep the activity unscheduled) and duration, without
// mutating anything.
func (s *Schedule) resolveChange(target *Activity, req ChangeRequest) (time.Time, int, error) {
	cal := s.calendar

	duration := target.Duration()
	if req.NewDuration != nil {
		if *req.NewDuration < 0 {
			return time.Time{}, 0, ErrNegativeDuration
		}
		duration = *req.NewDuration
	}

	var start time.Time
	switch {
	case req.NewStart != nil && req.NewFinish != nil:
		start = calendarDomain.Normalize(*req.NewStart)
		finish := calendarDomain.Normalize(*req.NewFinish)
		if finish.Before(start) {
			return time.Time{}, 0, &InvalidDateRangeError{Start: start, Finish: finish, Reason: "finish before start"}
		}
		derived, err := DurationFromDates(cal, start, finish, start.Equal(finish) && duration == 0)
		if err != nil {
			return time.Time{}, 0, err
		}
		if req.NewDuration != nil && derived != duration {
			return time.Time{}, 0, &InvalidDateRangeError{Start: start, Finish: finish, Reason: "dates inconsistent with duration"}
		}
		duration = derived
	case req.NewStart != nil:
		start = calendarDomain.Normalize(*req.NewStart)
	case req.NewFinish != nil:
		finish := calendarDomain.Normalize(*req.NewFinish)
		start = startForFinish(cal, cal.ShiftWorkingDays(finish, 0), duration)
	default:
		start = target.PlannedStart()
	}

	return start, duration, nil
}

// activitySnapshot captures the plannable fields of one activity so a failed
// reschedule can be undone.
type activitySnapshot struct {
	activity      *Activity
	duration      int
	plannedStart  time.Time
	plannedFinish time.Time
}

func snapshotActivity(a *Activity) activitySnapshot {
	return activitySnapshot{
		activity:      a,
		duration:      a.duration,
		plannedStart:  a.plannedStart,
		plannedFinish: a.plannedFinish,
	}
}

func (snap activitySnapshot) restore() {
	snap.activity.duration = snap.duration
	snap.activity.plannedStart = snap.plannedStart
	snap.activity.plannedFinish = snap.plannedFinish
}

// reachableFrom returns the set of activities downstream of the given one,
// itself included.
func (s *Schedule) reachableFrom(id uuid.UUID) map[uuid.UUID]bool {
	reached := map[uuid.UUID]bool{id: true}
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, succ := range s.successors[current] {
			if !reached[succ] {
				reached[succ] = true
				queue = append(queue, succ)
			}
		}
	}
	return reached
}

// requiredStart returns the earliest planned start that satisfies every
// predecessor constraint, using the predecessors' current planned dates.
// Returns false when no scheduled predecessor constrains the activity.
func (s *Schedule) requiredStart(a *Activity) (time.Time, bool) {
	cal := s.calendar
	var required time.Time
	for _, d := range s.Predecessors(a.ID()) {
		pred := s.activities[d.PredecessorID()]
		if !pred.IsScheduled() {
			continue
		}
		var candidate time.Time
		switch d.Kind() {
		case StartToStart:
			candidate = cal.ShiftWorkingDays(pred.PlannedStart(), d.Lag())
		case FinishToFinish:
			finish := cal.ShiftWorkingDays(pred.PlannedFinish(), d.Lag())
			candidate = startForFinish(cal, finish, a.Duration())
		case StartToFinish:
			finish := cal.ShiftWorkingDays(pred.PlannedStart(), d.Lag())
			candidate = startForFinish(cal, finish, a.Duration())
		default:
			candidate = cal.ShiftWorkingDays(pred.PlannedFinish(), 1+d.Lag())
		}
		if candidate.After(required) {
			required = candidate
		}
	}
	return required, !required.IsZero()
}
