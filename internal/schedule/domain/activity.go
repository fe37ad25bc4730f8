package domain

import (
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	sharedDomain "github.com/torvane/gantry/internal/shared/domain"
	"github.com/google/uuid"
)

// Activity is a schedulable unit of work. Planned dates and duration are the
// source of truth; early/late dates and float are derived by the critical
// path engine and never stored here.
//
// A zero planned duration marks a milestone: planned finish equals planned
// start and the activity occupies no working time.
type Activity struct {
	sharedDomain.BaseEntity
	code            string
	name            string
	wbsCode         string
	notes           string
	plannedStart    time.Time // UTC midnight; zero when not yet scheduled
	plannedFinish   time.Time
	duration        int // working days
	status          Status
	percentComplete int
	actualStart     *time.Time
	actualFinish    *time.Time

	// Baseline snapshot fields, set only through the schedule's baseline
	// operations and immutable until the baseline is replaced or cleared.
	baselineStart    *time.Time
	baselineFinish   *time.Time
	baselineDuration *int
}

// NewActivity creates an activity with a planned start and working-day
// duration. The planned finish is derived through the calendar. A zero start
// leaves the activity unscheduled; the critical path engine rejects
// unscheduled activities that have no predecessors and no project start
// override.
func NewActivity(code, name string, plannedStart time.Time, durationDays int, cal *calendarDomain.WorkCalendar) (*Activity, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if durationDays < 0 {
		return nil, ErrNegativeDuration
	}

	a := &Activity{
		BaseEntity: sharedDomain.NewBaseEntity(),
		code:       code,
		name:       name,
		duration:   durationDays,
		status:     StatusNotStarted,
	}
	if !plannedStart.IsZero() {
		a.plannedStart = calendarDomain.Normalize(plannedStart)
		a.plannedFinish = finishFor(cal, a.plannedStart, durationDays)
	}
	return a, nil
}

// finishFor derives the planned finish from a start and a working duration.
// A milestone finishes the day it starts; an n-day activity finishes on its
// n-th working day.
func finishFor(cal *calendarDomain.WorkCalendar, start time.Time, durationDays int) time.Time {
	if durationDays == 0 {
		return start
	}
	return cal.ShiftWorkingDays(start, durationDays-1)
}

// DurationFromDates derives a working-day duration from a date pair. Used by
// import, where external records carry explicit dates.
func DurationFromDates(cal *calendarDomain.WorkCalendar, start, finish time.Time, milestone bool) (int, error) {
	start, finish = calendarDomain.Normalize(start), calendarDomain.Normalize(finish)
	if finish.Before(start) {
		return 0, &InvalidDateRangeError{Start: start, Finish: finish, Reason: "finish before start"}
	}
	if milestone {
		return 0, nil
	}
	span := cal.WorkingDaySpan(start, finish)
	if span < 1 {
		span = 1
	}
	return span, nil
}

func (a *Activity) Code() string             { return a.code }
func (a *Activity) Name() string             { return a.name }
func (a *Activity) WBSCode() string          { return a.wbsCode }
func (a *Activity) Notes() string            { return a.notes }
func (a *Activity) PlannedStart() time.Time  { return a.plannedStart }
func (a *Activity) PlannedFinish() time.Time { return a.plannedFinish }
func (a *Activity) Duration() int            { return a.duration }
func (a *Activity) Status() Status           { return a.status }
func (a *Activity) PercentComplete() int     { return a.percentComplete }
func (a *Activity) ActualStart() *time.Time  { return a.actualStart }
func (a *Activity) ActualFinish() *time.Time { return a.actualFinish }

func (a *Activity) BaselineStart() *time.Time  { return a.baselineStart }
func (a *Activity) BaselineFinish() *time.Time { return a.baselineFinish }
func (a *Activity) BaselineDuration() *int     { return a.baselineDuration }

// IsMilestone reports whether the activity is a zero-duration milestone.
func (a *Activity) IsMilestone() bool {
	return a.duration == 0
}

// IsScheduled reports whether the activity carries planned dates.
func (a *Activity) IsScheduled() bool {
	return !a.plannedStart.IsZero()
}

// SetName updates the activity name.
func (a *Activity) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	a.name = name
	a.Touch()
	return nil
}

// SetWBSCode updates the work-breakdown-structure code. Informational only.
func (a *Activity) SetWBSCode(code string) {
	a.wbsCode = code
	a.Touch()
}

// SetNotes updates free-form notes.
func (a *Activity) SetNotes(notes string) {
	a.notes = notes
	a.Touch()
}

// SetPlannedStart moves the planned start, preserving the working duration.
func (a *Activity) SetPlannedStart(start time.Time, cal *calendarDomain.WorkCalendar) {
	a.plannedStart = calendarDomain.Normalize(start)
	a.plannedFinish = finishFor(cal, a.plannedStart, a.duration)
	a.Touch()
}

// SetDuration changes the working duration, preserving the planned start.
func (a *Activity) SetDuration(durationDays int, cal *calendarDomain.WorkCalendar) error {
	if durationDays < 0 {
		return ErrNegativeDuration
	}
	a.duration = durationDays
	if !a.plannedStart.IsZero() {
		a.plannedFinish = finishFor(cal, a.plannedStart, durationDays)
	}
	a.Touch()
	return nil
}

// SetPlannedDates sets both dates, deriving the duration through the
// calendar. The milestone flag forces a zero duration with finish == start.
func (a *Activity) SetPlannedDates(start, finish time.Time, milestone bool, cal *calendarDomain.WorkCalendar) error {
	d, err := DurationFromDates(cal, start, finish, milestone)
	if err != nil {
		return err
	}
	a.plannedStart = calendarDomain.Normalize(start)
	a.duration = d
	if milestone {
		a.plannedFinish = a.plannedStart
	} else {
		a.plannedFinish = calendarDomain.Normalize(finish)
	}
	a.Touch()
	return nil
}

// UpdateProgress records a new percent-complete. Progress is monotonic:
// a lower value than the current one is rejected.
func (a *Activity) UpdateProgress(percent int) error {
	if percent < 0 || percent > 100 {
		return ErrInvalidPercentComplete
	}
	if percent < a.percentComplete {
		return ErrProgressRegression
	}
	a.percentComplete = percent
	a.Touch()
	return nil
}

// ChangeStatus transitions the activity to a new status.
func (a *Activity) ChangeStatus(target Status) error {
	if !target.IsValid() {
		return ErrInvalidStatusTransition
	}
	if !a.status.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	a.status = target
	a.Touch()
	return nil
}

// Start marks the activity in progress and records the actual start.
func (a *Activity) Start(actualStart time.Time) error {
	if err := a.ChangeStatus(StatusInProgress); err != nil {
		return err
	}
	t := calendarDomain.Normalize(actualStart)
	a.actualStart = &t
	return nil
}

// Complete marks the activity completed, records the actual finish, and
// forces percent-complete to 100.
func (a *Activity) Complete(actualFinish time.Time) error {
	if err := a.ChangeStatus(StatusCompleted); err != nil {
		return err
	}
	t := calendarDomain.Normalize(actualFinish)
	if a.actualStart != nil && t.Before(*a.actualStart) {
		a.status = StatusInProgress
		return &InvalidDateRangeError{Start: *a.actualStart, Finish: t, Reason: "actual finish before actual start"}
	}
	a.actualFinish = &t
	a.percentComplete = 100
	return nil
}

// setBaseline records a baseline snapshot on the activity. Called only by the
// schedule's baseline operations.
func (a *Activity) setBaseline(entry BaselineEntry) {
	start, finish, duration := entry.Start, entry.Finish, entry.Duration
	a.baselineStart = &start
	a.baselineFinish = &finish
	a.baselineDuration = &duration
}

// clearBaseline removes the baseline fields. Called only by the schedule.
func (a *Activity) clearBaseline() {
	a.baselineStart = nil
	a.baselineFinish = nil
	a.baselineDuration = nil
}

// RehydrateActivity recreates an activity from persisted state.
func RehydrateActivity(
	id uuid.UUID,
	code, name, wbsCode, notes string,
	plannedStart, plannedFinish time.Time,
	duration int,
	status Status,
	percentComplete int,
	actualStart, actualFinish *time.Time,
	baselineStart, baselineFinish *time.Time,
	baselineDuration *int,
	createdAt, updatedAt time.Time,
) *Activity {
	return &Activity{
		BaseEntity:       sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		code:             code,
		name:             name,
		wbsCode:          wbsCode,
		notes:            notes,
		plannedStart:     plannedStart,
		plannedFinish:    plannedFinish,
		duration:         duration,
		status:           status,
		percentComplete:  percentComplete,
		actualStart:      actualStart,
		actualFinish:     actualFinish,
		baselineStart:    baselineStart,
		baselineFinish:   baselineFinish,
		baselineDuration: baselineDuration,
	}
}
