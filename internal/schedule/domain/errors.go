package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrEmptyCode indicates the activity code is missing.
	ErrEmptyCode = errors.New("activity code cannot be empty")

	// ErrEmptyName indicates the activity or schedule name is missing.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrNegativeDuration indicates a negative planned duration.
	ErrNegativeDuration = errors.New("duration cannot be negative")

	// ErrDuplicateActivityCode indicates the activity code is already used
	// within the schedule.
	ErrDuplicateActivityCode = errors.New("activity code already exists in schedule")

	// ErrDuplicateDependency indicates the edge already exists.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrInvalidStatusTransition indicates a disallowed status change.
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrInvalidPercentComplete indicates a percent-complete outside 0-100.
	ErrInvalidPercentComplete = errors.New("percent complete must be between 0 and 100")

	// ErrProgressRegression indicates a percent-complete lower than the
	// currently recorded value.
	ErrProgressRegression = errors.New("percent complete cannot decrease")

	// ErrNoChangeRequested indicates a reschedule request with no fields set.
	ErrNoChangeRequested = errors.New("change request is empty")

	// ErrBaselineNotFound indicates the referenced baseline does not exist.
	ErrBaselineNotFound = errors.New("baseline not found")

	// ErrNoActiveBaseline indicates a variance was requested without an
	// active baseline.
	ErrNoActiveBaseline = errors.New("schedule has no active baseline")

	// ErrNoBaselineEntry indicates the active baseline predates the activity,
	// so no snapshot exists for it.
	ErrNoBaselineEntry = errors.New("activity has no baseline entry")

	// ErrScheduleNotFound indicates the requested schedule was not found.
	ErrScheduleNotFound = errors.New("schedule not found")
)

// CycleError reports that an edge insertion or an ordering pass found a
// dependency cycle. Path holds the activity ids along the cycle when known.
type CycleError struct {
	Path []uuid.UUID
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = id.String()
	}
	return "dependency cycle detected: " + strings.Join(ids, " -> ")
}

// UnknownActivityError reports a reference to a nonexistent activity.
type UnknownActivityError struct {
	ActivityID uuid.UUID
}

func (e *UnknownActivityError) Error() string {
	return fmt.Sprintf("unknown activity %s", e.ActivityID)
}

// UnknownDependencyError reports a reference to a nonexistent edge.
type UnknownDependencyError struct {
	PredecessorID uuid.UUID
	SuccessorID   uuid.UUID
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency %s -> %s", e.PredecessorID, e.SuccessorID)
}

// HasDependentsError reports an activity removal blocked by incident edges.
type HasDependentsError struct {
	ActivityID   uuid.UUID
	Dependencies []DependencyKey
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("activity %s has %d incident dependencies", e.ActivityID, len(e.Dependencies))
}

// InvalidDateRangeError reports a finish before start or an inconsistent
// date/duration combination.
type InvalidDateRangeError struct {
	Start  time.Time
	Finish time.Time
	Reason string
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range %s .. %s: %s",
		e.Start.Format("2006-01-02"), e.Finish.Format("2006-01-02"), e.Reason)
}

// DisconnectedDateError reports an activity whose start cannot be computed:
// it has no predecessors, no planned start, and the schedule has no explicit
// project start.
type DisconnectedDateError struct {
	ActivityID uuid.UUID
}

func (e *DisconnectedDateError) Error() string {
	return fmt.Sprintf("activity %s has no computable start date", e.ActivityID)
}
