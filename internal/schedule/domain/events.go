package domain

import (
	"time"

	sharedDomain "github.com/torvane/gantry/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Schedule"

	RoutingKeyActivityAdded       = "schedule.activity.added"
	RoutingKeyActivityRemoved     = "schedule.activity.removed"
	RoutingKeyActivityRescheduled = "schedule.activity.rescheduled"
	RoutingKeyDependencyAdded     = "schedule.dependency.added"
	RoutingKeyDependencyRemoved   = "schedule.dependency.removed"
	RoutingKeyBaselineCreated     = "schedule.baseline.created"
	RoutingKeyBaselineActivated   = "schedule.baseline.activated"
	RoutingKeyBaselineCleared     = "schedule.baseline.cleared"
	RoutingKeyScheduleImported    = "schedule.imported"
)

// ActivityAdded is emitted when a new activity joins the graph.
type ActivityAdded struct {
	sharedDomain.BaseEvent
	ActivityID    uuid.UUID `json:"activity_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	PlannedStart  time.Time `json:"planned_start"`
	PlannedFinish time.Time `json:"planned_finish"`
	Milestone     bool      `json:"milestone"`
}

// NewActivityAdded creates an ActivityAdded event.
func NewActivityAdded(scheduleID uuid.UUID, a *Activity) ActivityAdded {
	return ActivityAdded{
		BaseEvent:     sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyActivityAdded),
		ActivityID:    a.ID(),
		Code:          a.Code(),
		Name:          a.Name(),
		PlannedStart:  a.PlannedStart(),
		PlannedFinish: a.PlannedFinish(),
		Milestone:     a.IsMilestone(),
	}
}

// ActivityRemoved is emitted when an activity leaves the graph. Edges removed
// alongside it are reported, never dropped silently.
type ActivityRemoved struct {
	sharedDomain.BaseEvent
	ActivityID          uuid.UUID       `json:"activity_id"`
	RemovedDependencies []DependencyKey `json:"removed_dependencies"`
}

// NewActivityRemoved creates an ActivityRemoved event.
func NewActivityRemoved(scheduleID, activityID uuid.UUID, removed []DependencyKey) ActivityRemoved {
	return ActivityRemoved{
		BaseEvent:           sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyActivityRemoved),
		ActivityID:          activityID,
		RemovedDependencies: removed,
	}
}

// ActivityRescheduled is emitted after a reschedule commits. ChangedActivityIDs
// lists every activity whose planned dates moved, target included, for UI
// highlighting and persistence.
type ActivityRescheduled struct {
	sharedDomain.BaseEvent
	ActivityID         uuid.UUID   `json:"activity_id"`
	NewStart           time.Time   `json:"new_start"`
	NewFinish          time.Time   `json:"new_finish"`
	ChangedActivityIDs []uuid.UUID `json:"changed_activity_ids"`
}

// NewActivityRescheduled creates an ActivityRescheduled event.
func NewActivityRescheduled(scheduleID uuid.UUID, a *Activity, changed []uuid.UUID) ActivityRescheduled {
	return ActivityRescheduled{
		BaseEvent:          sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyActivityRescheduled),
		ActivityID:         a.ID(),
		NewStart:           a.PlannedStart(),
		NewFinish:          a.PlannedFinish(),
		ChangedActivityIDs: changed,
	}
}

// DependencyAdded is emitted when a new edge joins the graph.
type DependencyAdded struct {
	sharedDomain.BaseEvent
	PredecessorID uuid.UUID `json:"predecessor_id"`
	SuccessorID   uuid.UUID `json:"successor_id"`
	Kind          string    `json:"kind"`
	LagDays       int       `json:"lag_days"`
}

// NewDependencyAdded creates a DependencyAdded event.
func NewDependencyAdded(scheduleID uuid.UUID, d *Dependency) DependencyAdded {
	return DependencyAdded{
		BaseEvent:     sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyDependencyAdded),
		PredecessorID: d.PredecessorID(),
		SuccessorID:   d.SuccessorID(),
		Kind:          d.Kind().String(),
		LagDays:       d.Lag(),
	}
}

// DependencyRemoved is emitted when an edge is removed.
type DependencyRemoved struct {
	sharedDomain.BaseEvent
	PredecessorID uuid.UUID `json:"predecessor_id"`
	SuccessorID   uuid.UUID `json:"successor_id"`
}

// NewDependencyRemoved creates a DependencyRemoved event.
func NewDependencyRemoved(scheduleID uuid.UUID, key DependencyKey) DependencyRemoved {
	return DependencyRemoved{
		BaseEvent:     sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyDependencyRemoved),
		PredecessorID: key.PredecessorID,
		SuccessorID:   key.SuccessorID,
	}
}

// BaselineCreated is emitted when planned dates are snapshotted.
type BaselineCreated struct {
	sharedDomain.BaseEvent
	BaselineID    uuid.UUID `json:"baseline_id"`
	Name          string    `json:"name"`
	ActivityCount int       `json:"activity_count"`
}

// NewBaselineCreated creates a BaselineCreated event.
func NewBaselineCreated(scheduleID uuid.UUID, b *Baseline) BaselineCreated {
	return BaselineCreated{
		BaseEvent:     sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyBaselineCreated),
		BaselineID:    b.ID(),
		Name:          b.Name(),
		ActivityCount: len(b.Entries()),
	}
}

// BaselineActivated is emitted when the active baseline changes.
type BaselineActivated struct {
	sharedDomain.BaseEvent
	BaselineID uuid.UUID `json:"baseline_id"`
}

// NewBaselineActivated creates a BaselineActivated event.
func NewBaselineActivated(scheduleID, baselineID uuid.UUID) BaselineActivated {
	return BaselineActivated{
		BaseEvent:  sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyBaselineActivated),
		BaselineID: baselineID,
	}
}

// BaselineCleared is emitted when baseline fields are removed from activities.
type BaselineCleared struct {
	sharedDomain.BaseEvent
}

// NewBaselineCleared creates a BaselineCleared event.
func NewBaselineCleared(scheduleID uuid.UUID) BaselineCleared {
	return BaselineCleared{
		BaseEvent: sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyBaselineCleared),
	}
}

// ScheduleImported is emitted after a batch import commits.
type ScheduleImported struct {
	sharedDomain.BaseEvent
	ActivityCount   int  `json:"activity_count"`
	DependencyCount int  `json:"dependency_count"`
	ClearedExisting bool `json:"cleared_existing"`
}

// NewScheduleImported creates a ScheduleImported event.
func NewScheduleImported(scheduleID uuid.UUID, activities, dependencies int, cleared bool) ScheduleImported {
	return ScheduleImported{
		BaseEvent:       sharedDomain.NewBaseEvent(scheduleID, AggregateType, RoutingKeyScheduleImported),
		ActivityCount:   activities,
		DependencyCount: dependencies,
		ClearedExisting: cleared,
	}
}
