package domain

import (
	"time"

	sharedDomain "github.com/torvane/gantry/internal/shared/domain"
	"github.com/google/uuid"
)

// BaselineEntry is the immutable snapshot of one activity's planned dates.
type BaselineEntry struct {
	ActivityID uuid.UUID
	Start      time.Time
	Finish     time.Time
	Duration   int
}

// Baseline is an immutable copy of every activity's planned dates at snapshot
// time, used as the comparison point for variance. At most one baseline per
// schedule is active at a time; clearing the active baseline removes the
// snapshot fields from activities without deleting the record.
type Baseline struct {
	sharedDomain.BaseEntity
	scheduleID  uuid.UUID
	name        string
	description string
	active      bool
	entries     map[uuid.UUID]BaselineEntry
}

// NewBaseline snapshots the given activities. Unscheduled activities are
// skipped: there is nothing to compare against.
func NewBaseline(scheduleID uuid.UUID, name, description string, activities []*Activity) (*Baseline, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	entries := make(map[uuid.UUID]BaselineEntry, len(activities))
	for _, a := range activities {
		if !a.IsScheduled() {
			continue
		}
		entries[a.ID()] = BaselineEntry{
			ActivityID: a.ID(),
			Start:      a.PlannedStart(),
			Finish:     a.PlannedFinish(),
			Duration:   a.Duration(),
		}
	}

	return &Baseline{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		scheduleID:  scheduleID,
		name:        name,
		description: description,
		entries:     entries,
	}, nil
}

func (b *Baseline) ScheduleID() uuid.UUID { return b.scheduleID }
func (b *Baseline) Name() string          { return b.name }
func (b *Baseline) Description() string   { return b.description }
func (b *Baseline) IsActive() bool        { return b.active }

// Entries returns the snapshot entries keyed by activity id.
func (b *Baseline) Entries() map[uuid.UUID]BaselineEntry {
	return b.entries
}

// Entry returns the snapshot for one activity.
func (b *Baseline) Entry(activityID uuid.UUID) (BaselineEntry, bool) {
	e, ok := b.entries[activityID]
	return e, ok
}

// ProjectFinish returns the latest snapshotted finish date, the baseline's
// projected project completion. Zero when the baseline is empty.
func (b *Baseline) ProjectFinish() time.Time {
	var finish time.Time
	for _, e := range b.entries {
		if e.Finish.After(finish) {
			finish = e.Finish
		}
	}
	return finish
}

// activate and deactivate are driven by the schedule, which enforces the
// single-active invariant across its baselines.
func (b *Baseline) activate()   { b.active = true; b.Touch() }
func (b *Baseline) deactivate() { b.active = false; b.Touch() }

// RehydrateBaseline recreates a baseline from persisted state.
func RehydrateBaseline(
	id, scheduleID uuid.UUID,
	name, description string,
	active bool,
	entries []BaselineEntry,
	createdAt, updatedAt time.Time,
) *Baseline {
	m := make(map[uuid.UUID]BaselineEntry, len(entries))
	for _, e := range entries {
		m[e.ActivityID] = e
	}
	return &Baseline{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		scheduleID:  scheduleID,
		name:        name,
		description: description,
		active:      active,
		entries:     m,
	}
}
