package domain

import (
	"fmt"
	"time"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	sharedDomain "github.com/torvane/gantry/internal/shared/domain"
	"github.com/google/uuid"
)

// Schedule is the canonical activity network for one project: the single
// owner of Activity and Dependency entities. It guarantees structural
// validity (no self-loops, no cycles, no dangling edges) but computes no
// derived dates itself; every mutation marks the schedule dirty and the
// critical path engine recomputes on the next read.
type Schedule struct {
	sharedDomain.BaseAggregateRoot
	projectID    uuid.UUID
	name         string
	calendar     *calendarDomain.WorkCalendar
	projectStart *time.Time // explicit override for the overall start date

	activities   map[uuid.UUID]*Activity
	order        []uuid.UUID // insertion order, for deterministic listing
	dependencies map[DependencyKey]*Dependency
	successors   map[uuid.UUID][]uuid.UUID
	predecessors map[uuid.UUID][]uuid.UUID

	baselines        []*Baseline
	activeBaselineID *uuid.UUID

	dirty  bool
	cached *Result
}

// NewSchedule creates an empty schedule for a project. A nil calendar
// defaults to the standard Monday-to-Friday work week.
func NewSchedule(projectID uuid.UUID, name string, cal *calendarDomain.WorkCalendar) (*Schedule, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if cal == nil {
		cal = calendarDomain.NewWorkCalendar()
	}
	return &Schedule{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		projectID:         projectID,
		name:              name,
		calendar:          cal,
		activities:        make(map[uuid.UUID]*Activity),
		dependencies:      make(map[DependencyKey]*Dependency),
		successors:        make(map[uuid.UUID][]uuid.UUID),
		predecessors:      make(map[uuid.UUID][]uuid.UUID),
		dirty:             true,
	}, nil
}

func (s *Schedule) ProjectID() uuid.UUID                  { return s.projectID }
func (s *Schedule) Name() string                          { return s.name }
func (s *Schedule) Calendar() *calendarDomain.WorkCalendar { return s.calendar }
func (s *Schedule) ProjectStart() *time.Time              { return s.projectStart }
func (s *Schedule) IsDirty() bool                         { return s.dirty }

// SetName updates the schedule name.
func (s *Schedule) SetName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	s.name = name
	s.Touch()
	return nil
}

// SetProjectStart sets or clears the explicit overall start date. When set,
// activities without predecessors start here regardless of their own planned
// start.
func (s *Schedule) SetProjectStart(start *time.Time) {
	if start == nil {
		s.projectStart = nil
	} else {
		t := calendarDomain.Normalize(*start)
		s.projectStart = &t
	}
	s.invalidate()
	s.Touch()
}

// invalidate marks derived state stale. Every structural or date mutation
// goes through here.
func (s *Schedule) invalidate() {
	s.dirty = true
	s.cached = nil
}

// Activity returns an activity by id.
func (s *Schedule) Activity(id uuid.UUID) (*Activity, error) {
	a, ok := s.activities[id]
	if !ok {
		return nil, &UnknownActivityError{ActivityID: id}
	}
	return a, nil
}

// ActivityByCode returns an activity by its human-readable code.
func (s *Schedule) ActivityByCode(code string) (*Activity, bool) {
	for _, id := range s.order {
		if s.activities[id].Code() == code {
			return s.activities[id], true
		}
	}
	return nil, false
}

// Activities returns all activities in insertion order.
func (s *Schedule) Activities() []*Activity {
	out := make([]*Activity, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.activities[id])
	}
	return out
}

// Dependencies returns all dependency edges in deterministic order.
func (s *Schedule) Dependencies() []*Dependency {
	out := make([]*Dependency, 0, len(s.dependencies))
	for _, id := range s.order {
		for _, succID := range s.successors[id] {
			out = append(out, s.dependencies[DependencyKey{PredecessorID: id, SuccessorID: succID}])
		}
	}
	return out
}

// Dependency returns the edge between two activities.
func (s *Schedule) Dependency(predecessorID, successorID uuid.UUID) (*Dependency, error) {
	d, ok := s.dependencies[DependencyKey{PredecessorID: predecessorID, SuccessorID: successorID}]
	if !ok {
		return nil, &UnknownDependencyError{PredecessorID: predecessorID, SuccessorID: successorID}
	}
	return d, nil
}

// Predecessors returns the edges ending at the given activity.
func (s *Schedule) Predecessors(id uuid.UUID) []*Dependency {
	out := make([]*Dependency, 0, len(s.predecessors[id]))
	for _, predID := range s.predecessors[id] {
		out = append(out, s.dependencies[DependencyKey{PredecessorID: predID, SuccessorID: id}])
	}
	return out
}

// Successors returns the edges starting at the given activity.
func (s *Schedule) Successors(id uuid.UUID) []*Dependency {
	out := make([]*Dependency, 0, len(s.successors[id]))
	for _, succID := range s.successors[id] {
		out = append(out, s.dependencies[DependencyKey{PredecessorID: id, SuccessorID: succID}])
	}
	return out
}

// ActivityParams holds the user-supplied fields for a new activity.
type ActivityParams struct {
	Code         string
	Name         string
	WBSCode      string
	Notes        string
	PlannedStart time.Time // zero leaves the activity unscheduled
	DurationDays int       // 0 = milestone
}

// AddActivity validates and adds a new activity. No other activity is
// affected.
func (s *Schedule) AddActivity(params ActivityParams) (*Activity, error) {
	if _, exists := s.ActivityByCode(params.Code); exists && params.Code != "" {
		return nil, ErrDuplicateActivityCode
	}

	a, err := NewActivity(params.Code, params.Name, params.PlannedStart, params.DurationDays, s.calendar)
	if err != nil {
		return nil, err
	}
	if params.WBSCode != "" {
		a.SetWBSCode(params.WBSCode)
	}
	if params.Notes != "" {
		a.SetNotes(params.Notes)
	}

	s.activities[a.ID()] = a
	s.order = append(s.order, a.ID())
	s.invalidate()
	s.Touch()
	s.AddDomainEvent(NewActivityAdded(s.ID(), a))
	return a, nil
}

// RemoveActivity deletes an activity. With cascade false, removal fails with
// HasDependentsError while incident edges exist; with cascade true, incident
// edges are removed first and reported in the returned slice.
func (s *Schedule) RemoveActivity(id uuid.UUID, cascade bool) ([]DependencyKey, error) {
	if _, ok := s.activities[id]; !ok {
		return nil, &UnknownActivityError{ActivityID: id}
	}

	incident := make([]DependencyKey, 0)
	for _, predID := range s.predecessors[id] {
		incident = append(incident, DependencyKey{PredecessorID: predID, SuccessorID: id})
	}
	for _, succID := range s.successors[id] {
		incident = append(incident, DependencyKey{PredecessorID: id, SuccessorID: succID})
	}

	if len(incident) > 0 && !cascade {
		return nil, &HasDependentsError{ActivityID: id, Dependencies: incident}
	}

	for _, key := range incident {
		s.unlink(key)
	}
	delete(s.activities, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.invalidate()
	s.Touch()
	s.AddDomainEvent(NewActivityRemoved(s.ID(), id, incident))
	return incident, nil
}

// AddDependency validates and inserts a new edge. Fails with CycleError when
// the edge would close a cycle (checked by traversal before insertion) and
// leaves the edge set unchanged on any failure.
func (s *Schedule) AddDependency(predecessorID, successorID uuid.UUID, kind DependencyKind, lagDays int) (*Dependency, error) {
	if _, ok := s.activities[predecessorID]; !ok {
		return nil, &UnknownActivityError{ActivityID: predecessorID}
	}
	if _, ok := s.activities[successorID]; !ok {
		return nil, &UnknownActivityError{ActivityID: successorID}
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("unknown dependency kind %q", kind)
	}
	if predecessorID == successorID {
		return nil, &CycleError{Path: []uuid.UUID{predecessorID, successorID}}
	}

	key := DependencyKey{PredecessorID: predecessorID, SuccessorID: successorID}
	if _, exists := s.dependencies[key]; exists {
		return nil, ErrDuplicateDependency
	}

	if path := s.pathBetween(successorID, predecessorID); path != nil {
		return nil, &CycleError{Path: append(path, successorID)}
	}

	d := NewDependency(predecessorID, successorID, kind, lagDays)
	s.dependencies[key] = d
	s.successors[predecessorID] = append(s.successors[predecessorID], successorID)
	s.predecessors[successorID] = append(s.predecessors[successorID], predecessorID)

	s.invalidate()
	s.Touch()
	s.AddDomainEvent(NewDependencyAdded(s.ID(), d))
	return d, nil
}

// RemoveDependency deletes an existing edge.
func (s *Schedule) RemoveDependency(predecessorID, successorID uuid.UUID) error {
	key := DependencyKey{PredecessorID: predecessorID, SuccessorID: successorID}
	if _, ok := s.dependencies[key]; !ok {
		return &UnknownDependencyError{PredecessorID: predecessorID, SuccessorID: successorID}
	}

	s.unlink(key)
	s.invalidate()
	s.Touch()
	s.AddDomainEvent(NewDependencyRemoved(s.ID(), key))
	return nil
}

// unlink removes an edge from all indexes without event or dirty bookkeeping.
func (s *Schedule) unlink(key DependencyKey) {
	delete(s.dependencies, key)
	s.successors[key.PredecessorID] = removeID(s.successors[key.PredecessorID], key.SuccessorID)
	s.predecessors[key.SuccessorID] = removeID(s.predecessors[key.SuccessorID], key.PredecessorID)
}

func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// pathBetween returns the activity ids along a directed path from one
// activity to another, or nil when no path exists. Depth-first over the
// successor index.
func (s *Schedule) pathBetween(from, to uuid.UUID) []uuid.UUID {
	visited := make(map[uuid.UUID]bool)
	var walk func(id uuid.UUID) []uuid.UUID
	walk = func(id uuid.UUID) []uuid.UUID {
		if id == to {
			return []uuid.UUID{id}
		}
		visited[id] = true
		for _, succ := range s.successors[id] {
			if visited[succ] {
				continue
			}
			if path := walk(succ); path != nil {
				return append([]uuid.UUID{id}, path...)
			}
		}
		return nil
	}
	return walk(from)
}

// TopologicalOrder returns activity ids in dependency order (Kahn's
// algorithm), preferring insertion order among ready activities so output is
// deterministic. Fails with CycleError when the graph is not acyclic; this is
// the authoritative cycle check behind the critical path engine.
func (s *Schedule) TopologicalOrder() ([]uuid.UUID, error) {
	indegree := make(map[uuid.UUID]int, len(s.activities))
	for id := range s.activities {
		indegree[id] = len(s.predecessors[id])
	}

	ready := make([]uuid.UUID, 0, len(s.order))
	for _, id := range s.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]uuid.UUID, 0, len(s.activities))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		sorted = append(sorted, id)
		for _, succ := range s.successors[id] {
			indegree[succ]--
			if indegree[succ] == 0 {
				ready = append(ready, succ)
			}
		}
	}

	if len(sorted) != len(s.activities) {
		remaining := make([]uuid.UUID, 0)
		for _, id := range s.order {
			if indegree[id] > 0 {
				remaining = append(remaining, id)
			}
		}
		return nil, &CycleError{Path: remaining}
	}
	return sorted, nil
}

// Baselines returns all baseline records, newest last.
func (s *Schedule) Baselines() []*Baseline {
	return s.baselines
}

// BaselineByID returns a baseline record by id.
func (s *Schedule) BaselineByID(id uuid.UUID) (*Baseline, error) {
	for _, b := range s.baselines {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, ErrBaselineNotFound
}

// ActiveBaseline returns the active baseline, or nil when none is active.
func (s *Schedule) ActiveBaseline() *Baseline {
	if s.activeBaselineID == nil {
		return nil
	}
	b, err := s.BaselineByID(*s.activeBaselineID)
	if err != nil {
		return nil
	}
	return b
}

// CreateBaseline snapshots every activity's planned dates into a new
// baseline, activates it, and deactivates any prior active baseline.
func (s *Schedule) CreateBaseline(name, description string) (*Baseline, error) {
	b, err := NewBaseline(s.ID(), name, description, s.Activities())
	if err != nil {
		return nil, err
	}
	s.baselines = append(s.baselines, b)
	s.AddDomainEvent(NewBaselineCreated(s.ID(), b))
	if err := s.SetActiveBaseline(b.ID()); err != nil {
		return nil, err
	}
	return b, nil
}

// SetActiveBaseline activates the given baseline, exposing its dates on each
// activity's baseline fields, and deactivates any other.
func (s *Schedule) SetActiveBaseline(baselineID uuid.UUID) error {
	target, err := s.BaselineByID(baselineID)
	if err != nil {
		return err
	}

	for _, b := range s.baselines {
		if b.IsActive() && b.ID() != baselineID {
			b.deactivate()
		}
	}
	target.activate()
	id := target.ID()
	s.activeBaselineID = &id

	for _, a := range s.Activities() {
		if entry, ok := target.Entry(a.ID()); ok {
			a.setBaseline(entry)
		} else {
			a.clearBaseline()
		}
	}

	s.Touch()
	s.AddDomainEvent(NewBaselineActivated(s.ID(), baselineID))
	return nil
}

// ClearBaseline removes baseline fields from all activities and deactivates
// the active baseline without deleting its record.
func (s *Schedule) ClearBaseline() {
	if s.activeBaselineID != nil {
		if b, err := s.BaselineByID(*s.activeBaselineID); err == nil {
			b.deactivate()
		}
	}
	s.activeBaselineID = nil
	for _, a := range s.Activities() {
		a.clearBaseline()
	}
	s.Touch()
	s.AddDomainEvent(NewBaselineCleared(s.ID()))
}

// RehydrateSchedule recreates a schedule from persisted state. Derived state
// starts stale and is recomputed on first read.
func RehydrateSchedule(
	id, projectID uuid.UUID,
	name string,
	cal *calendarDomain.WorkCalendar,
	projectStart *time.Time,
	activities []*Activity,
	dependencies []*Dependency,
	baselines []*Baseline,
	activeBaselineID *uuid.UUID,
	version int,
	createdAt, updatedAt time.Time,
) *Schedule {
	if cal == nil {
		cal = calendarDomain.NewWorkCalendar()
	}
	s := &Schedule{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		projectID:        projectID,
		name:             name,
		calendar:         cal,
		projectStart:     projectStart,
		activities:       make(map[uuid.UUID]*Activity, len(activities)),
		dependencies:     make(map[DependencyKey]*Dependency, len(dependencies)),
		successors:       make(map[uuid.UUID][]uuid.UUID),
		predecessors:     make(map[uuid.UUID][]uuid.UUID),
		baselines:        baselines,
		activeBaselineID: activeBaselineID,
		dirty:            true,
	}
	for _, a := range activities {
		s.activities[a.ID()] = a
		s.order = append(s.order, a.ID())
	}
	for _, d := range dependencies {
		s.dependencies[d.Key()] = d
		s.successors[d.PredecessorID()] = append(s.successors[d.PredecessorID()], d.SuccessorID())
		s.predecessors[d.SuccessorID()] = append(s.predecessors[d.SuccessorID()], d.PredecessorID())
	}
	return s
}
