package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// DependencyKind is the relation between predecessor and successor dates.
type DependencyKind string

const (
	// FinishToStart: successor cannot start before predecessor finishes.
	FinishToStart DependencyKind = "FS"
	// StartToStart: successor cannot start before predecessor starts.
	StartToStart DependencyKind = "SS"
	// FinishToFinish: successor cannot finish before predecessor finishes.
	FinishToFinish DependencyKind = "FF"
	// StartToFinish: successor cannot finish before predecessor starts.
	StartToFinish DependencyKind = "SF"
)

// String returns the two-letter code of the kind.
func (k DependencyKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is a known value.
func (k DependencyKind) IsValid() bool {
	switch k {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// ParseDependencyKind converts a two-letter code to a DependencyKind.
func ParseDependencyKind(s string) (DependencyKind, error) {
	kind := DependencyKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("unknown dependency kind %q", s)
	}
	return kind, nil
}

// DependencyKey identifies a dependency edge by its endpoints.
type DependencyKey struct {
	PredecessorID uuid.UUID
	SuccessorID   uuid.UUID
}

// Dependency is a directed scheduling constraint between two activities.
// Lag is a signed working-day offset applied after the relation constraint;
// negative lag models a lead.
type Dependency struct {
	predecessorID uuid.UUID
	successorID   uuid.UUID
	kind          DependencyKind
	lag           int
}

// NewDependency creates a dependency edge. Structural validation (existence
// of endpoints, acyclicity) belongs to the Schedule aggregate.
func NewDependency(predecessorID, successorID uuid.UUID, kind DependencyKind, lag int) *Dependency {
	return &Dependency{
		predecessorID: predecessorID,
		successorID:   successorID,
		kind:          kind,
		lag:           lag,
	}
}

func (d *Dependency) PredecessorID() uuid.UUID { return d.predecessorID }
func (d *Dependency) SuccessorID() uuid.UUID   { return d.successorID }
func (d *Dependency) Kind() DependencyKind     { return d.kind }
func (d *Dependency) Lag() int                 { return d.lag }

// Key returns the identifying endpoint pair.
func (d *Dependency) Key() DependencyKey {
	return DependencyKey{PredecessorID: d.predecessorID, SuccessorID: d.successorID}
}
