package domain

import (
	"context"

	"github.com/google/uuid"
)

// ScheduleRepository persists schedule aggregates. Save persists the whole
// aggregate (activities, dependencies, and baselines included) in one
// transaction.
type ScheduleRepository interface {
	Save(ctx context.Context, schedule *Schedule) error
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	FindByProjectID(ctx context.Context, projectID uuid.UUID) (*Schedule, error)
	List(ctx context.Context) ([]*Schedule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
