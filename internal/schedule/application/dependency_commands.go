package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/torvane/gantry/internal/schedule/domain"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

// AddDependencyCommand links two activities.
type AddDependencyCommand struct {
	ScheduleID    uuid.UUID
	PredecessorID uuid.UUID
	SuccessorID   uuid.UUID
	Kind          domain.DependencyKind
	LagDays       int
}

func (AddDependencyCommand) CommandName() string { return "schedule.dependency.add" }

// RemoveDependencyCommand removes one edge.
type RemoveDependencyCommand struct {
	ScheduleID    uuid.UUID
	PredecessorID uuid.UUID
	SuccessorID   uuid.UUID
}

func (RemoveDependencyCommand) CommandName() string { return "schedule.dependency.remove" }

// DependencyHandler handles dependency commands.
type DependencyHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewDependencyHandler creates the handler.
func NewDependencyHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *DependencyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DependencyHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// HandleAdd validates and adds the edge.
func (h *DependencyHandler) HandleAdd(ctx context.Context, cmd AddDependencyCommand) (*domain.Dependency, error) {
	var s *domain.Schedule
	var dep *domain.Dependency

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		dep, err = s.AddDependency(cmd.PredecessorID, cmd.SuccessorID, cmd.Kind, cmd.LagDays)
		if err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("dependency added",
		"schedule_id", cmd.ScheduleID,
		"predecessor_id", cmd.PredecessorID,
		"successor_id", cmd.SuccessorID,
		"kind", cmd.Kind.String(),
	)
	h.events.PublishAll(ctx, s)
	return dep, nil
}

// HandleRemove removes the edge.
func (h *DependencyHandler) HandleRemove(ctx context.Context, cmd RemoveDependencyCommand) error {
	var s *domain.Schedule

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		if err := s.RemoveDependency(cmd.PredecessorID, cmd.SuccessorID); err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return err
	}

	h.events.PublishAll(ctx, s)
	return nil
}
