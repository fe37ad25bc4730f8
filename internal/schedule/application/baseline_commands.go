package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/torvane/gantry/internal/schedule/domain"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

// CreateBaselineCommand snapshots the current planned dates.
type CreateBaselineCommand struct {
	ScheduleID  uuid.UUID
	Name        string
	Description string
	Activate    bool
}

func (CreateBaselineCommand) CommandName() string { return "schedule.baseline.create" }

// SetActiveBaselineCommand switches the variance reference point.
type SetActiveBaselineCommand struct {
	ScheduleID uuid.UUID
	BaselineID uuid.UUID
}

func (SetActiveBaselineCommand) CommandName() string { return "schedule.baseline.activate" }

// ClearBaselineCommand removes baseline fields from every activity. The
// baseline records themselves survive for later reactivation.
type ClearBaselineCommand struct {
	ScheduleID uuid.UUID
}

func (ClearBaselineCommand) CommandName() string { return "schedule.baseline.clear" }

// BaselineHandler handles baseline commands.
type BaselineHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewBaselineHandler creates the handler.
func NewBaselineHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *BaselineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BaselineHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// HandleCreate snapshots a baseline, optionally activating it immediately.
func (h *BaselineHandler) HandleCreate(ctx context.Context, cmd CreateBaselineCommand) (*domain.Baseline, error) {
	var s *domain.Schedule
	var baseline *domain.Baseline

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		baseline, err = s.CreateBaseline(cmd.Name, cmd.Description)
		if err != nil {
			return err
		}
		if cmd.Activate {
			if err := s.SetActiveBaseline(baseline.ID()); err != nil {
				return err
			}
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("baseline created", "schedule_id", cmd.ScheduleID, "baseline", cmd.Name, "activated", cmd.Activate)
	h.events.PublishAll(ctx, s)
	return baseline, nil
}

// HandleActivate switches the active baseline.
func (h *BaselineHandler) HandleActivate(ctx context.Context, cmd SetActiveBaselineCommand) error {
	var s *domain.Schedule

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		if err := s.SetActiveBaseline(cmd.BaselineID); err != nil {
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

// HandleClear removes baseline fields from the activities.
func (h *BaselineHandler) HandleClear(ctx context.Context, cmd ClearBaselineCommand) error {
	var s *domain.Schedule

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		s.ClearBaseline()
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return err
	}

	h.events.PublishAll(ctx, s)
	return nil
}
