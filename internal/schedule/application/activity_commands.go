package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/torvane/gantry/internal/schedule/domain"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

// AddActivityCommand adds an activity to a schedule.
type AddActivityCommand struct {
	ScheduleID   uuid.UUID
	Code         string
	Name         string
	WBSCode      string
	Notes        string
	PlannedStart time.Time // zero leaves the activity unscheduled
	DurationDays int       // 0 = milestone
}

func (AddActivityCommand) CommandName() string { return "schedule.activity.add" }

// RemoveActivityCommand removes an activity, optionally cascading its edges.
type RemoveActivityCommand struct {
	ScheduleID uuid.UUID
	ActivityID uuid.UUID
	Cascade    bool
}

func (RemoveActivityCommand) CommandName() string { return "schedule.activity.remove" }

// UpdateProgressCommand records execution progress on an activity. Progress
// tracking never moves planned dates.
type UpdateProgressCommand struct {
	ScheduleID      uuid.UUID
	ActivityID      uuid.UUID
	PercentComplete *int
	ActualStart     *time.Time
	ActualFinish    *time.Time
	Status          *domain.Status
}

func (UpdateProgressCommand) CommandName() string { return "schedule.activity.progress" }

// ActivityHandler handles activity lifecycle commands.
type ActivityHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewActivityHandler creates the handler.
func NewActivityHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *ActivityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// HandleAdd adds the activity and returns it.
func (h *ActivityHandler) HandleAdd(ctx context.Context, cmd AddActivityCommand) (*domain.Activity, error) {
	var s *domain.Schedule
	var activity *domain.Activity

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		activity, err = s.AddActivity(domain.ActivityParams{
			Code:         cmd.Code,
			Name:         cmd.Name,
			WBSCode:      cmd.WBSCode,
			Notes:        cmd.Notes,
			PlannedStart: cmd.PlannedStart,
			DurationDays: cmd.DurationDays,
		})
		if err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("activity added", "schedule_id", cmd.ScheduleID, "code", cmd.Code)
	h.events.PublishAll(ctx, s)
	return activity, nil
}

// HandleRemove removes the activity and returns the dependency keys removed
// with it.
func (h *ActivityHandler) HandleRemove(ctx context.Context, cmd RemoveActivityCommand) ([]domain.DependencyKey, error) {
	var s *domain.Schedule
	var removed []domain.DependencyKey

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		removed, err = s.RemoveActivity(cmd.ActivityID, cmd.Cascade)
		if err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("activity removed", "schedule_id", cmd.ScheduleID, "activity_id", cmd.ActivityID, "removed_edges", len(removed))
	h.events.PublishAll(ctx, s)
	return removed, nil
}

// HandleProgress applies the requested progress fields in order: actual
// start, percent complete, actual finish, then an explicit status override.
func (h *ActivityHandler) HandleProgress(ctx context.Context, cmd UpdateProgressCommand) error {
	var s *domain.Schedule

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		activity, err := s.Activity(cmd.ActivityID)
		if err != nil {
			return err
		}
		if cmd.ActualStart != nil {
			if err := activity.Start(*cmd.ActualStart); err != nil {
				return err
			}
		}
		if cmd.PercentComplete != nil {
			if err := activity.UpdateProgress(*cmd.PercentComplete); err != nil {
				return err
			}
		}
		if cmd.ActualFinish != nil {
			if err := activity.Complete(*cmd.ActualFinish); err != nil {
				return err
			}
		}
		if cmd.Status != nil {
			if err := activity.ChangeStatus(*cmd.Status); err != nil {
				return err
			}
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return err
	}

	h.events.PublishAll(ctx, s)
	return nil
}
