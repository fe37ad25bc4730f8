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

// RescheduleActivityCommand moves or resizes one activity and ripples the
// change through its successors.
type RescheduleActivityCommand struct {
	ScheduleID  uuid.UUID
	ActivityID  uuid.UUID
	NewStart    *time.Time
	NewFinish   *time.Time
	NewDuration *int
}

func (RescheduleActivityCommand) CommandName() string { return "schedule.activity.reschedule" }

// RescheduleHandler handles RescheduleActivityCommand.
type RescheduleHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewRescheduleHandler creates the handler.
func NewRescheduleHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *RescheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RescheduleHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// Handle applies the change and returns the moved activities together with
// the recomputed schedule.
func (h *RescheduleHandler) Handle(ctx context.Context, cmd RescheduleActivityCommand) (*domain.RescheduleResult, error) {
	var s *domain.Schedule
	var result *domain.RescheduleResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		result, err = s.Reschedule(domain.ChangeRequest{
			ActivityID:  cmd.ActivityID,
			NewStart:    cmd.NewStart,
			NewFinish:   cmd.NewFinish,
			NewDuration: cmd.NewDuration,
		})
		if err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("activity rescheduled",
		"schedule_id", cmd.ScheduleID,
		"activity_id", cmd.ActivityID,
		"moved", len(result.Changes),
	)
	h.events.PublishAll(ctx, s)
	return result, nil
}
