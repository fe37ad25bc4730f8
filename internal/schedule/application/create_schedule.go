// Package application exposes the schedule engine's use cases as command
// and query handlers. Handlers load the aggregate, run domain logic inside
// a unit of work, and publish buffered events after commit.
package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/torvane/gantry/internal/schedule/domain"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

// CreateScheduleCommand creates an empty schedule for a project.
type CreateScheduleCommand struct {
	ProjectID    uuid.UUID
	Name         string
	Continuous   bool // every day working, no weekend gaps
	Holidays     []time.Time
	ProjectStart *time.Time
}

func (CreateScheduleCommand) CommandName() string { return "schedule.create" }

// CreateScheduleHandler handles CreateScheduleCommand.
type CreateScheduleHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewCreateScheduleHandler creates the handler.
func NewCreateScheduleHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *CreateScheduleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateScheduleHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// Handle creates and persists the schedule, returning its id.
func (h *CreateScheduleHandler) Handle(ctx context.Context, cmd CreateScheduleCommand) (uuid.UUID, error) {
	cal := calendarDomain.NewWorkCalendar()
	if cmd.Continuous {
		cal = calendarDomain.NewContinuousCalendar()
	}
	for _, holiday := range cmd.Holidays {
		cal.AddHoliday(holiday)
	}

	s, err := domain.NewSchedule(cmd.ProjectID, cmd.Name, cal)
	if err != nil {
		return uuid.Nil, err
	}
	if cmd.ProjectStart != nil {
		s.SetProjectStart(cmd.ProjectStart)
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return uuid.Nil, err
	}

	h.logger.Info("schedule created", "schedule_id", s.ID(), "project_id", cmd.ProjectID)
	h.events.PublishAll(ctx, s)
	return s.ID(), nil
}
