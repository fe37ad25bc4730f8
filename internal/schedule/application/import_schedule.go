package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/torvane/gantry/internal/interchange"
	"github.com/torvane/gantry/internal/schedule/domain"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

// ImportScheduleCommand inserts a batch of interchange records into a
// schedule.
type ImportScheduleCommand struct {
	ScheduleID    uuid.UUID
	Activities    []interchange.ActivityRecord
	Dependencies  []interchange.DependencyRecord
	ClearExisting bool
	BestEffort    bool
}

func (ImportScheduleCommand) CommandName() string { return "schedule.import" }

// ImportHandler handles ImportScheduleCommand.
type ImportHandler struct {
	repo   domain.ScheduleRepository
	uow    sharedApplication.UnitOfWork
	events *eventbus.EventPublisher
	logger *slog.Logger
}

// NewImportHandler creates the handler.
func NewImportHandler(repo domain.ScheduleRepository, uow sharedApplication.UnitOfWork, events *eventbus.EventPublisher, logger *slog.Logger) *ImportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportHandler{repo: repo, uow: uow, events: events, logger: logger}
}

// Handle runs the import inside one transaction. A strict import that fails
// validation leaves both the aggregate and the store untouched.
func (h *ImportHandler) Handle(ctx context.Context, cmd ImportScheduleCommand) (*interchange.ImportResult, error) {
	var s *domain.Schedule
	var result *interchange.ImportResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		s, err = h.repo.FindByID(txCtx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		result, err = interchange.Import(s, cmd.Activities, cmd.Dependencies, interchange.ImportOptions{
			ClearExisting: cmd.ClearExisting,
			BestEffort:    cmd.BestEffort,
		})
		if err != nil {
			return err
		}
		return h.repo.Save(txCtx, s)
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("schedule imported",
		"schedule_id", cmd.ScheduleID,
		"activities", result.ActivitiesAdded,
		"dependencies", result.DependenciesAdded,
		"row_errors", len(result.RowErrors),
	)
	h.events.PublishAll(ctx, s)
	return result, nil
}
