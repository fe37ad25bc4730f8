package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/torvane/gantry/internal/interchange"
	"github.com/torvane/gantry/internal/schedule/domain"
	"github.com/torvane/gantry/internal/schedule/infrastructure/cache"
)

// GetScheduleQuery loads one schedule aggregate.
type GetScheduleQuery struct {
	ScheduleID uuid.UUID
}

func (GetScheduleQuery) QueryName() string { return "schedule.get" }

// GetCriticalPathQuery computes (or fetches) the schedule network result.
type GetCriticalPathQuery struct {
	ScheduleID uuid.UUID
}

func (GetCriticalPathQuery) QueryName() string { return "schedule.critical_path" }

// GetStatsQuery summarizes a schedule as of a reference date.
type GetStatsQuery struct {
	ScheduleID uuid.UUID
	AsOf       time.Time // zero means now
}

func (GetStatsQuery) QueryName() string { return "schedule.stats" }

// GetVarianceQuery compares planned dates against the active baseline.
type GetVarianceQuery struct {
	ScheduleID uuid.UUID
}

func (GetVarianceQuery) QueryName() string { return "schedule.variance" }

// ExportScheduleQuery flattens a schedule into interchange records.
type ExportScheduleQuery struct {
	ScheduleID uuid.UUID
}

func (ExportScheduleQuery) QueryName() string { return "schedule.export" }

// QueryService serves the read side. Network results are cached per
// schedule version; every mutation bumps the version, so stale entries are
// never served.
type QueryService struct {
	repo    domain.ScheduleRepository
	results cache.ResultCache
	logger  *slog.Logger
}

// NewQueryService creates the query service.
func NewQueryService(repo domain.ScheduleRepository, results cache.ResultCache, logger *slog.Logger) *QueryService {
	if results == nil {
		results = cache.NoopResultCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{repo: repo, results: results, logger: logger}
}

// GetSchedule loads the aggregate.
func (q *QueryService) GetSchedule(ctx context.Context, query GetScheduleQuery) (*domain.Schedule, error) {
	return q.repo.FindByID(ctx, query.ScheduleID)
}

// ListSchedules loads every schedule.
func (q *QueryService) ListSchedules(ctx context.Context) ([]*domain.Schedule, error) {
	return q.repo.List(ctx)
}

// GetCriticalPath returns the computed schedule network, from cache when the
// stored version has been computed before.
func (q *QueryService) GetCriticalPath(ctx context.Context, query GetCriticalPathQuery) (*domain.Result, error) {
	s, err := q.repo.FindByID(ctx, query.ScheduleID)
	if err != nil {
		return nil, err
	}

	if result, ok := q.results.Get(ctx, s.ID(), s.Version()); ok {
		return result, nil
	}

	result, err := s.ComputeSchedule()
	if err != nil {
		return nil, err
	}
	q.results.Set(ctx, s.ID(), s.Version(), result)
	return result, nil
}

// GetStats summarizes the schedule.
func (q *QueryService) GetStats(ctx context.Context, query GetStatsQuery) (*domain.ScheduleStats, error) {
	s, err := q.repo.FindByID(ctx, query.ScheduleID)
	if err != nil {
		return nil, err
	}
	asOf := query.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	return s.Stats(asOf)
}

// GetVariance reports schedule slip against the active baseline.
func (q *QueryService) GetVariance(ctx context.Context, query GetVarianceQuery) (*domain.VarianceReport, error) {
	s, err := q.repo.FindByID(ctx, query.ScheduleID)
	if err != nil {
		return nil, err
	}
	return s.Variance()
}

// ExportSchedule flattens the schedule, derived fields included.
func (q *QueryService) ExportSchedule(ctx context.Context, query ExportScheduleQuery) (*interchange.ScheduleFile, error) {
	s, err := q.repo.FindByID(ctx, query.ScheduleID)
	if err != nil {
		return nil, err
	}
	return interchange.Export(s)
}
