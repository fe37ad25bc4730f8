package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/torvane/gantry/internal/interchange"
	"github.com/torvane/gantry/internal/schedule/domain"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
)

type memoryRepo struct {
	schedules map[uuid.UUID]*domain.Schedule
	saves     int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{schedules: make(map[uuid.UUID]*domain.Schedule)}
}

func (r *memoryRepo) Save(_ context.Context, s *domain.Schedule) error {
	r.schedules[s.ID()] = s
	r.saves++
	s.IncrementVersion()
	return nil
}

func (r *memoryRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, domain.ErrScheduleNotFound
	}
	return s, nil
}

func (r *memoryRepo) FindByProjectID(_ context.Context, projectID uuid.UUID) (*domain.Schedule, error) {
	for _, s := range r.schedules {
		if s.ProjectID() == projectID {
			return s, nil
		}
	}
	return nil, domain.ErrScheduleNotFound
}

func (r *memoryRepo) List(_ context.Context) ([]*domain.Schedule, error) {
	out := make([]*domain.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		out = append(out, s)
	}
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.schedules[id]; !ok {
		return domain.ErrScheduleNotFound
	}
	delete(r.schedules, id)
	return nil
}

type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(context.Context) error                       { return nil }
func (noopUnitOfWork) Rollback(context.Context) error                     { return nil }

type recordingPublisher struct {
	routingKeys []string
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.routingKeys = append(p.routingKeys, routingKey)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	repo      *memoryRepo
	publisher *recordingPublisher
	events    *eventbus.EventPublisher
}

func newFixture() *fixture {
	publisher := &recordingPublisher{}
	return &fixture{
		repo:      newMemoryRepo(),
		publisher: publisher,
		events:    eventbus.NewEventPublisher(publisher, nil),
	}
}

func (f *fixture) seedSchedule(t *testing.T) uuid.UUID {
	t.Helper()
	s, err := domain.NewSchedule(uuid.New(), "Terminal Expansion", calendarDomain.NewWorkCalendar())
	require.NoError(t, err)
	s.ClearDomainEvents()
	f.repo.schedules[s.ID()] = s
	return s.ID()
}

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestCreateScheduleHandler(t *testing.T) {
	f := newFixture()
	h := NewCreateScheduleHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	start := jan(1)
	id, err := h.Handle(context.Background(), CreateScheduleCommand{
		ProjectID:    uuid.New(),
		Name:         "Terminal Expansion",
		Holidays:     []time.Time{jan(15)},
		ProjectStart: &start,
	})
	require.NoError(t, err)

	s, err := f.repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Terminal Expansion", s.Name())
	assert.False(t, s.Calendar().IsWorkingDay(jan(15)))
	require.NotNil(t, s.ProjectStart())
	assert.Equal(t, jan(1), *s.ProjectStart())
}

func TestActivityHandler_AddPublishesEvent(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	h := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	activity, err := h.HandleAdd(context.Background(), AddActivityCommand{
		ScheduleID:   scheduleID,
		Code:         "A100",
		Name:         "Foundation",
		PlannedStart: jan(1),
		DurationDays: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "A100", activity.Code())
	assert.Equal(t, jan(5), activity.PlannedFinish())
	assert.Contains(t, f.publisher.routingKeys, domain.RoutingKeyActivityAdded)
	assert.Equal(t, 1, f.repo.saves)
}

func TestActivityHandler_Progress(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	h := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	activity, err := h.HandleAdd(context.Background(), AddActivityCommand{
		ScheduleID: scheduleID, Code: "A100", Name: "Foundation", PlannedStart: jan(1), DurationDays: 5,
	})
	require.NoError(t, err)

	started := jan(2)
	percent := 40
	require.NoError(t, h.HandleProgress(context.Background(), UpdateProgressCommand{
		ScheduleID:      scheduleID,
		ActivityID:      activity.ID(),
		ActualStart:     &started,
		PercentComplete: &percent,
	}))

	assert.Equal(t, domain.StatusInProgress, activity.Status())
	assert.Equal(t, 40, activity.PercentComplete())
	// Progress never moves planned dates.
	assert.Equal(t, jan(1), activity.PlannedStart())
}

func TestRescheduleHandler_PropagatesAndReports(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	activities := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	dependencies := NewDependencyHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	h := NewRescheduleHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	ctx := context.Background()
	a, err := activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "A", Name: "A", PlannedStart: jan(1), DurationDays: 2})
	require.NoError(t, err)
	b, err := activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "B", Name: "B", PlannedStart: jan(3), DurationDays: 2})
	require.NoError(t, err)
	_, err = dependencies.HandleAdd(ctx, AddDependencyCommand{
		ScheduleID: scheduleID, PredecessorID: a.ID(), SuccessorID: b.ID(), Kind: domain.FinishToStart,
	})
	require.NoError(t, err)

	newStart := jan(3)
	result, err := h.Handle(ctx, RescheduleActivityCommand{
		ScheduleID: scheduleID,
		ActivityID: a.ID(),
		NewStart:   &newStart,
	})
	require.NoError(t, err)

	assert.Len(t, result.Changes, 2)
	assert.Equal(t, jan(5), b.PlannedStart())
	assert.Contains(t, f.publisher.routingKeys, domain.RoutingKeyActivityRescheduled)
}

func TestBaselineHandler_CreateAndActivate(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	activities := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	h := NewBaselineHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	ctx := context.Background()
	a, err := activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "A", Name: "A", PlannedStart: jan(1), DurationDays: 3})
	require.NoError(t, err)

	baseline, err := h.HandleCreate(ctx, CreateBaselineCommand{
		ScheduleID: scheduleID, Name: "BL1", Activate: true,
	})
	require.NoError(t, err)
	assert.True(t, baseline.IsActive())
	require.NotNil(t, a.BaselineStart())
	assert.Equal(t, jan(1), *a.BaselineStart())

	require.NoError(t, h.HandleClear(ctx, ClearBaselineCommand{ScheduleID: scheduleID}))
	assert.Nil(t, a.BaselineStart())
	assert.Contains(t, f.publisher.routingKeys, domain.RoutingKeyBaselineCleared)
}

func TestImportHandler_Strict(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	h := NewImportHandler(f.repo, noopUnitOfWork{}, f.events, nil)

	result, err := h.Handle(context.Background(), ImportScheduleCommand{
		ScheduleID: scheduleID,
		Activities: []interchange.ActivityRecord{
			{ActivityID: "A100", Name: "Foundation", StartDate: "2024-01-01", DurationDays: 3},
			{ActivityID: "A200", Name: "Framing", DurationDays: 4},
		},
		Dependencies: []interchange.DependencyRecord{
			{PredecessorID: "A100", SuccessorID: "A200", Kind: "FS"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.ActivitiesAdded)
	assert.Equal(t, 1, result.DependenciesAdded)
	assert.Contains(t, f.publisher.routingKeys, domain.RoutingKeyScheduleImported)
}

type countingCache struct {
	store map[string]*domain.Result
	hits  int
	sets  int
}

func newCountingCache() *countingCache {
	return &countingCache{store: make(map[string]*domain.Result)}
}

func (c *countingCache) key(id uuid.UUID, version int) string {
	return fmt.Sprintf("%s:%d", id, version)
}

func (c *countingCache) Get(_ context.Context, id uuid.UUID, version int) (*domain.Result, bool) {
	result, ok := c.store[c.key(id, version)]
	if ok {
		c.hits++
	}
	return result, ok
}

func (c *countingCache) Set(_ context.Context, id uuid.UUID, version int, result *domain.Result) {
	c.store[c.key(id, version)] = result
	c.sets++
}

func TestQueryService_CriticalPathCaching(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	activities := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	results := newCountingCache()
	q := NewQueryService(f.repo, results, nil)

	ctx := context.Background()
	_, err := activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "A", Name: "A", PlannedStart: jan(1), DurationDays: 3})
	require.NoError(t, err)

	first, err := q.GetCriticalPath(ctx, GetCriticalPathQuery{ScheduleID: scheduleID})
	require.NoError(t, err)
	assert.Equal(t, 1, results.sets)
	assert.Equal(t, 0, results.hits)

	second, err := q.GetCriticalPath(ctx, GetCriticalPathQuery{ScheduleID: scheduleID})
	require.NoError(t, err)
	assert.Equal(t, 1, results.hits)
	assert.Same(t, first, second)

	// A mutation bumps the version, retiring the cached entry.
	_, err = activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "B", Name: "B", PlannedStart: jan(1), DurationDays: 1})
	require.NoError(t, err)

	_, err = q.GetCriticalPath(ctx, GetCriticalPathQuery{ScheduleID: scheduleID})
	require.NoError(t, err)
	assert.Equal(t, 2, results.sets)
}

func TestQueryService_StatsAndVariance(t *testing.T) {
	f := newFixture()
	scheduleID := f.seedSchedule(t)
	activities := NewActivityHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	baselines := NewBaselineHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	reschedule := NewRescheduleHandler(f.repo, noopUnitOfWork{}, f.events, nil)
	q := NewQueryService(f.repo, nil, nil)

	ctx := context.Background()
	a, err := activities.HandleAdd(ctx, AddActivityCommand{ScheduleID: scheduleID, Code: "A", Name: "A", PlannedStart: jan(1), DurationDays: 3})
	require.NoError(t, err)
	_, err = baselines.HandleCreate(ctx, CreateBaselineCommand{ScheduleID: scheduleID, Name: "BL1", Activate: true})
	require.NoError(t, err)

	newStart := jan(3)
	_, err = reschedule.Handle(ctx, RescheduleActivityCommand{ScheduleID: scheduleID, ActivityID: a.ID(), NewStart: &newStart})
	require.NoError(t, err)

	report, err := q.GetVariance(ctx, GetVarianceQuery{ScheduleID: scheduleID})
	require.NoError(t, err)
	assert.Equal(t, 2, report.ProjectVariance)

	stats, err := q.GetStats(ctx, GetStatsQuery{ScheduleID: scheduleID, AsOf: jan(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActivityCount)

	file, err := q.ExportSchedule(ctx, ExportScheduleQuery{ScheduleID: scheduleID})
	require.NoError(t, err)
	require.Len(t, file.Activities, 1)
	assert.Equal(t, "A", file.Activities[0].ActivityID)
}
