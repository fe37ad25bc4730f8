package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/torvane/gantry/internal/schedule/domain"
	sharedPersistence "github.com/torvane/gantry/internal/shared/infrastructure/persistence"
)

// postgresSchema mirrors the SQLite schema with native types.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS schedules (
	id                 UUID PRIMARY KEY,
	project_id         UUID NOT NULL UNIQUE,
	name               TEXT NOT NULL,
	project_start      DATE,
	calendar_workweek  TEXT NOT NULL,
	calendar_holidays  TEXT NOT NULL DEFAULT '[]',
	active_baseline_id UUID,
	version            INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMPTZ NOT NULL,
	updated_at         TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id                UUID PRIMARY KEY,
	schedule_id       UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	position          INTEGER NOT NULL,
	code              TEXT NOT NULL,
	name              TEXT NOT NULL,
	wbs_code          TEXT NOT NULL DEFAULT '',
	notes             TEXT NOT NULL DEFAULT '',
	planned_start     DATE,
	planned_finish    DATE,
	duration_days     INTEGER NOT NULL,
	status            TEXT NOT NULL,
	percent_complete  INTEGER NOT NULL DEFAULT 0,
	actual_start      DATE,
	actual_finish     DATE,
	baseline_start    DATE,
	baseline_finish   DATE,
	baseline_duration INTEGER,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL,
	UNIQUE (schedule_id, code)
);

CREATE INDEX IF NOT EXISTS idx_activities_schedule ON activities(schedule_id, position);

CREATE TABLE IF NOT EXISTS dependencies (
	schedule_id    UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	predecessor_id UUID NOT NULL,
	successor_id   UUID NOT NULL,
	kind           TEXT NOT NULL,
	lag_days       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (schedule_id, predecessor_id, successor_id)
);

CREATE TABLE IF NOT EXISTS baselines (
	id          UUID PRIMARY KEY,
	schedule_id UUID NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	active      BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS baseline_entries (
	baseline_id   UUID NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
	activity_id   UUID NOT NULL,
	start_date    DATE NOT NULL,
	finish_date   DATE NOT NULL,
	duration_days INTEGER NOT NULL,
	PRIMARY KEY (baseline_id, activity_id)
);
`

// pgxExecutor is the subset of pgxpool.Pool and pgx.Tx the repository uses.
type pgxExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresScheduleRepository persists schedules in PostgreSQL.
type PostgresScheduleRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresScheduleRepository applies the schema and returns the repository.
func NewPostgresScheduleRepository(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) (*PostgresScheduleRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("apply schedule schema: %w", err)
	}
	return &PostgresScheduleRepository{pool: pool, logger: logger}, nil
}

func (r *PostgresScheduleRepository) executor(ctx context.Context) pgxExecutor {
	if tx, ok := sharedPersistence.PgxTxFromContext(ctx); ok {
		return tx
	}
	return r.pool
}

// Save rewrites the whole aggregate, inside the ambient transaction when one
// is present and in its own otherwise.
func (r *PostgresScheduleRepository) Save(ctx context.Context, s *domain.Schedule) error {
	if _, ok := sharedPersistence.PgxTxFromContext(ctx); ok {
		return r.save(ctx, r.executor(ctx), s)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if err := r.save(ctx, tx, s); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *PostgresScheduleRepository) save(ctx context.Context, ex pgxExecutor, s *domain.Schedule) error {
	holidays, err := encodeHolidays(s.Calendar().Holidays())
	if err != nil {
		return err
	}

	var activeBaselineID *uuid.UUID
	if b := s.ActiveBaseline(); b != nil {
		id := b.ID()
		activeBaselineID = &id
	}

	_, err = ex.Exec(ctx, `
		INSERT INTO schedules (id, project_id, name, project_start, calendar_workweek, calendar_holidays, active_baseline_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			project_start = EXCLUDED.project_start,
			calendar_workweek = EXCLUDED.calendar_workweek,
			calendar_holidays = EXCLUDED.calendar_holidays,
			active_baseline_id = EXCLUDED.active_baseline_id,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at`,
		s.ID(), s.ProjectID(), s.Name(), s.ProjectStart(),
		encodeWorkweek(s.Calendar().WorkingWeekdays()), holidays,
		activeBaselineID, s.Version()+1, s.CreatedAt(), s.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save schedule row: %w", err)
	}

	for _, table := range []string{"activities", "dependencies", "baselines"} {
		if _, err := ex.Exec(ctx, "DELETE FROM "+table+" WHERE schedule_id = $1", s.ID()); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for pos, a := range s.Activities() {
		_, err := ex.Exec(ctx, `
			INSERT INTO activities (id, schedule_id, position, code, name, wbs_code, notes, planned_start, planned_finish, duration_days, status, percent_complete, actual_start, actual_finish, baseline_start, baseline_finish, baseline_duration, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
			a.ID(), s.ID(), pos, a.Code(), a.Name(), a.WBSCode(), a.Notes(),
			nullableDate(a.PlannedStart()), nullableDate(a.PlannedFinish()), a.Duration(),
			a.Status().String(), a.PercentComplete(),
			a.ActualStart(), a.ActualFinish(),
			a.BaselineStart(), a.BaselineFinish(), a.BaselineDuration(),
			a.CreatedAt(), a.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save activity %s: %w", a.Code(), err)
		}
	}

	for _, d := range s.Dependencies() {
		_, err := ex.Exec(ctx, `
			INSERT INTO dependencies (schedule_id, predecessor_id, successor_id, kind, lag_days)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID(), d.PredecessorID(), d.SuccessorID(), d.Kind().String(), d.Lag(),
		)
		if err != nil {
			return fmt.Errorf("save dependency: %w", err)
		}
	}

	for _, b := range s.Baselines() {
		_, err := ex.Exec(ctx, `
			INSERT INTO baselines (id, schedule_id, name, description, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID(), s.ID(), b.Name(), b.Description(), b.IsActive(), b.CreatedAt(), b.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("save baseline %s: %w", b.Name(), err)
		}
		for _, entry := range b.Entries() {
			_, err := ex.Exec(ctx, `
				INSERT INTO baseline_entries (baseline_id, activity_id, start_date, finish_date, duration_days)
				VALUES ($1, $2, $3, $4, $5)`,
				b.ID(), entry.ActivityID, entry.Start, entry.Finish, entry.Duration,
			)
			if err != nil {
				return fmt.Errorf("save baseline entry: %w", err)
			}
		}
	}

	s.IncrementVersion()
	return nil
}

// nullableDate maps the zero time to NULL so DATE columns stay clean.
func nullableDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// FindByID loads one schedule aggregate.
func (r *PostgresScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	return r.load(ctx, "id = $1", id)
}

// FindByProjectID loads the schedule owning a project.
func (r *PostgresScheduleRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Schedule, error) {
	return r.load(ctx, "project_id = $1", projectID)
}

// List loads every schedule, oldest first.
func (r *PostgresScheduleRepository) List(ctx context.Context) ([]*domain.Schedule, error) {
	rows, err := r.executor(ctx).Query(ctx, "SELECT id FROM schedules ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Schedule, 0, len(ids))
	for _, id := range ids {
		s, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Delete removes a schedule and, through cascades, all its children.
func (r *PostgresScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.executor(ctx).Exec(ctx, "DELETE FROM schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *PostgresScheduleRepository) load(ctx context.Context, where string, arg any) (*domain.Schedule, error) {
	ex := r.executor(ctx)

	var (
		id, projectID        uuid.UUID
		name, workweek       string
		holidays             string
		projectStart         *time.Time
		activeBaselineID     *uuid.UUID
		version              int
		createdAt, updatedAt time.Time
	)
	err := ex.QueryRow(ctx, `
		SELECT id, project_id, name, project_start, calendar_workweek, calendar_holidays, active_baseline_id, version, created_at, updated_at
		FROM schedules WHERE `+where, arg).
		Scan(&id, &projectID, &name, &projectStart, &workweek, &holidays, &activeBaselineID, &version, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	week, err := decodeWorkweek(workweek)
	if err != nil {
		return nil, err
	}
	holidayDates, err := decodeHolidays(holidays)
	if err != nil {
		return nil, err
	}
	cal := calendarDomain.RehydrateWorkCalendar(week, holidayDates)

	if projectStart != nil {
		normalized := calendarDomain.Normalize(*projectStart)
		projectStart = &normalized
	}

	activities, err := r.loadActivities(ctx, ex, id)
	if err != nil {
		return nil, err
	}
	dependencies, err := r.loadDependencies(ctx, ex, id)
	if err != nil {
		return nil, err
	}
	baselines, err := r.loadBaselines(ctx, ex, id)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateSchedule(id, projectID, name, cal, projectStart,
		activities, dependencies, baselines, activeBaselineID, version, createdAt, updatedAt), nil
}

func (r *PostgresScheduleRepository) loadActivities(ctx context.Context, ex pgxExecutor, scheduleID uuid.UUID) ([]*domain.Activity, error) {
	rows, err := ex.Query(ctx, `
		SELECT id, code, name, wbs_code, notes, planned_start, planned_finish, duration_days, status, percent_complete, actual_start, actual_finish, baseline_start, baseline_finish, baseline_duration, created_at, updated_at
		FROM activities WHERE schedule_id = $1 ORDER BY position`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		var (
			id                            uuid.UUID
			code, name, wbsCode, notes    string
			plannedStart, plannedFinish   *time.Time
			duration, percent             int
			rawStatus                     string
			actualStart, actualFinish     *time.Time
			baselineStart, baselineFinish *time.Time
			baselineDuration              *int
			createdAt, updatedAt          time.Time
		)
		if err := rows.Scan(&id, &code, &name, &wbsCode, &notes, &plannedStart, &plannedFinish,
			&duration, &rawStatus, &percent, &actualStart, &actualFinish,
			&baselineStart, &baselineFinish, &baselineDuration, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}

		out = append(out, domain.RehydrateActivity(id, code, name, wbsCode, notes,
			normalizedOrZero(plannedStart), normalizedOrZero(plannedFinish), duration, status, percent,
			normalizedPtr(actualStart), normalizedPtr(actualFinish),
			normalizedPtr(baselineStart), normalizedPtr(baselineFinish), baselineDuration,
			createdAt, updatedAt))
	}
	return out, rows.Err()
}

func normalizedOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return calendarDomain.Normalize(*t)
}

func normalizedPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	normalized := calendarDomain.Normalize(*t)
	return &normalized
}

func (r *PostgresScheduleRepository) loadDependencies(ctx context.Context, ex pgxExecutor, scheduleID uuid.UUID) ([]*domain.Dependency, error) {
	rows, err := ex.Query(ctx, `
		SELECT predecessor_id, successor_id, kind, lag_days
		FROM dependencies WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load dependencies: %w", err)
	}
	defer rows.Close()

	var out []*domain.Dependency
	for rows.Next() {
		var pred, succ uuid.UUID
		var rawKind string
		var lag int
		if err := rows.Scan(&pred, &succ, &rawKind, &lag); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		kind, err := domain.ParseDependencyKind(rawKind)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.NewDependency(pred, succ, kind, lag))
	}
	return out, rows.Err()
}

func (r *PostgresScheduleRepository) loadBaselines(ctx context.Context, ex pgxExecutor, scheduleID uuid.UUID) ([]*domain.Baseline, error) {
	rows, err := ex.Query(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM baselines WHERE schedule_id = $1 ORDER BY created_at`, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	defer rows.Close()

	type baselineRow struct {
		id                uuid.UUID
		name, description string
		active            bool
		created, updated  time.Time
	}
	var headers []baselineRow
	for rows.Next() {
		var h baselineRow
		if err := rows.Scan(&h.id, &h.name, &h.description, &h.active, &h.created, &h.updated); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*domain.Baseline, 0, len(headers))
	for _, h := range headers {
		entries, err := r.loadBaselineEntries(ctx, ex, h.id)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.RehydrateBaseline(h.id, scheduleID, h.name, h.description, h.active, entries, h.created, h.updated))
	}
	return out, nil
}

func (r *PostgresScheduleRepository) loadBaselineEntries(ctx context.Context, ex pgxExecutor, baselineID uuid.UUID) ([]domain.BaselineEntry, error) {
	rows, err := ex.Query(ctx, `
		SELECT activity_id, start_date, finish_date, duration_days
		FROM baseline_entries WHERE baseline_id = $1`, baselineID)
	if err != nil {
		return nil, fmt.Errorf("load baseline entries: %w", err)
	}
	defer rows.Close()

	var out []domain.BaselineEntry
	for rows.Next() {
		var entry domain.BaselineEntry
		var start, finish time.Time
		if err := rows.Scan(&entry.ActivityID, &start, &finish, &entry.Duration); err != nil {
			return nil, fmt.Errorf("scan baseline entry: %w", err)
		}
		entry.Start = calendarDomain.Normalize(start)
		entry.Finish = calendarDomain.Normalize(finish)
		out = append(out, entry)
	}
	return out, rows.Err()
}
