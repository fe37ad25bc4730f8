package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/torvane/gantry/internal/calendar/domain"
	"github.com/torvane/gantry/internal/schedule/domain"
	sharedPersistence "github.com/torvane/gantry/internal/shared/infrastructure/persistence"
)

// executor is the subset of sql.DB and sql.Tx the repository uses, so
// queries transparently join an ambient transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteScheduleRepository persists schedules in SQLite.
type SQLiteScheduleRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteScheduleRepository applies the schema and returns the repository.
func NewSQLiteScheduleRepository(ctx context.Context, db *sql.DB, logger *slog.Logger) (*SQLiteScheduleRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply schedule schema: %w", err)
	}
	return &SQLiteScheduleRepository{db: db, logger: logger}, nil
}

func (r *SQLiteScheduleRepository) executor(ctx context.Context) executor {
	if tx, ok := sharedPersistence.SQLiteTxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

// Save rewrites the whole aggregate. When no transaction is in the context
// the rewrite runs in its own, so a failed save never leaves a schedule
// half-written.
func (r *SQLiteScheduleRepository) Save(ctx context.Context, s *domain.Schedule) error {
	if _, ok := sharedPersistence.SQLiteTxFromContext(ctx); ok {
		return r.save(ctx, r.executor(ctx), s)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if err := r.save(ctx, tx, s); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepository) save(ctx context.Context, ex executor, s *domain.Schedule) error {
	holidays, err := encodeHolidays(s.Calendar().Holidays())
	if err != nil {
		return err
	}

	var activeBaselineID *string
	if b := s.ActiveBaseline(); b != nil {
		id := b.ID().String()
		activeBaselineID = &id
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO schedules (id, project_id, name, project_start, calendar_workweek, calendar_holidays, active_baseline_id, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			project_start = excluded.project_start,
			calendar_workweek = excluded.calendar_workweek,
			calendar_holidays = excluded.calendar_holidays,
			active_baseline_id = excluded.active_baseline_id,
			version = excluded.version,
			updated_at = excluded.updated_at`,
		s.ID().String(), s.ProjectID().String(), s.Name(),
		encodeDatePtr(s.ProjectStart()),
		encodeWorkweek(s.Calendar().WorkingWeekdays()), holidays,
		activeBaselineID, s.Version()+1,
		s.CreatedAt().Format(stampLayout), s.UpdatedAt().Format(stampLayout),
	)
	if err != nil {
		return fmt.Errorf("save schedule row: %w", err)
	}

	// Children are rewritten wholesale; diffing them is not worth the
	// bookkeeping at schedule sizes.
	for _, table := range []string{"activities", "dependencies", "baselines"} {
		if _, err := ex.ExecContext(ctx, "DELETE FROM "+table+" WHERE schedule_id = ?", s.ID().String()); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for pos, a := range s.Activities() {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO activities (id, schedule_id, position, code, name, wbs_code, notes, planned_start, planned_finish, duration_days, status, percent_complete, actual_start, actual_finish, baseline_start, baseline_finish, baseline_duration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID().String(), s.ID().String(), pos, a.Code(), a.Name(), a.WBSCode(), a.Notes(),
			encodeDate(a.PlannedStart()), encodeDate(a.PlannedFinish()), a.Duration(),
			a.Status().String(), a.PercentComplete(),
			encodeDatePtr(a.ActualStart()), encodeDatePtr(a.ActualFinish()),
			encodeDatePtr(a.BaselineStart()), encodeDatePtr(a.BaselineFinish()), a.BaselineDuration(),
			a.CreatedAt().Format(stampLayout), a.UpdatedAt().Format(stampLayout),
		)
		if err != nil {
			return fmt.Errorf("save activity %s: %w", a.Code(), err)
		}
	}

	for _, d := range s.Dependencies() {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO dependencies (schedule_id, predecessor_id, successor_id, kind, lag_days)
			VALUES (?, ?, ?, ?, ?)`,
			s.ID().String(), d.PredecessorID().String(), d.SuccessorID().String(),
			d.Kind().String(), d.Lag(),
		)
		if err != nil {
			return fmt.Errorf("save dependency: %w", err)
		}
	}

	for _, b := range s.Baselines() {
		_, err := ex.ExecContext(ctx, `
			INSERT INTO baselines (id, schedule_id, name, description, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			b.ID().String(), s.ID().String(), b.Name(), b.Description(), b.IsActive(),
			b.CreatedAt().Format(stampLayout), b.UpdatedAt().Format(stampLayout),
		)
		if err != nil {
			return fmt.Errorf("save baseline %s: %w", b.Name(), err)
		}
		for _, entry := range b.Entries() {
			_, err := ex.ExecContext(ctx, `
				INSERT INTO baseline_entries (baseline_id, activity_id, start_date, finish_date, duration_days)
				VALUES (?, ?, ?, ?, ?)`,
				b.ID().String(), entry.ActivityID.String(),
				entry.Start.Format(dateLayout), entry.Finish.Format(dateLayout), entry.Duration,
			)
			if err != nil {
				return fmt.Errorf("save baseline entry: %w", err)
			}
		}
	}

	s.IncrementVersion()
	return nil
}

// FindByID loads one schedule aggregate.
func (r *SQLiteScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	return r.load(ctx, "id = ?", id.String())
}

// FindByProjectID loads the schedule owning a project.
func (r *SQLiteScheduleRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID) (*domain.Schedule, error) {
	return r.load(ctx, "project_id = ?", projectID.String())
}

// List loads every schedule, oldest first.
func (r *SQLiteScheduleRepository) List(ctx context.Context) ([]*domain.Schedule, error) {
	rows, err := r.executor(ctx).QueryContext(ctx, "SELECT id FROM schedules ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parse schedule id %q: %w", raw, err)
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
func (r *SQLiteScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.executor(ctx).ExecContext(ctx, "DELETE FROM schedules WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *SQLiteScheduleRepository) load(ctx context.Context, where string, arg any) (*domain.Schedule, error) {
	ex := r.executor(ctx)

	var (
		rawID, rawProjectID, name, workweek, holidays string
		projectStart, activeBaselineID                *string
		version                                       int
		createdAt, updatedAt                          string
	)
	err := ex.QueryRowContext(ctx, `
		SELECT id, project_id, name, project_start, calendar_workweek, calendar_holidays, active_baseline_id, version, created_at, updated_at
		FROM schedules WHERE `+where, arg).
		Scan(&rawID, &rawProjectID, &name, &projectStart, &workweek, &holidays, &activeBaselineID, &version, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse schedule id: %w", err)
	}
	projectID, err := uuid.Parse(rawProjectID)
	if err != nil {
		return nil, fmt.Errorf("parse project id: %w", err)
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

	start, err := decodeDatePtr(projectStart)
	if err != nil {
		return nil, err
	}

	var baselineID *uuid.UUID
	if activeBaselineID != nil {
		parsed, err := uuid.Parse(*activeBaselineID)
		if err != nil {
			return nil, fmt.Errorf("parse baseline id: %w", err)
		}
		baselineID = &parsed
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

	created, err := time.Parse(stampLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := time.Parse(stampLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return domain.RehydrateSchedule(id, projectID, name, cal, start,
		activities, dependencies, baselines, baselineID, version, created, updated), nil
}

func (r *SQLiteScheduleRepository) loadActivities(ctx context.Context, ex executor, scheduleID uuid.UUID) ([]*domain.Activity, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT id, code, name, wbs_code, notes, planned_start, planned_finish, duration_days, status, percent_complete, actual_start, actual_finish, baseline_start, baseline_finish, baseline_duration, created_at, updated_at
		FROM activities WHERE schedule_id = ? ORDER BY position`, scheduleID.String())
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		var (
			rawID, code, name, wbsCode, notes, rawStatus     string
			plannedStart, plannedFinish                      *string
			duration, percent                                int
			actualStart, actualFinish                        *string
			baselineStart, baselineFinish                    *string
			baselineDuration                                 *int
			createdAt, updatedAt                             string
		)
		if err := rows.Scan(&rawID, &code, &name, &wbsCode, &notes, &plannedStart, &plannedFinish,
			&duration, &rawStatus, &percent, &actualStart, &actualFinish,
			&baselineStart, &baselineFinish, &baselineDuration, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse activity id: %w", err)
		}
		status, err := domain.ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		pStart, err := decodeDate(plannedStart)
		if err != nil {
			return nil, err
		}
		pFinish, err := decodeDate(plannedFinish)
		if err != nil {
			return nil, err
		}
		aStart, err := decodeDatePtr(actualStart)
		if err != nil {
			return nil, err
		}
		aFinish, err := decodeDatePtr(actualFinish)
		if err != nil {
			return nil, err
		}
		bStart, err := decodeDatePtr(baselineStart)
		if err != nil {
			return nil, err
		}
		bFinish, err := decodeDatePtr(baselineFinish)
		if err != nil {
			return nil, err
		}
		created, err := time.Parse(stampLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse activity created_at: %w", err)
		}
		updated, err := time.Parse(stampLayout, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse activity updated_at: %w", err)
		}

		out = append(out, domain.RehydrateActivity(id, code, name, wbsCode, notes,
			pStart, pFinish, duration, status, percent,
			aStart, aFinish, bStart, bFinish, baselineDuration, created, updated))
	}
	return out, rows.Err()
}

func (r *SQLiteScheduleRepository) loadDependencies(ctx context.Context, ex executor, scheduleID uuid.UUID) ([]*domain.Dependency, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT predecessor_id, successor_id, kind, lag_days
		FROM dependencies WHERE schedule_id = ?`, scheduleID.String())
	if err != nil {
		return nil, fmt.Errorf("load dependencies: %w", err)
	}
	defer rows.Close()

	var out []*domain.Dependency
	for rows.Next() {
		var rawPred, rawSucc, rawKind string
		var lag int
		if err := rows.Scan(&rawPred, &rawSucc, &rawKind, &lag); err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		pred, err := uuid.Parse(rawPred)
		if err != nil {
			return nil, fmt.Errorf("parse predecessor id: %w", err)
		}
		succ, err := uuid.Parse(rawSucc)
		if err != nil {
			return nil, fmt.Errorf("parse successor id: %w", err)
		}
		kind, err := domain.ParseDependencyKind(rawKind)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.NewDependency(pred, succ, kind, lag))
	}
	return out, rows.Err()
}

func (r *SQLiteScheduleRepository) loadBaselines(ctx context.Context, ex executor, scheduleID uuid.UUID) ([]*domain.Baseline, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT id, name, description, active, created_at, updated_at
		FROM baselines WHERE schedule_id = ? ORDER BY created_at`, scheduleID.String())
	if err != nil {
		return nil, fmt.Errorf("load baselines: %w", err)
	}
	defer rows.Close()

	type baselineRow struct {
		id                   uuid.UUID
		name, description    string
		active               bool
		created, updated     time.Time
	}
	var headers []baselineRow
	for rows.Next() {
		var rawID, name, description, createdAt, updatedAt string
		var active bool
		if err := rows.Scan(&rawID, &name, &description, &active, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan baseline: %w", err)
		}
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse baseline id: %w", err)
		}
		created, err := time.Parse(stampLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse baseline created_at: %w", err)
		}
		updated, err := time.Parse(stampLayout, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse baseline updated_at: %w", err)
		}
		headers = append(headers, baselineRow{id, name, description, active, created, updated})
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

func (r *SQLiteScheduleRepository) loadBaselineEntries(ctx context.Context, ex executor, baselineID uuid.UUID) ([]domain.BaselineEntry, error) {
	rows, err := ex.QueryContext(ctx, `
		SELECT activity_id, start_date, finish_date, duration_days
		FROM baseline_entries WHERE baseline_id = ?`, baselineID.String())
	if err != nil {
		return nil, fmt.Errorf("load baseline entries: %w", err)
	}
	defer rows.Close()

	var out []domain.BaselineEntry
	for rows.Next() {
		var rawActivityID, start, finish string
		var duration int
		if err := rows.Scan(&rawActivityID, &start, &finish, &duration); err != nil {
			return nil, fmt.Errorf("scan baseline entry: %w", err)
		}
		activityID, err := uuid.Parse(rawActivityID)
		if err != nil {
			return nil, fmt.Errorf("parse entry activity id: %w", err)
		}
		startDate, err := decodeDate(&start)
		if err != nil {
			return nil, err
		}
		finishDate, err := decodeDate(&finish)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.BaselineEntry{
			ActivityID: activityID,
			Start:      startDate,
			Finish:     finishDate,
			Duration:   duration,
		})
	}
	return out, rows.Err()
}
