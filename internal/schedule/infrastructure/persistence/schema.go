package persistence

// sqliteSchema is applied on startup. The aggregate is saved whole, so the
// children carry ON DELETE CASCADE and no independent versioning.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS schedules (
	id                 TEXT PRIMARY KEY,
	project_id         TEXT NOT NULL UNIQUE,
	name               TEXT NOT NULL,
	project_start      TEXT,
	calendar_workweek  TEXT NOT NULL,
	calendar_holidays  TEXT NOT NULL DEFAULT '[]',
	active_baseline_id TEXT,
	version            INTEGER NOT NULL DEFAULT 0,
	created_at         TEXT NOT NULL,
	updated_at         TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id                TEXT PRIMARY KEY,
	schedule_id       TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	position          INTEGER NOT NULL,
	code              TEXT NOT NULL,
	name              TEXT NOT NULL,
	wbs_code          TEXT NOT NULL DEFAULT '',
	notes             TEXT NOT NULL DEFAULT '',
	planned_start     TEXT,
	planned_finish    TEXT,
	duration_days     INTEGER NOT NULL,
	status            TEXT NOT NULL,
	percent_complete  INTEGER NOT NULL DEFAULT 0,
	actual_start      TEXT,
	actual_finish     TEXT,
	baseline_start    TEXT,
	baseline_finish   TEXT,
	baseline_duration INTEGER,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	UNIQUE (schedule_id, code)
);

CREATE INDEX IF NOT EXISTS idx_activities_schedule ON activities(schedule_id, position);

CREATE TABLE IF NOT EXISTS dependencies (
	schedule_id    TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	predecessor_id TEXT NOT NULL,
	successor_id   TEXT NOT NULL,
	kind           TEXT NOT NULL,
	lag_days       INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (schedule_id, predecessor_id, successor_id)
);

CREATE TABLE IF NOT EXISTS baselines (
	id          TEXT PRIMARY KEY,
	schedule_id TEXT NOT NULL REFERENCES schedules(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	active      INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS baseline_entries (
	baseline_id   TEXT NOT NULL REFERENCES baselines(id) ON DELETE CASCADE,
	activity_id   TEXT NOT NULL,
	start_date    TEXT NOT NULL,
	finish_date   TEXT NOT NULL,
	duration_days INTEGER NOT NULL,
	PRIMARY KEY (baseline_id, activity_id)
);
`
