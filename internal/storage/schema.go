// ABOUTME: Schema registry: table and index DDL for every entity.
// ABOUTME: Migrations compose these definitions; timestamps are epoch milliseconds.
package storage

const (
	ddlWorkoutTemplates = `
	CREATE TABLE IF NOT EXISTS workout_templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		last_used INTEGER
	)`

	ddlExerciseTemplates = `
	CREATE TABLE IF NOT EXISTS exercise_templates (
		id TEXT PRIMARY KEY,
		template_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL,
		target_sets INTEGER,
		target_reps INTEGER,
		target_weight REAL,
		notes TEXT,
		FOREIGN KEY (template_id) REFERENCES workout_templates(id) ON DELETE CASCADE
	)`

	// Sessions are history: deleting the template they came from keeps them.
	ddlWorkoutSessions = `
	CREATE TABLE IF NOT EXISTS workout_sessions (
		id TEXT PRIMARY KEY,
		template_id TEXT,
		template_name TEXT,
		name TEXT NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER,
		duration INTEGER,
		notes TEXT,
		FOREIGN KEY (template_id) REFERENCES workout_templates(id) ON DELETE SET NULL
	)`

	ddlExercises = `
	CREATE TABLE IF NOT EXISTS exercises (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		name TEXT NOT NULL,
		sort_order INTEGER NOT NULL,
		notes TEXT,
		FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE CASCADE
	)`

	ddlWorkoutSets = `
	CREATE TABLE IF NOT EXISTS workout_sets (
		id TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		session_id TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		reps INTEGER NOT NULL DEFAULT 0,
		weight REAL NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		completed_at INTEGER,
		FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE,
		FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE CASCADE
	)`

	ddlPRRecords = `
	CREATE TABLE IF NOT EXISTS pr_records (
		id TEXT PRIMARY KEY,
		exercise_name TEXT NOT NULL,
		reps INTEGER NOT NULL,
		weight REAL NOT NULL,
		session_id TEXT,
		achieved_at INTEGER NOT NULL,
		created_at INTEGER NOT NULL,
		UNIQUE (exercise_name, reps),
		FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE SET NULL
	)`

	ddlUserSettings = `
	CREATE TABLE IF NOT EXISTS user_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		weight_unit TEXT NOT NULL DEFAULT 'lbs',
		default_rest_time INTEGER NOT NULL DEFAULT 90,
		enable_haptics INTEGER NOT NULL DEFAULT 1,
		enable_sync_reminders INTEGER NOT NULL DEFAULT 1
	)`

	ddlPrograms = `
	CREATE TABLE IF NOT EXISTS programs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		is_active INTEGER NOT NULL DEFAULT 0,
		current_day_index INTEGER NOT NULL DEFAULT 0,
		total_workouts_completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`

	ddlProgramDays = `
	CREATE TABLE IF NOT EXISTS program_days (
		id TEXT PRIMARY KEY,
		program_id TEXT NOT NULL,
		day_index INTEGER NOT NULL,
		name TEXT NOT NULL,
		FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE
	)`

	ddlProgramDayExercises = `
	CREATE TABLE IF NOT EXISTS program_day_exercises (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		exercise_name TEXT NOT NULL,
		sort_order INTEGER NOT NULL,
		rest_seconds INTEGER,
		notes TEXT,
		target_sets INTEGER,
		target_reps INTEGER,
		target_weight REAL,
		FOREIGN KEY (day_id) REFERENCES program_days(id) ON DELETE CASCADE
	)`

	ddlProgramHistory = `
	CREATE TABLE IF NOT EXISTS program_history (
		id TEXT PRIMARY KEY,
		program_id TEXT NOT NULL,
		day_id TEXT,
		session_id TEXT,
		performed_at INTEGER NOT NULL,
		duration_seconds INTEGER,
		FOREIGN KEY (program_id) REFERENCES programs(id) ON DELETE CASCADE,
		FOREIGN KEY (day_id) REFERENCES program_days(id) ON DELETE SET NULL,
		FOREIGN KEY (session_id) REFERENCES workout_sessions(id) ON DELETE SET NULL
	)`

	ddlProgramDayExerciseSets = `
	CREATE TABLE IF NOT EXISTS program_day_exercise_sets (
		id TEXT PRIMARY KEY,
		exercise_id TEXT NOT NULL,
		set_number INTEGER NOT NULL,
		target_reps INTEGER,
		target_weight REAL,
		FOREIGN KEY (exercise_id) REFERENCES program_day_exercises(id) ON DELETE CASCADE
	)`

	ddlSyncQueue = `
	CREATE TABLE IF NOT EXISTS sync_queue (
		id TEXT PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		synced INTEGER NOT NULL DEFAULT 0,
		retry_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		created_at INTEGER NOT NULL
	)`
)

var (
	indexesV1 = []string{
		`CREATE INDEX IF NOT EXISTS idx_exercise_templates_template ON exercise_templates(template_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_exercises_session ON exercises(session_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_sets_exercise ON workout_sets(exercise_id, set_number)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_sets_session ON workout_sets(session_id)`,
	}

	indexesV3 = []string{
		`CREATE INDEX IF NOT EXISTS idx_program_days_program ON program_days(program_id, day_index)`,
		`CREATE INDEX IF NOT EXISTS idx_program_day_exercises_day ON program_day_exercises(day_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_program_history_program ON program_history(program_id, performed_at DESC)`,
	}

	indexesV4 = []string{
		`CREATE INDEX IF NOT EXISTS idx_program_day_exercise_sets_exercise ON program_day_exercise_sets(exercise_id, set_number)`,
	}

	indexesV5 = []string{
		`CREATE INDEX IF NOT EXISTS idx_workout_sessions_start ON workout_sessions(start_time DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_workout_sessions_program ON workout_sessions(program_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pr_records_achieved ON pr_records(achieved_at)`,
		`CREATE INDEX IF NOT EXISTS idx_sync_queue_pending ON sync_queue(synced, created_at)`,
	}

	indexesV6 = []string{
		`CREATE INDEX IF NOT EXISTS idx_exercises_normalized_name ON exercises(normalized_name)`,
	}
)

// Tables lists every table in the current schema.
var Tables = []string{
	"workout_templates",
	"exercise_templates",
	"workout_sessions",
	"exercises",
	"workout_sets",
	"pr_records",
	"user_settings",
	"programs",
	"program_days",
	"program_day_exercises",
	"program_history",
	"program_day_exercise_sets",
	"sync_queue",
}
