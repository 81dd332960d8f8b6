// ABOUTME: Repository interface for workout data storage.
// ABOUTME: Callers outside storage depend on this rather than on *DB.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// Repository is the full data-layer contract implemented by *DB.
type Repository interface {
	// Templates
	CreateTemplate(ctx context.Context, t *models.WorkoutTemplate) error
	GetTemplate(ctx context.Context, id string) (*models.WorkoutTemplate, error)
	GetTemplateWithExercises(ctx context.Context, id string) (*models.WorkoutTemplate, error)
	ListTemplates(ctx context.Context) ([]*models.WorkoutTemplate, error)
	UpdateTemplate(ctx context.Context, id string, u TemplateUpdate) error
	MarkTemplateUsed(ctx context.Context, id string, at time.Time) error
	DeleteTemplate(ctx context.Context, id string) error
	AddTemplateExercise(ctx context.Context, templateID string, e *models.ExerciseTemplate) error
	UpdateTemplateExercise(ctx context.Context, id string, u ExerciseTemplateUpdate) error
	RemoveTemplateExercise(ctx context.Context, id string) error
	ReorderTemplateExercises(ctx context.Context, templateID string, ids []string) error

	// Sessions
	CreateSession(ctx context.Context, s *models.WorkoutSession) error
	CreateSessionWithExercises(ctx context.Context, s *models.WorkoutSession) error
	GetSession(ctx context.Context, id string) (*models.WorkoutSession, error)
	GetSessionWithExercises(ctx context.Context, id string) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context) (*models.WorkoutSession, error)
	ListSessions(ctx context.Context, q SessionQuery) ([]*models.WorkoutSession, error)
	UpdateSession(ctx context.Context, id string, u SessionUpdate) error
	CompleteSession(ctx context.Context, id string, endTime time.Time) (*models.WorkoutSession, error)
	DeleteSession(ctx context.Context, id string) error
	AddExercise(ctx context.Context, sessionID string, e *models.Exercise) error
	UpdateExercise(ctx context.Context, id string, u ExerciseUpdate) error
	RemoveExercise(ctx context.Context, id string) error
	ReorderExercises(ctx context.Context, sessionID string, ids []string) error
	AddSet(ctx context.Context, exerciseID string, set *models.WorkoutSet) error
	UpdateSet(ctx context.Context, id string, u SetUpdate) error
	RemoveSet(ctx context.Context, id string) error

	// Programs
	CreateProgram(ctx context.Context, p *models.Program) error
	GetProgram(ctx context.Context, id string) (*models.Program, error)
	GetProgramWithDays(ctx context.Context, id string) (*models.Program, error)
	GetProgramDay(ctx context.Context, id string) (*models.ProgramDay, error)
	ListPrograms(ctx context.Context) ([]*models.Program, error)
	GetActiveProgram(ctx context.Context) (*models.Program, error)
	UpdateProgram(ctx context.Context, id string, u ProgramUpdate) error
	ActivateProgram(ctx context.Context, id string) error
	DeactivateProgram(ctx context.Context, id string) error
	SetCurrentDay(ctx context.Context, programID string, index int) error
	DeleteProgram(ctx context.Context, id string) error
	AddProgramDay(ctx context.Context, programID string, day *models.ProgramDay) error
	RenameProgramDay(ctx context.Context, id, name string) error
	RemoveProgramDay(ctx context.Context, id string) error
	ReorderProgramDays(ctx context.Context, programID string, ids []string) error
	AddProgramDayExercise(ctx context.Context, dayID string, e *models.ProgramDayExercise) error
	UpdateProgramDayExercise(ctx context.Context, id string, u ProgramExerciseUpdate) error
	RemoveProgramDayExercise(ctx context.Context, id string) error
	ReorderProgramDayExercises(ctx context.Context, dayID string, ids []string) error
	AddProgramExerciseSet(ctx context.Context, exerciseID string, set *models.ProgramDayExerciseSet) error
	RemoveProgramExerciseSet(ctx context.Context, id string) error
	ListProgramHistory(ctx context.Context, programID string, limit int) ([]*models.ProgramHistory, error)

	// Personal records
	GetBestPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error)
	SavePR(ctx context.Context, pr *models.PRRecord) error
	ListPRs(ctx context.Context, exerciseName string) ([]*models.PRRecord, error)
	ListRecentPRs(ctx context.Context, limit int) ([]*models.PRRecord, error)
	DeletePR(ctx context.Context, id string) error

	// Settings and sync staging
	GetSettings(ctx context.Context) (models.UserSettings, error)
	UpdateSettings(ctx context.Context, u SettingsUpdate) (models.UserSettings, error)
	EnqueueSync(ctx context.Context, e *models.SyncQueueEntry) error
	ListPendingSync(ctx context.Context, limit int) ([]*models.SyncQueueEntry, error)
	MarkSynced(ctx context.Context, id string) error
	RecordSyncFailure(ctx context.Context, id, message string) error

	// Transactions
	WithinTx(ctx context.Context, fn func(TxRepository) error) error

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lookup and lifecycle
	ResolveID(ctx context.Context, entity, idOrPrefix string) (string, error)
	Close() error
}

var _ Repository = (*DB)(nil)
