// ABOUTME: Transaction-scoped repository used when several writes must land
// ABOUTME: together, such as finishing a session with its PRs and sync entry.
package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// TxRepository is the subset of repository operations available inside
// WithinTx. Every call runs on the same transaction.
type TxRepository interface {
	CompleteSession(ctx context.Context, id string, endTime time.Time) (*models.WorkoutSession, error)
	GetSessionWithExercises(ctx context.Context, id string) (*models.WorkoutSession, error)
	GetBestPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error)
	SavePR(ctx context.Context, pr *models.PRRecord) error
	EnqueueSync(ctx context.Context, e *models.SyncQueueEntry) error
}

type txRepo struct {
	tx *sql.Tx
}

// WithinTx runs fn in one transaction. Nothing fn wrote is kept unless it
// returns nil.
func (d *DB) WithinTx(ctx context.Context, fn func(TxRepository) error) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		return fn(&txRepo{tx: tx})
	})
}

func (r *txRepo) CompleteSession(ctx context.Context, id string, endTime time.Time) (*models.WorkoutSession, error) {
	return completeSession(ctx, r.tx, id, endTime)
}

func (r *txRepo) GetSessionWithExercises(ctx context.Context, id string) (*models.WorkoutSession, error) {
	return getSessionWithExercises(ctx, r.tx, id)
}

func (r *txRepo) GetBestPR(ctx context.Context, exerciseName string, reps int) (*models.PRRecord, error) {
	return getBestPR(ctx, r.tx, exerciseName, reps)
}

func (r *txRepo) SavePR(ctx context.Context, pr *models.PRRecord) error {
	return savePR(ctx, r.tx, pr)
}

func (r *txRepo) EnqueueSync(ctx context.Context, e *models.SyncQueueEntry) error {
	return enqueueSync(ctx, r.tx, e)
}

var _ TxRepository = (*txRepo)(nil)
