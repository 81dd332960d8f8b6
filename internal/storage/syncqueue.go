// ABOUTME: Sync queue staging: local changes recorded for a future consumer.
// ABOUTME: Entries are appended, listed in creation order, and marked synced.
package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
)

// EnqueueSync stages a change.
func (d *DB) EnqueueSync(ctx context.Context, e *models.SyncQueueEntry) error {
	return enqueueSync(ctx, d.db, e)
}

func enqueueSync(ctx context.Context, q querier, e *models.SyncQueueEntry) error {
	ensureID(&e.ID)
	if e.EntityType == "" || e.EntityID == "" {
		return apperrors.Invalid("entity", "type and id are required")
	}
	switch e.Operation {
	case models.SyncCreate, models.SyncUpdate, models.SyncDelete:
	default:
		return apperrors.Invalid("operation", "unknown operation %q", e.Operation)
	}
	if e.Payload == "" {
		e.Payload = "{}"
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO sync_queue (id, entity_type, entity_id, operation, payload, synced, retry_count, last_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.EntityType, e.EntityID, string(e.Operation), e.Payload, e.Synced, e.RetryCount, e.LastError, toMillis(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("enqueue sync: %w", err)
	}
	return nil
}

// ListPendingSync returns unsynced entries, oldest first.
func (d *DB) ListPendingSync(ctx context.Context, limit int) ([]*models.SyncQueueEntry, error) {
	query := `
		SELECT id, entity_type, entity_id, operation, payload, synced, retry_count, last_error, created_at
		FROM sync_queue
		WHERE synced = 0
		ORDER BY created_at ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}
	defer rows.Close()

	var entries []*models.SyncQueueEntry
	for rows.Next() {
		var e models.SyncQueueEntry
		var op string
		var createdAt int64
		err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &op, &e.Payload, &e.Synced, &e.RetryCount, &e.LastError, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scan sync entry: %w", err)
		}
		e.Operation = models.SyncOperation(op)
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// MarkSynced flags an entry as delivered.
func (d *DB) MarkSynced(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE sync_queue SET synced = 1, last_error = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("sync entry", id)
	}
	return nil
}

// RecordSyncFailure bumps the retry count and stores the failure message.
func (d *DB) RecordSyncFailure(ctx context.Context, id, message string) error {
	res, err := d.db.ExecContext(ctx, `UPDATE sync_queue SET retry_count = retry_count + 1, last_error = ? WHERE id = ?`, message, id)
	if err != nil {
		return fmt.Errorf("record sync failure: %w", err)
	}
	if rowsAffected(res) == 0 {
		return apperrors.NotFound("sync entry", id)
	}
	return nil
}
