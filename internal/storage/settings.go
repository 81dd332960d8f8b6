// ABOUTME: UserSettings singleton row access.
// ABOUTME: The row is created by migration with defaults and only ever updated.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/harperreed/lift/internal/models"
)

// SettingsUpdate lists settings to change. Nil fields are kept.
type SettingsUpdate struct {
	WeightUnit          *models.WeightUnit
	DefaultRestTime     *int
	EnableHaptics       *bool
	EnableSyncReminders *bool
}

// GetSettings returns the user's settings, or the defaults when the row is
// missing.
func (d *DB) GetSettings(ctx context.Context) (models.UserSettings, error) {
	return getSettings(ctx, d.db)
}

// UpdateSettings applies a partial update and returns the stored settings.
func (d *DB) UpdateSettings(ctx context.Context, u SettingsUpdate) (models.UserSettings, error) {
	var updated models.UserSettings
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		s, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}
		if u.WeightUnit != nil {
			s.WeightUnit = *u.WeightUnit
		}
		if u.DefaultRestTime != nil {
			s.DefaultRestTime = *u.DefaultRestTime
		}
		if u.EnableHaptics != nil {
			s.EnableHaptics = *u.EnableHaptics
		}
		if u.EnableSyncReminders != nil {
			s.EnableSyncReminders = *u.EnableSyncReminders
		}
		if err := models.Validate(s); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_settings (id, weight_unit, default_rest_time, enable_haptics, enable_sync_reminders)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				weight_unit = excluded.weight_unit,
				default_rest_time = excluded.default_rest_time,
				enable_haptics = excluded.enable_haptics,
				enable_sync_reminders = excluded.enable_sync_reminders
		`, string(s.WeightUnit), s.DefaultRestTime, s.EnableHaptics, s.EnableSyncReminders)
		if err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		updated = s
		return nil
	})
	return updated, err
}

func getSettings(ctx context.Context, q querier) (models.UserSettings, error) {
	var s models.UserSettings
	var unit string
	err := q.QueryRowContext(ctx, `
		SELECT weight_unit, default_rest_time, enable_haptics, enable_sync_reminders
		FROM user_settings WHERE id = 1
	`).Scan(&unit, &s.DefaultRestTime, &s.EnableHaptics, &s.EnableSyncReminders)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return s, fmt.Errorf("get settings: %w", err)
	}
	if !models.IsValidWeightUnit(unit) {
		return s, apperrors.Invalid("weight_unit", "stored value %q is not lbs or kg", unit)
	}
	s.WeightUnit = models.WeightUnit(unit)
	return s, nil
}
