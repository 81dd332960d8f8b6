// ABOUTME: UserSettings singleton and SyncQueueEntry staging model.
// ABOUTME: Settings are a single row; sync entries have no consumer yet.
package models

import (
	"time"

	"github.com/google/uuid"
)

// WeightUnit is the unit weights are displayed in.
type WeightUnit string

const (
	UnitPounds    WeightUnit = "lbs"
	UnitKilograms WeightUnit = "kg"
)

// IsValidWeightUnit checks if a string is a known weight unit.
func IsValidWeightUnit(s string) bool {
	return s == string(UnitPounds) || s == string(UnitKilograms)
}

// UserSettings holds app-wide preferences.
type UserSettings struct {
	WeightUnit          WeightUnit `json:"weight_unit" yaml:"weight_unit" validate:"oneof=lbs kg"`
	DefaultRestTime     int        `json:"default_rest_time" yaml:"default_rest_time" validate:"gte=0,lte=3600"` // seconds
	EnableHaptics       bool       `json:"enable_haptics" yaml:"enable_haptics"`
	EnableSyncReminders bool       `json:"enable_sync_reminders" yaml:"enable_sync_reminders"`
}

// DefaultSettings returns the settings used before the user changes any.
func DefaultSettings() UserSettings {
	return UserSettings{
		WeightUnit:          UnitPounds,
		DefaultRestTime:     90,
		EnableHaptics:       true,
		EnableSyncReminders: true,
	}
}

// SyncOperation is the kind of change staged for sync.
type SyncOperation string

const (
	SyncCreate SyncOperation = "create"
	SyncUpdate SyncOperation = "update"
	SyncDelete SyncOperation = "delete"
)

// SyncQueueEntry is a staged change awaiting a sync consumer.
type SyncQueueEntry struct {
	ID         string        `json:"id"`
	EntityType string        `json:"entity_type"`
	EntityID   string        `json:"entity_id"`
	Operation  SyncOperation `json:"operation"`
	Payload    string        `json:"payload"`
	Synced     bool          `json:"synced"`
	RetryCount int           `json:"retry_count"`
	LastError  *string       `json:"last_error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewSyncQueueEntry creates an unsynced entry.
func NewSyncQueueEntry(entityType, entityID string, op SyncOperation, payload string) *SyncQueueEntry {
	return &SyncQueueEntry{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Payload:    payload,
		CreatedAt:  time.Now(),
	}
}
