// ABOUTME: Export and import of the full workout graph.
// ABOUTME: Supports JSON, YAML, and a Markdown training log; imports are atomic.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/lift/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportVersion identifies the export layout.
const ExportVersion = "1.0"

// ExportData is the full export format.
type ExportData struct {
	Version        string                    `json:"version" yaml:"version"`
	ExportedAt     time.Time                 `json:"exported_at" yaml:"exported_at"`
	Tool           string                    `json:"tool" yaml:"tool"`
	Settings       models.UserSettings       `json:"settings" yaml:"settings"`
	Templates      []*models.WorkoutTemplate `json:"templates" yaml:"templates"`
	Programs       []*models.Program         `json:"programs" yaml:"programs"`
	Sessions       []*models.WorkoutSession  `json:"sessions" yaml:"sessions"`
	ProgramHistory []*models.ProgramHistory  `json:"program_history" yaml:"program_history"`
	PRs            []*models.PRRecord        `json:"prs" yaml:"prs"`
}

// GetAllData reads every entity with its children.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	settings, err := d.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	templates, err := d.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for i, t := range templates {
		if templates[i], err = d.GetTemplateWithExercises(ctx, t.ID); err != nil {
			return nil, fmt.Errorf("export template %s: %w", t.ID, err)
		}
	}

	programs, err := d.ListPrograms(ctx)
	if err != nil {
		return nil, err
	}
	var history []*models.ProgramHistory
	for i, p := range programs {
		if programs[i], err = d.GetProgramWithDays(ctx, p.ID); err != nil {
			return nil, fmt.Errorf("export program %s: %w", p.ID, err)
		}
		h, err := d.ListProgramHistory(ctx, p.ID, 0)
		if err != nil {
			return nil, err
		}
		history = append(history, h...)
	}

	sessions, err := d.ListSessions(ctx, SessionQuery{})
	if err != nil {
		return nil, err
	}
	for i, s := range sessions {
		if sessions[i], err = d.GetSessionWithExercises(ctx, s.ID); err != nil {
			return nil, fmt.Errorf("export session %s: %w", s.ID, err)
		}
	}

	prs, err := d.ListPRs(ctx, "")
	if err != nil {
		return nil, err
	}

	return &ExportData{
		Version:        ExportVersion,
		ExportedAt:     time.Now(),
		Tool:           "lift",
		Settings:       settings,
		Templates:      templates,
		Programs:       programs,
		Sessions:       sessions,
		ProgramHistory: history,
		PRs:            prs,
	}, nil
}

// ImportData writes an export into the database in one transaction. Any
// conflict with existing rows aborts the whole import.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	for _, t := range data.Templates {
		if err := models.Validate(t); err != nil {
			return fmt.Errorf("import template %q: %w", t.Name, err)
		}
	}
	for _, p := range data.Programs {
		if err := models.Validate(p); err != nil {
			return fmt.Errorf("import program %q: %w", p.Name, err)
		}
	}
	for _, s := range data.Sessions {
		if err := models.Validate(s); err != nil {
			return fmt.Errorf("import session %q: %w", s.Name, err)
		}
	}
	if err := models.Validate(data.Settings); err != nil {
		return fmt.Errorf("import settings: %w", err)
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE user_settings
			SET weight_unit = ?, default_rest_time = ?, enable_haptics = ?, enable_sync_reminders = ?
			WHERE id = 1
		`, string(data.Settings.WeightUnit), data.Settings.DefaultRestTime, data.Settings.EnableHaptics, data.Settings.EnableSyncReminders)
		if err != nil {
			return fmt.Errorf("import settings: %w", err)
		}

		for _, t := range data.Templates {
			if err := insertTemplate(ctx, tx, t); err != nil {
				return err
			}
		}

		active := false
		for _, p := range data.Programs {
			if p.IsActive && active {
				p.IsActive = false
			}
			active = active || p.IsActive
			if p.IsActive {
				if _, err := tx.ExecContext(ctx, `UPDATE programs SET is_active = 0 WHERE is_active = 1`); err != nil {
					return fmt.Errorf("deactivate programs: %w", err)
				}
			}
			if len(p.Days) > 0 && p.CurrentDayIndex >= len(p.Days) {
				p.CurrentDayIndex = 0
			}
			if err := insertProgram(ctx, tx, p); err != nil {
				return err
			}
		}

		for _, s := range data.Sessions {
			if err := insertSession(ctx, tx, s); err != nil {
				return err
			}
			for i := range s.Exercises {
				e := &s.Exercises[i]
				e.SessionID = s.ID
				e.Order = i
				if err := insertExercise(ctx, tx, e); err != nil {
					return err
				}
			}
		}

		for _, h := range data.ProgramHistory {
			if err := insertProgramHistory(ctx, tx, h); err != nil {
				return err
			}
		}

		for _, pr := range data.PRs {
			pr.ExerciseName = models.NormalizeExerciseName(pr.ExerciseName)
			_, err := tx.ExecContext(ctx, `
				INSERT INTO pr_records (id, exercise_name, reps, weight, session_id, achieved_at, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (exercise_name, reps) DO UPDATE SET
					weight = excluded.weight,
					session_id = excluded.session_id,
					achieved_at = excluded.achieved_at
				WHERE excluded.weight > pr_records.weight
			`, pr.ID, pr.ExerciseName, pr.Reps, pr.Weight, pr.SessionID, toMillis(pr.AchievedAt), toMillis(pr.CreatedAt))
			if err != nil {
				return fmt.Errorf("import pr: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.log.Printf("[INFO] imported %d templates, %d programs, %d sessions, %d prs\n",
		len(data.Templates), len(data.Programs), len(data.Sessions), len(data.PRs))
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(data)
}

// ImportJSON imports data from JSON bytes.
func (d *DB) ImportJSON(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return d.ImportData(ctx, &data)
}

// ImportYAML imports data from YAML bytes.
func (d *DB) ImportYAML(ctx context.Context, raw []byte) error {
	var data ExportData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("unmarshal YAML: %w", err)
	}
	return d.ImportData(ctx, &data)
}

// ExportMarkdown renders completed sessions since the given time as a
// training log. A nil since exports everything.
func (d *DB) ExportMarkdown(ctx context.Context, since *time.Time) (string, error) {
	sessions, err := d.ListSessions(ctx, SessionQuery{Status: SessionsCompleted})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()
	fmt.Fprintf(&sb, "# Training Log - %s\n\n", now.Format("2006-01-02"))
	fmt.Fprintf(&sb, "Generated: %s\n\n", now.Format(time.RFC3339))

	// Sessions come back newest first; the log reads oldest first.
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		if since != nil && s.StartTime.Before(*since) {
			continue
		}
		full, err := d.GetSessionWithExercises(ctx, s.ID)
		if err != nil {
			return "", err
		}

		fmt.Fprintf(&sb, "## %s - %s\n\n", full.StartTime.Format("2006-01-02 15:04"), full.Name)
		if full.Duration != nil {
			fmt.Fprintf(&sb, "Duration: %d min\n\n", *full.Duration/60)
		}
		if len(full.Exercises) == 0 {
			continue
		}
		sb.WriteString("| Exercise | Set | Reps | Weight |\n")
		sb.WriteString("|----------|-----|------|--------|\n")
		for _, e := range full.Exercises {
			for _, set := range e.Sets {
				if !set.Completed {
					continue
				}
				fmt.Fprintf(&sb, "| %s | %d | %d | %g |\n", e.Name, set.SetNumber, set.Reps, set.Weight)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
