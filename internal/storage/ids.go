// ABOUTME: Resolution of full entity IDs from short prefixes.
// ABOUTME: Lets CLI and MCP callers refer to rows by their first characters.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperreed/lift/internal/apperrors"
)

var resolvableTables = map[string]string{
	"template":          "workout_templates",
	"template exercise": "exercise_templates",
	"session":           "workout_sessions",
	"exercise":          "exercises",
	"set":               "workout_sets",
	"program":           "programs",
	"program day":       "program_days",
	"program exercise":  "program_day_exercises",
	"pr":                "pr_records",
}

// ResolveID finds the full ID of an entity from an ID or unique prefix.
func (d *DB) ResolveID(ctx context.Context, entity, idOrPrefix string) (string, error) {
	table, ok := resolvableTables[entity]
	if !ok {
		return "", fmt.Errorf("resolve ID: unknown entity %q", entity)
	}
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}
	if idOrPrefix == "" {
		return "", apperrors.NotFound(entity, idOrPrefix)
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE id LIKE ? || '%%' LIMIT 2`, table)
	rows, err := d.db.QueryContext(ctx, query, idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve %s ID: %w", entity, err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan %s ID: %w", entity, err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(matches) == 0 {
		return "", apperrors.NotFound(entity, idOrPrefix)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple %s records", idOrPrefix, entity)
	}
	return matches[0], nil
}
