// ABOUTME: Tests for session filters and WHERE clause composition.
// ABOUTME: Empty filters must contribute neither SQL nor parameters.
package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/harperreed/lift/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyFilterAddsNothing(t *testing.T) {
	for _, f := range []*Filter{nil, {Kind: All}} {
		w := &where{}
		require.NoError(t, w.filter(f, "s"))
		assert.Equal(t, "", w.String())
		assert.Empty(t, w.args)
	}
}

func TestFilterPredicates(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   string
		args   []any
	}{
		{"program", ForProgram("p1"), " WHERE s.program_id = ?", []any{"p1"}},
		{"any program", &Filter{Kind: AnyProgram}, " WHERE s.program_id IS NOT NULL", nil},
		{"template", &Filter{Kind: Template}, " WHERE s.template_id IS NOT NULL AND s.program_id IS NULL", nil},
		{"free", &Filter{Kind: Free}, " WHERE s.template_id IS NULL AND s.program_id IS NULL", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &where{}
			require.NoError(t, w.filter(tt.filter, "s"))
			assert.Equal(t, tt.want, w.String())
			assert.Equal(t, tt.args, w.args)
		})
	}
}

func TestProgramFilterRequiresID(t *testing.T) {
	w := &where{}
	err := w.filter(&Filter{Kind: Program}, "s")
	assert.True(t, apperrors.IsValidation(err))
}

func TestRangeWithEmptyFilterHasOnlyRangeParams(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	w, err := completedInRange(start, end, nil)
	require.NoError(t, err)
	assert.Len(t, w.args, 2)
	assert.Equal(t, " WHERE s.end_time IS NOT NULL AND s.start_time BETWEEN ? AND ?", w.String())

	query, args, err := prQuery("SELECT COUNT(*)", start, end, &Filter{Kind: All})
	require.NoError(t, err)
	assert.Len(t, args, 2)
	assert.False(t, strings.Contains(query, "JOIN"), "empty filter should not join sessions: %s", query)
}

func TestParseFilterKind(t *testing.T) {
	k, err := ParseFilterKind("Free")
	require.NoError(t, err)
	assert.Equal(t, Free, k)

	k, err = ParseFilterKind("")
	require.NoError(t, err)
	assert.Equal(t, All, k)

	_, err = ParseFilterKind("weekly")
	assert.True(t, apperrors.IsValidation(err))
}
