// ABOUTME: Session filters for analytics queries and the WHERE clause builder.
// ABOUTME: An empty filter contributes no SQL and no parameters.
package analytics

import (
	"strings"

	"github.com/harperreed/lift/internal/apperrors"
)

// FilterKind selects which sessions an analytics query covers.
type FilterKind int

const (
	// All covers every session.
	All FilterKind = iota
	// Program covers sessions of one program.
	Program
	// AnyProgram covers sessions started from any program day.
	AnyProgram
	// Template covers sessions started from a template outside any program.
	Template
	// Free covers sessions with neither a template nor a program.
	Free
)

// Filter restricts analytics to a subset of sessions. A nil *Filter is the
// same as All.
type Filter struct {
	Kind      FilterKind
	ProgramID string
}

// ForProgram returns a filter for one program's sessions.
func ForProgram(id string) *Filter {
	return &Filter{Kind: Program, ProgramID: id}
}

// ParseFilterKind maps a user-facing name to a FilterKind.
func ParseFilterKind(s string) (FilterKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return All, nil
	case "program":
		return Program, nil
	case "any-program", "programs":
		return AnyProgram, nil
	case "template", "templates":
		return Template, nil
	case "free":
		return Free, nil
	default:
		return All, apperrors.Invalid("filter", "unknown filter %q", s)
	}
}

// predicate returns the condition on session alias s, or "" when the filter
// does not restrict anything.
func (f *Filter) predicate(s string) (string, []any, error) {
	if f == nil {
		return "", nil, nil
	}
	switch f.Kind {
	case All:
		return "", nil, nil
	case Program:
		if f.ProgramID == "" {
			return "", nil, apperrors.Invalid("program_id", "is required for a program filter")
		}
		return s + ".program_id = ?", []any{f.ProgramID}, nil
	case AnyProgram:
		return s + ".program_id IS NOT NULL", nil, nil
	case Template:
		return s + ".template_id IS NOT NULL AND " + s + ".program_id IS NULL", nil, nil
	case Free:
		return s + ".template_id IS NULL AND " + s + ".program_id IS NULL", nil, nil
	default:
		return "", nil, apperrors.Invalid("filter", "unknown filter kind %d", f.Kind)
	}
}

// isEmpty reports whether the filter leaves sessions unrestricted.
func (f *Filter) isEmpty() bool {
	return f == nil || f.Kind == All
}

// where accumulates AND-ed conditions with their parameters.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

// filter adds the filter's predicate on session alias s, if it has one.
func (w *where) filter(f *Filter, s string) error {
	cond, args, err := f.predicate(s)
	if err != nil || cond == "" {
		return err
	}
	w.add(cond, args...)
	return nil
}

// String renders " WHERE a AND b", or "" with no conditions.
func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
