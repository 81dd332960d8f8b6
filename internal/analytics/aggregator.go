// ABOUTME: Read-only workout analytics: totals, averages, and time series.
// ABOUTME: Empty results normalize to zero; every series is returned oldest first.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/lift/internal/models"
)

// Querier is the read side of *sql.DB.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DataPoint is one value of a daily series.
type DataPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// PRPoint is one personal record on the timeline.
type PRPoint struct {
	AchievedAt   time.Time `json:"achieved_at"`
	ExerciseName string    `json:"exercise_name"`
	Reps         int       `json:"reps"`
	Weight       float64   `json:"weight"`
}

// ProgressionPoint summarizes one exercise within one session.
type ProgressionPoint struct {
	Date      time.Time `json:"date"`
	SessionID string    `json:"session_id"`
	MaxWeight float64   `json:"max_weight"`
	TotalReps int       `json:"total_reps"`
	Volume    float64   `json:"volume"`
}

// ExerciseStat totals one exercise over a range.
type ExerciseStat struct {
	Name     string  `json:"name"`
	Sessions int     `json:"sessions"`
	Sets     int     `json:"sets"`
	Volume   float64 `json:"volume"`
}

// Summary collects the headline aggregates for a range.
type Summary struct {
	Start           time.Time      `json:"start"`
	End             time.Time      `json:"end"`
	Workouts        int            `json:"workouts"`
	Sets            int            `json:"sets"`
	Volume          float64        `json:"volume"`
	AverageDuration float64        `json:"average_duration_seconds"`
	PRs             int            `json:"prs"`
	TopExercises    []ExerciseStat `json:"top_exercises"`
}

// Aggregator answers analytics queries.
type Aggregator struct {
	db Querier
}

// New creates an aggregator over db.
func New(db Querier) *Aggregator {
	return &Aggregator{db: db}
}

// completedInRange selects completed sessions (alias s) that started within
// [start, end], restricted by f.
func completedInRange(start, end time.Time, f *Filter) (*where, error) {
	w := &where{}
	w.add("s.end_time IS NOT NULL")
	w.add("s.start_time BETWEEN ? AND ?", start.UnixMilli(), end.UnixMilli())
	if err := w.filter(f, "s"); err != nil {
		return nil, err
	}
	return w, nil
}

// TotalWorkoutCount counts completed sessions.
func (a *Aggregator) TotalWorkoutCount(ctx context.Context, start, end time.Time, f *Filter) (int, error) {
	w, err := completedInRange(start, end, f)
	if err != nil {
		return 0, err
	}
	var n int
	err = a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_sessions s`+w.String(), w.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count workouts: %w", err)
	}
	return n, nil
}

// TotalVolume sums reps x weight over completed sets of completed sessions.
func (a *Aggregator) TotalVolume(ctx context.Context, start, end time.Time, f *Filter) (float64, error) {
	w, err := completedInRange(start, end, f)
	if err != nil {
		return 0, err
	}
	var v float64
	err = a.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ws.reps * ws.weight), 0)
		FROM workout_sessions s
		JOIN workout_sets ws ON ws.session_id = s.id AND ws.completed = 1`+w.String(), w.args...).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("total volume: %w", err)
	}
	return v, nil
}

// TotalSets counts completed sets of completed sessions.
func (a *Aggregator) TotalSets(ctx context.Context, start, end time.Time, f *Filter) (int, error) {
	w, err := completedInRange(start, end, f)
	if err != nil {
		return 0, err
	}
	var n int
	err = a.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM workout_sessions s
		JOIN workout_sets ws ON ws.session_id = s.id AND ws.completed = 1`+w.String(), w.args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("total sets: %w", err)
	}
	return n, nil
}

// AverageWorkoutDuration is the mean duration of completed sessions, in
// seconds.
func (a *Aggregator) AverageWorkoutDuration(ctx context.Context, start, end time.Time, f *Filter) (float64, error) {
	w, err := completedInRange(start, end, f)
	if err != nil {
		return 0, err
	}
	var avg float64
	err = a.db.QueryRowContext(ctx, `SELECT COALESCE(AVG(s.duration), 0) FROM workout_sessions s`+w.String(), w.args...).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("average duration: %w", err)
	}
	return avg, nil
}

// PRCount counts records achieved within [start, end]. A non-empty filter
// only counts records tied to a matching session.
func (a *Aggregator) PRCount(ctx context.Context, start, end time.Time, f *Filter) (int, error) {
	query, args, err := prQuery(`SELECT COUNT(*)`, start, end, f)
	if err != nil {
		return 0, err
	}
	var n int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count prs: %w", err)
	}
	return n, nil
}

// PRTimeline lists records achieved within [start, end], oldest first.
func (a *Aggregator) PRTimeline(ctx context.Context, start, end time.Time, f *Filter) ([]PRPoint, error) {
	query, args, err := prQuery(`SELECT pr.achieved_at, pr.exercise_name, pr.reps, pr.weight`, start, end, f)
	if err != nil {
		return nil, err
	}
	rows, err := a.db.QueryContext(ctx, query+` ORDER BY pr.achieved_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("pr timeline: %w", err)
	}
	defer rows.Close()

	points := []PRPoint{}
	for rows.Next() {
		var p PRPoint
		var at int64
		if err := rows.Scan(&at, &p.ExerciseName, &p.Reps, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan pr point: %w", err)
		}
		p.AchievedAt = time.UnixMilli(at)
		points = append(points, p)
	}
	return points, rows.Err()
}

func prQuery(selectClause string, start, end time.Time, f *Filter) (string, []any, error) {
	from := ` FROM pr_records pr`
	w := &where{}
	w.add("pr.achieved_at BETWEEN ? AND ?", start.UnixMilli(), end.UnixMilli())
	if !f.isEmpty() {
		from += ` JOIN workout_sessions s ON s.id = pr.session_id`
		if err := w.filter(f, "s"); err != nil {
			return "", nil, err
		}
	}
	return selectClause + from + w.String(), w.args, nil
}

// VolumeOverTime returns total volume per UTC day, oldest first. Days with
// no completed sets are omitted.
func (a *Aggregator) VolumeOverTime(ctx context.Context, start, end time.Time, f *Filter) ([]DataPoint, error) {
	w, err := completedInRange(start, end, f)
	if err != nil {
		return nil, err
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m-%d', s.start_time / 1000, 'unixepoch') AS day,
		       COALESCE(SUM(ws.reps * ws.weight), 0)
		FROM workout_sessions s
		JOIN workout_sets ws ON ws.session_id = s.id AND ws.completed = 1`+w.String()+`
		GROUP BY day
		ORDER BY day ASC`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("volume over time: %w", err)
	}
	defer rows.Close()

	points := []DataPoint{}
	for rows.Next() {
		var day string
		var p DataPoint
		if err := rows.Scan(&day, &p.Value); err != nil {
			return nil, fmt.Errorf("scan volume point: %w", err)
		}
		if p.Date, err = time.Parse(time.DateOnly, day); err != nil {
			return nil, fmt.Errorf("parse day %q: %w", day, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// ExerciseProgression returns the exercise's best weight and volume for each
// of its limit most recent completed sessions, oldest first. The name match
// ignores case and surrounding whitespace.
func (a *Aggregator) ExerciseProgression(ctx context.Context, exerciseName string, limit int, f *Filter) ([]ProgressionPoint, error) {
	if limit <= 0 {
		limit = 10
	}
	w := &where{}
	w.add("s.end_time IS NOT NULL")
	w.add("e.normalized_name = ?", models.NormalizeExerciseName(exerciseName))
	if err := w.filter(f, "s"); err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT s.id, s.start_time,
		       COALESCE(MAX(ws.weight), 0),
		       COALESCE(SUM(ws.reps), 0),
		       COALESCE(SUM(ws.reps * ws.weight), 0)
		FROM workout_sessions s
		JOIN exercises e ON e.session_id = s.id
		JOIN workout_sets ws ON ws.exercise_id = e.id AND ws.completed = 1`+w.String()+`
		GROUP BY s.id, s.start_time
		ORDER BY s.start_time DESC
		LIMIT ?`, append(w.args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("exercise progression: %w", err)
	}
	defer rows.Close()

	points := []ProgressionPoint{}
	for rows.Next() {
		var p ProgressionPoint
		var at int64
		if err := rows.Scan(&p.SessionID, &at, &p.MaxWeight, &p.TotalReps, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan progression point: %w", err)
		}
		p.Date = time.UnixMilli(at)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest first from the query; callers get oldest first.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// TopExercises ranks exercises by volume over completed sessions.
func (a *Aggregator) TopExercises(ctx context.Context, start, end time.Time, limit int, f *Filter) ([]ExerciseStat, error) {
	if limit <= 0 {
		limit = 5
	}
	w, err := completedInRange(start, end, f)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT e.normalized_name AS name,
		       COUNT(DISTINCT s.id),
		       COUNT(ws.id),
		       COALESCE(SUM(ws.reps * ws.weight), 0) AS volume
		FROM workout_sessions s
		JOIN exercises e ON e.session_id = s.id
		JOIN workout_sets ws ON ws.exercise_id = e.id AND ws.completed = 1`+w.String()+`
		GROUP BY name
		ORDER BY volume DESC, name ASC
		LIMIT ?`, append(w.args, limit)...)
	if err != nil {
		return nil, fmt.Errorf("top exercises: %w", err)
	}
	defer rows.Close()

	stats := []ExerciseStat{}
	for rows.Next() {
		var s ExerciseStat
		if err := rows.Scan(&s.Name, &s.Sessions, &s.Sets, &s.Volume); err != nil {
			return nil, fmt.Errorf("scan exercise stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// Summarize gathers the headline aggregates for [start, end].
func (a *Aggregator) Summarize(ctx context.Context, start, end time.Time, f *Filter) (*Summary, error) {
	s := &Summary{Start: start, End: end}
	var err error
	if s.Workouts, err = a.TotalWorkoutCount(ctx, start, end, f); err != nil {
		return nil, err
	}
	if s.Sets, err = a.TotalSets(ctx, start, end, f); err != nil {
		return nil, err
	}
	if s.Volume, err = a.TotalVolume(ctx, start, end, f); err != nil {
		return nil, err
	}
	if s.AverageDuration, err = a.AverageWorkoutDuration(ctx, start, end, f); err != nil {
		return nil, err
	}
	if s.PRs, err = a.PRCount(ctx, start, end, f); err != nil {
		return nil, err
	}
	if s.TopExercises, err = a.TopExercises(ctx, start, end, 5, f); err != nil {
		return nil, err
	}
	return s, nil
}
