// Package repo provides the tasks repository implementation
package repo

import (
	"context"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/metrics"
	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	"github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
)

// Repo is the tasks persistence surface used by the service layer
type Repo interface {
	Insert(ctx context.Context, t domain.Task) (domain.Task, error)
	SetCompleted(ctx context.Context, childID, taskID string, completed bool, at *time.Time) (domain.Task, error)
	SetTitle(ctx context.Context, childID, taskID, title, titleNorm string) (domain.Task, error)
	Delete(ctx context.Context, childID, taskID string) (domain.Task, error)
	ListRange(ctx context.Context, childID, fromDay, toDay string) ([]domain.Task, error)
	SummaryRange(ctx context.Context, childID, fromDay, toDay string) ([]metrics.DaySummary, error)

	// AppendEvent records a task mutation for the evaluation worker.
	// Call it inside the same transaction as the mutation so an event
	// exists iff the mutation committed
	AppendEvent(ctx context.Context, childID, kind string) error
}

type (
	// PG is a Postgres implementation of the tasks repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const taskCols = `id, child_id, date, title, title_norm, completed, completed_at, created_at`

func scanTask(row interface{ Scan(...any) error }) (domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.ChildID, &t.Date, &t.Title, &t.TitleNorm,
		&t.Completed, &t.CompletedAt, &t.CreatedAt)
	return t, err
}

// Insert creates a task row. A duplicate (child, date, normalized title)
// surfaces as a duplicate key error
func (r *queries) Insert(ctx context.Context, t domain.Task) (domain.Task, error) {
	const sql = `
		INSERT INTO tasks (id, child_id, date, title, title_norm, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
		RETURNING ` + taskCols
	row := r.q.QueryRow(ctx, sql, t.ID, t.ChildID, t.Date, t.Title, t.TitleNorm, t.CreatedAt)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, perr.FromPostgresf(err, "insert task for %s on %s", t.ChildID, t.Date)
	}
	return out, nil
}

// SetCompleted flips a task's completion state. at must be non-nil when
// completing and nil when uncompleting
func (r *queries) SetCompleted(
	ctx context.Context,
	childID, taskID string,
	completed bool,
	at *time.Time,
) (domain.Task, error) {
	const sql = `
		UPDATE tasks
		SET completed = $3, completed_at = $4
		WHERE id = $1 AND child_id = $2
		RETURNING ` + taskCols
	row := r.q.QueryRow(ctx, sql, taskID, childID, completed, at)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, perr.FromPostgresf(err, "set task %s completed=%t", taskID, completed)
	}
	return out, nil
}

// SetTitle renames a task. A clash with another task's normalized title
// on the same day surfaces as a duplicate key error
func (r *queries) SetTitle(ctx context.Context, childID, taskID, title, titleNorm string) (domain.Task, error) {
	const sql = `
		UPDATE tasks
		SET title = $3, title_norm = $4
		WHERE id = $1 AND child_id = $2
		RETURNING ` + taskCols
	row := r.q.QueryRow(ctx, sql, taskID, childID, title, titleNorm)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, perr.FromPostgresf(err, "rename task %s", taskID)
	}
	return out, nil
}

// Delete removes a task and returns its final state
func (r *queries) Delete(ctx context.Context, childID, taskID string) (domain.Task, error) {
	const sql = `
		DELETE FROM tasks
		WHERE id = $1 AND child_id = $2
		RETURNING ` + taskCols
	row := r.q.QueryRow(ctx, sql, taskID, childID)
	out, err := scanTask(row)
	if err != nil {
		return domain.Task{}, perr.FromPostgresf(err, "delete task %s", taskID)
	}
	return out, nil
}

// ListRange returns a child's tasks for an inclusive day range
func (r *queries) ListRange(ctx context.Context, childID, fromDay, toDay string) ([]domain.Task, error) {
	const sql = `
		SELECT ` + taskCols + `
		FROM tasks
		WHERE child_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date, created_at, id`
	rows, err := r.q.Query(ctx, sql, childID, fromDay, toDay)
	if err != nil {
		return nil, perr.FromPostgresf(err, "list tasks for %s", childID)
	}
	defer rows.Close()

	var out []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan task")
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SummaryRange groups a child's tasks into one row per day with tasks.
// Days with no rows are simply absent; the metrics builder treats
// absence and total=0 identically
func (r *queries) SummaryRange(
	ctx context.Context,
	childID, fromDay, toDay string,
) ([]metrics.DaySummary, error) {
	const sql = `
		SELECT date,
		       COUNT(*)::int                             AS total,
		       COUNT(*) FILTER (WHERE completed)::int    AS completed
		FROM tasks
		WHERE child_id = $1 AND date >= $2 AND date <= $3
		GROUP BY date
		ORDER BY date`
	rows, err := r.q.Query(ctx, sql, childID, fromDay, toDay)
	if err != nil {
		return nil, perr.FromPostgresf(err, "summarize tasks for %s", childID)
	}
	defer rows.Close()

	var out []metrics.DaySummary
	for rows.Next() {
		var s metrics.DaySummary
		if err := rows.Scan(&s.Date, &s.Total, &s.Completed); err != nil {
			return nil, perr.FromPostgres(err, "scan day summary")
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// AppendEvent inserts one task event row
func (r *queries) AppendEvent(ctx context.Context, childID, kind string) error {
	const sql = `
		INSERT INTO task_events (child_id, kind, created_at)
		VALUES ($1, $2, NOW())`
	if _, err := r.q.Exec(ctx, sql, childID, kind); err != nil {
		return perr.FromPostgresf(err, "append %s event for %s", kind, childID)
	}
	return nil
}
