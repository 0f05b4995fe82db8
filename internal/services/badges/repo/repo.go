// Package repo provides the badges repository implementation
package repo

import (
	"context"
	"time"

	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	"github.com/em3s/mungchi-sub001/internal/services/badges/domain"
)

// TaskEvent is one leased outbox row from the tasks service
type TaskEvent struct {
	ID        int64
	ChildID   string
	Kind      string
	CreatedAt time.Time
}

// EarnedRow is one badge's aggregate over a child's records
type EarnedRow struct {
	BadgeID       string
	EarnedCount   int
	FirstEarnedAt time.Time
	LastEarnedAt  time.Time
}

// Repo is the badges persistence surface used by the service layer
type Repo interface {
	Exists(ctx context.Context, childID, badgeID, repeatKey string) (bool, error)
	Insert(ctx context.Context, rec domain.Record) error
	EarnedSummary(ctx context.Context, childID string) ([]EarnedRow, error)

	LeaseEvents(ctx context.Context, workerID string, limit int, leaseFor time.Duration) ([]TaskEvent, error)
	CompleteEvents(ctx context.Context, ids []int64) error
}

type (
	// PG is a Postgres implementation of the badges repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder for the Postgres implementation
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind attaches a Queryer to the Postgres implementation
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Exists reports whether a record already exists for the award slot
func (r *queries) Exists(ctx context.Context, childID, badgeID, repeatKey string) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM badge_records
			WHERE child_id = $1 AND badge_id = $2 AND repeat_key = $3
		)`
	exists, err := repokit.Scalar[bool](ctx, r.q, sql, childID, badgeID, repeatKey)
	if err != nil {
		return false, perr.FromPostgresf(err, "check award %s for %s", badgeID, childID)
	}
	return exists, nil
}

// Insert appends one record. A losing race against the unique index over
// (child_id, badge_id, repeat_key) comes back as a duplicate key error
// for the caller to recover as "already earned"
func (r *queries) Insert(ctx context.Context, rec domain.Record) error {
	const sql = `
		INSERT INTO badge_records (id, child_id, badge_id, repeat_key, earned_at, context)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, sql, rec.ID, rec.ChildID, rec.BadgeID, rec.RepeatKey, rec.EarnedAt, rec.Context)
	if err != nil {
		return perr.FromPostgresf(err, "insert award %s for %s", rec.BadgeID, rec.ChildID)
	}
	return nil
}

// EarnedSummary aggregates a child's records per badge
func (r *queries) EarnedSummary(ctx context.Context, childID string) ([]EarnedRow, error) {
	const sql = `
		SELECT badge_id,
		       COUNT(*)::int   AS earned_count,
		       MIN(earned_at)  AS first_earned_at,
		       MAX(earned_at)  AS last_earned_at
		FROM badge_records
		WHERE child_id = $1
		GROUP BY badge_id
		ORDER BY badge_id`
	rows, err := r.q.Query(ctx, sql, childID)
	if err != nil {
		return nil, perr.FromPostgresf(err, "earned summary for %s", childID)
	}
	defer rows.Close()

	var out []EarnedRow
	for rows.Next() {
		var e EarnedRow
		if err := rows.Scan(&e.BadgeID, &e.EarnedCount, &e.FirstEarnedAt, &e.LastEarnedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan earned row")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LeaseEvents grabs a batch of unprocessed task events, skipping rows
// another worker holds. The lease expires on its own so a crashed worker
// never strands events
func (r *queries) LeaseEvents(
	ctx context.Context,
	workerID string,
	limit int,
	leaseFor time.Duration,
) ([]TaskEvent, error) {
	const sql = `
		UPDATE task_events
		SET leased_by = $1, leased_until = NOW() + $2::interval
		WHERE id IN (
			SELECT id FROM task_events
			WHERE processed_at IS NULL
			  AND (leased_until IS NULL OR leased_until < NOW())
			ORDER BY id
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, child_id, kind, created_at`
	rows, err := r.q.Query(ctx, sql, workerID, leaseFor.String(), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "lease task events")
	}
	defer rows.Close()

	var out []TaskEvent
	for rows.Next() {
		var ev TaskEvent
		if err := rows.Scan(&ev.ID, &ev.ChildID, &ev.Kind, &ev.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan task event")
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// CompleteEvents marks leased events processed
func (r *queries) CompleteEvents(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const sql = `UPDATE task_events SET processed_at = NOW() WHERE id = ANY($1)`
	if _, err := r.q.Exec(ctx, sql, ids); err != nil {
		return perr.FromPostgres(err, "complete task events")
	}
	return nil
}
