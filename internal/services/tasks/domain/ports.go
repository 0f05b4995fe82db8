package domain

import (
	"context"

	"github.com/em3s/mungchi-sub001/internal/core/metrics"
)

// QueryPort reads task rows
type QueryPort interface {
	List(ctx context.Context, childID, fromDay, toDay string) ([]Task, error)
}

// MutatePort mutates task rows. Every mutation invalidates the child's
// cached badge inputs and appends a task event for the evaluator
type MutatePort interface {
	Create(ctx context.Context, childID string, in CreateInput) (Task, error)
	Rename(ctx context.Context, childID, taskID string, in UpdateInput) (Task, error)
	Complete(ctx context.Context, childID, taskID string) (Task, error)
	Uncomplete(ctx context.Context, childID, taskID string) (Task, error)
	Delete(ctx context.Context, childID, taskID string) (Task, error)
}

// SummaryPort aggregates task rows into per-day summaries for the
// badge engine. A store failure surfaces as unavailable, never as an
// empty result
type SummaryPort interface {
	Summaries(ctx context.Context, childID, fromDay, toDay string) ([]metrics.DaySummary, error)
}
