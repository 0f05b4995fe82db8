package domain

import (
	"context"

	"github.com/em3s/mungchi-sub001/internal/core/metrics"
)

// ContextPort builds (or serves from cache) a child's metrics snapshot
type ContextPort interface {
	Context(ctx context.Context, childID string) (metrics.Context, error)
}

// EvaluatePort runs the catalog against a child's current context and
// returns the newly earned records, empty when nothing new
type EvaluatePort interface {
	Evaluate(ctx context.Context, childID string) ([]Record, error)
}

// QueryPort reads earned badges and the presented catalog
type QueryPort interface {
	Earned(ctx context.Context, childID string) ([]Earned, error)
	Catalog(ctx context.Context, childID string) ([]CatalogEntry, error)
}

// WorkerPort is the task-event consumer loop
type WorkerPort interface {
	Run(ctx context.Context) error
}
