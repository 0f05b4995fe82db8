package service

import (
	"context"
	"time"

	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	tasksvc "github.com/em3s/mungchi-sub001/internal/services/tasks/service"
)

// WorkerConfig controls the evaluation worker loop
type WorkerConfig struct {
	WorkerID  string
	PollEvery time.Duration
	BatchSize int
	LeaseFor  time.Duration
}

func (c WorkerConfig) withDefaults() WorkerConfig {
	if c.WorkerID == "" {
		c.WorkerID = "evaluator"
	}
	if c.PollEvery <= 0 {
		c.PollEvery = 500 * time.Millisecond
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 64
	}
	if c.LeaseFor <= 0 {
		c.LeaseFor = 60 * time.Second
	}
	return c
}

// Worker consumes task events and runs evaluation per affected child.
// Evaluation failure never blocks the task mutation that queued the
// event; the event stays leased and retries after the lease expires
type Worker struct {
	svc *Service
	cfg WorkerConfig
}

// NewWorker constructs the evaluation worker
func NewWorker(svc *Service, cfg WorkerConfig) *Worker {
	return &Worker{svc: svc, cfg: cfg.withDefaults()}
}

// Run starts the poll loop and blocks until ctx is done
func (w *Worker) Run(ctx context.Context) error {
	log := logger.Named("badge-worker")
	ticker := time.NewTicker(w.cfg.PollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.tick(ctx, log); err != nil {
				log.Error().Err(err).Msg("worker tick failed")
			}
		}
	}
}

// tick leases one batch, evaluates each distinct child once, and marks
// only the events of successfully evaluated children processed
func (w *Worker) tick(ctx context.Context, log *logger.Logger) error {
	events, err := w.svc.repo.LeaseEvents(ctx, w.cfg.WorkerID, w.cfg.BatchSize, w.cfg.LeaseFor)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	// the context is per child, so a burst of mutations for one child
	// costs one evaluation
	byChild := make(map[string][]int64)
	for _, ev := range events {
		byChild[ev.ChildID] = append(byChild[ev.ChildID], ev.ID)
	}

	var done []int64
	for childID, ids := range byChild {
		// the mutation already invalidated in the API process; do it here
		// too so a worker sharing the cache never evaluates stale inputs
		if w.svc.cache != nil {
			w.svc.cache.Invalidate(tasksvc.CacheKey(childID))
		}

		awarded, err := w.svc.Evaluate(ctx, childID)
		if err != nil {
			log.Warn().Err(err).Str("child_id", childID).Msg("evaluation failed; events will retry")
			continue
		}
		for _, rec := range awarded {
			log.Info().
				Str("child_id", childID).
				Str("badge_id", rec.BadgeID).
				Msg("badge earned")
		}
		done = append(done, ids...)
	}

	return w.svc.repo.CompleteEvents(ctx, done)
}
