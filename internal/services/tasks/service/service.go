// Package service implements the tasks service: per-day task CRUD plus the
// aggregation feeding the badge engine. Mutations run in one transaction
// with their outbox event, then invalidate the child's cached badge inputs
package service

import (
	"context"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/metrics"
	"github.com/em3s/mungchi-sub001/internal/core/normalize"
	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	dom "github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
	"github.com/em3s/mungchi-sub001/internal/services/tasks/repo"

	"github.com/google/uuid"
)

// CachePrefix is the badge-input cache namespace; one key per child
const CachePrefix = "badge_tasks:"

// CacheKey returns the badge-input cache key for a child
func CacheKey(childID string) string { return CachePrefix + childID }

// Service implements the tasks ports
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Repo]
	reader repo.Repo
	cache  *cache.Cache
	clk    clock.Clock
}

// New constructs the tasks service
func New(deps modkit.Deps) *Service {
	b := repo.NewPG()
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		db:     deps.PG,
		binder: b,
		reader: repokit.MustBind(b, deps.PG),
		cache:  deps.Cache,
		clk:    clk,
	}
}

// List implements domain.QueryPort
func (s *Service) List(ctx context.Context, childID, fromDay, toDay string) ([]dom.Task, error) {
	if err := checkRange(fromDay, toDay); err != nil {
		return nil, err
	}
	return s.reader.ListRange(ctx, childID, fromDay, toDay)
}

// Create implements domain.MutatePort
func (s *Service) Create(ctx context.Context, childID string, in dom.CreateInput) (dom.Task, error) {
	now := s.clk.Now()
	day := in.Date
	if day == "" {
		day = clock.DayKey(now)
	} else if clock.ParseDayKey(day).IsZero() {
		return dom.Task{}, perr.Validationf("invalid date %q", day)
	}

	norm := normalize.Title(in.Title)
	if norm == "" {
		return dom.Task{}, perr.Validationf("title is empty after normalization")
	}

	t := dom.Task{
		ID:        uuid.NewString(),
		ChildID:   childID,
		Date:      day,
		Title:     in.Title,
		TitleNorm: norm,
		CreatedAt: now,
	}

	var out dom.Task
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if out, err = r.Insert(ctx, t); err != nil {
			return err
		}
		return r.AppendEvent(ctx, childID, "task_created")
	})
	if err != nil {
		return dom.Task{}, err
	}

	s.invalidate(childID)
	return out, nil
}

// Rename implements domain.MutatePort. The new title goes through the
// same normalization as Create, so a rename cannot sneak past the
// one-title-per-day rule
func (s *Service) Rename(ctx context.Context, childID, taskID string, in dom.UpdateInput) (dom.Task, error) {
	norm := normalize.Title(in.Title)
	if norm == "" {
		return dom.Task{}, perr.Validationf("title is empty after normalization")
	}

	var out dom.Task
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if out, err = r.SetTitle(ctx, childID, taskID, in.Title, norm); err != nil {
			return err
		}
		return r.AppendEvent(ctx, childID, "task_renamed")
	})
	if err != nil {
		return dom.Task{}, err
	}

	s.invalidate(childID)
	return out, nil
}

// Complete implements domain.MutatePort
func (s *Service) Complete(ctx context.Context, childID, taskID string) (dom.Task, error) {
	now := s.clk.Now()
	return s.setCompleted(ctx, childID, taskID, true, &now, "task_completed")
}

// Uncomplete implements domain.MutatePort
func (s *Service) Uncomplete(ctx context.Context, childID, taskID string) (dom.Task, error) {
	return s.setCompleted(ctx, childID, taskID, false, nil, "task_uncompleted")
}

// Delete implements domain.MutatePort. Earned badges stay earned; the
// deletion event only prompts a re-evaluation for anything still pending
func (s *Service) Delete(ctx context.Context, childID, taskID string) (dom.Task, error) {
	var out dom.Task
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if out, err = r.Delete(ctx, childID, taskID); err != nil {
			return err
		}
		return r.AppendEvent(ctx, childID, "task_deleted")
	})
	if err != nil {
		return dom.Task{}, err
	}

	s.invalidate(childID)
	return out, nil
}

func (s *Service) setCompleted(
	ctx context.Context,
	childID, taskID string,
	completed bool,
	at *time.Time,
	event string,
) (dom.Task, error) {
	var out dom.Task
	err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if out, err = r.SetCompleted(ctx, childID, taskID, completed, at); err != nil {
			return err
		}
		return r.AppendEvent(ctx, childID, event)
	})
	if err != nil {
		return dom.Task{}, err
	}

	s.invalidate(childID)
	return out, nil
}

// Summaries implements domain.SummaryPort. Any store failure surfaces as
// unavailable so the badge engine can tell "no tasks" from "don't know";
// silently substituting empty data would corrupt streak math
func (s *Service) Summaries(ctx context.Context, childID, fromDay, toDay string) ([]metrics.DaySummary, error) {
	if err := checkRange(fromDay, toDay); err != nil {
		return nil, err
	}
	out, err := s.reader.SummaryRange(ctx, childID, fromDay, toDay)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeValidation) || perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			return nil, err
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "task store unavailable for %s", childID)
	}
	return out, nil
}

func (s *Service) invalidate(childID string) {
	if s.cache != nil {
		s.cache.Invalidate(CacheKey(childID))
	}
}

func checkRange(fromDay, toDay string) error {
	from, to := clock.ParseDayKey(fromDay), clock.ParseDayKey(toDay)
	switch {
	case from.IsZero():
		return perr.Validationf("invalid from date %q", fromDay)
	case to.IsZero():
		return perr.Validationf("invalid to date %q", toDay)
	case to.Before(from):
		return perr.Validationf("date range %s..%s is inverted", fromDay, toDay)
	}
	return nil
}
