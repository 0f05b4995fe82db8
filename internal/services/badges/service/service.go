// Package service implements the badge engine: context building over the
// task aggregates, catalog evaluation with per-rule fault isolation, and
// exactly-once award persistence
package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/badgepack"
	"github.com/em3s/mungchi-sub001/internal/core/metrics"
	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	perr "github.com/em3s/mungchi-sub001/internal/platform/errors"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	"github.com/em3s/mungchi-sub001/internal/platform/store"
	dom "github.com/em3s/mungchi-sub001/internal/services/badges/domain"
	"github.com/em3s/mungchi-sub001/internal/services/badges/repo"
	childdom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	tasksvc "github.com/em3s/mungchi-sub001/internal/services/tasks/service"

	taskdom "github.com/em3s/mungchi-sub001/internal/services/tasks/domain"

	"github.com/google/uuid"
)

// historyStart bounds the lifetime aggregation window; nothing predates
// the app's launch year
const historyStart = "2024-01-01"

// maskedText replaces name and description of unearned hidden badges
const maskedText = "???"

// Config controls the badge service
type Config struct {
	// ContextTTL is the badge-input cache window
	ContextTTL time.Duration
}

// Service implements the badges ports
type Service struct {
	repo repo.Repo

	pack     *badgepack.Pack
	tasks    taskdom.SummaryPort
	children childdom.QueryPort
	policy   RepeatPolicy

	cache *cache.Cache
	clk   clock.Clock
	ch    store.Clickhouse
	cfg   Config
}

// New constructs the badge service. tasks and children are the cross
// module ports the engine aggregates through
func New(
	deps modkit.Deps,
	pack *badgepack.Pack,
	tasks taskdom.SummaryPort,
	children childdom.QueryPort,
	cfg Config,
) *Service {
	if cfg.ContextTTL <= 0 {
		cfg.ContextTTL = 60 * time.Second
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{
		repo:     repokit.MustBind(repo.NewPG(), deps.PG),
		pack:     pack,
		tasks:    tasks,
		children: children,
		policy:   DailyRepeat{},
		cache:    deps.Cache,
		clk:      clk,
		ch:       deps.CH,
		cfg:      cfg,
	}
}

// WithPolicy swaps the repeat policy; mostly for tests
func (s *Service) WithPolicy(p RepeatPolicy) *Service {
	if p != nil {
		s.policy = p
	}
	return s
}

// Context implements domain.ContextPort. The snapshot is cached per child
// under the badge-input key so bursts of evaluation triggers within the
// TTL window reuse one aggregation; task mutations invalidate the key
func (s *Service) Context(ctx context.Context, childID string) (metrics.Context, error) {
	if s.cache == nil {
		return s.buildContext(ctx, childID)
	}
	return cache.GetOrCompute(s.cache, tasksvc.CacheKey(childID), s.cfg.ContextTTL,
		func() (metrics.Context, error) {
			return s.buildContext(ctx, childID)
		})
}

func (s *Service) buildContext(ctx context.Context, childID string) (metrics.Context, error) {
	now := s.clk.Now()
	today := clock.DayKey(now)

	summaries, err := s.tasks.Summaries(ctx, childID, historyStart, today)
	if err != nil {
		return metrics.Context{}, err
	}

	var siblingToday *metrics.DaySummary
	sibID, err := s.children.SiblingOf(ctx, childID)
	if err != nil {
		return metrics.Context{}, err
	}
	if sibID != "" {
		sibDays, err := s.tasks.Summaries(ctx, sibID, today, today)
		if err != nil {
			return metrics.Context{}, err
		}
		if len(sibDays) > 0 {
			siblingToday = &sibDays[0]
		}
	}

	return metrics.Build(childID, summaries, siblingToday, now)
}

// Evaluate implements domain.EvaluatePort. The catalog is walked in its
// fixed id order; each new award is inserted individually so a lost
// insert race degrades to "already earned" without aborting the rest
func (s *Service) Evaluate(ctx context.Context, childID string) ([]dom.Record, error) {
	mctx, err := s.Context(ctx, childID)
	if err != nil {
		return nil, err
	}
	log := logger.C(ctx)
	now := s.clk.Now()

	snapshot, err := json.Marshal(mctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeJSON, "marshal context snapshot")
	}

	var awarded []dom.Record
	for _, b := range s.pack.Badges {
		hit, evalErr := evalBadge(b, mctx)
		if evalErr != nil {
			// one broken rule never denies the rest of the catalog
			log.Error().Err(evalErr).
				Str("badge_id", b.ID).
				Str("child_id", childID).
				Msg("badge condition fault")
			continue
		}
		if !hit {
			continue
		}

		repeatKey, eligible := s.policy.RepeatKey(b, mctx)
		if !eligible {
			continue
		}

		exists, err := s.repo.Exists(ctx, childID, b.ID, repeatKey)
		if err != nil {
			return awarded, err
		}
		if exists {
			continue
		}

		rec := dom.Record{
			ID:        uuid.NewString(),
			ChildID:   childID,
			BadgeID:   b.ID,
			RepeatKey: repeatKey,
			EarnedAt:  now,
			Context:   snapshot,
		}
		if err := s.repo.Insert(ctx, rec); err != nil {
			if perr.IsCode(err, perr.ErrorCodeDuplicateKey) {
				// concurrent evaluation won the insert; same outcome
				continue
			}
			return awarded, err
		}
		awarded = append(awarded, rec)
	}

	s.reportEvaluation(ctx, childID, mctx, len(awarded))
	return awarded, nil
}

// evalBadge runs one predicate with panic isolation. A faulting rule is
// reported as a rule fault and treated as "not earned this cycle"
func evalBadge(b badgepack.Badge, m metrics.Context) (hit bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			hit = false
			err = perr.RuleFaultf("badge %s condition panicked: %v", b.ID, rec)
		}
	}()
	return b.Eval(m), nil
}

// reportEvaluation ships one telemetry row to clickhouse, best effort.
// Postgres stays the source of truth; a failed insert only logs
func (s *Service) reportEvaluation(ctx context.Context, childID string, m metrics.Context, newAwards int) {
	if s.ch == nil {
		return
	}
	row := []any{childID, m.AsOfDay, m.Streak, m.TodayRate, m.WeekRate, newAwards, s.clk.Now()}
	if err := s.ch.Insert(ctx, "badge_evals", [][]any{row}); err != nil {
		logger.C(ctx).Warn().Err(err).Str("child_id", childID).Msg("telemetry insert failed")
	}
}

// Earned implements domain.QueryPort
func (s *Service) Earned(ctx context.Context, childID string) ([]dom.Earned, error) {
	rows, err := s.repo.EarnedSummary(ctx, childID)
	if err != nil {
		return nil, err
	}
	out := make([]dom.Earned, 0, len(rows))
	for _, r := range rows {
		b, ok := s.pack.Get(r.BadgeID)
		if !ok {
			// a record for a badge retired from the catalog still counts
			out = append(out, dom.Earned{
				BadgeID:       r.BadgeID,
				EarnedCount:   r.EarnedCount,
				FirstEarnedAt: r.FirstEarnedAt,
				LastEarnedAt:  r.LastEarnedAt,
			})
			continue
		}
		out = append(out, dom.Earned{
			BadgeID:       b.ID,
			Name:          b.Name,
			Description:   b.Description,
			Emoji:         b.Emoji,
			Grade:         b.Grade,
			Category:      b.Category,
			Repeatable:    b.Repeatable,
			EarnedCount:   r.EarnedCount,
			FirstEarnedAt: r.FirstEarnedAt,
			LastEarnedAt:  r.LastEarnedAt,
		})
	}
	return out, nil
}

// Catalog implements domain.QueryPort. Unearned hidden badges are masked
func (s *Service) Catalog(ctx context.Context, childID string) ([]dom.CatalogEntry, error) {
	rows, err := s.repo.EarnedSummary(ctx, childID)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.BadgeID] = r.EarnedCount
	}

	out := make([]dom.CatalogEntry, 0, s.pack.Len())
	for _, b := range s.pack.Badges {
		e := dom.CatalogEntry{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Hint:        b.Hint,
			Emoji:       b.Emoji,
			Grade:       b.Grade,
			Category:    b.Category,
			Repeatable:  b.Repeatable,
			Hidden:      b.Hidden,
			Earned:      counts[b.ID] > 0,
			EarnedCount: counts[b.ID],
		}
		if b.Hidden && !e.Earned {
			e.Name = maskedText
			e.Description = maskedText
			e.Emoji = "🔒"
		}
		out = append(out, e)
	}
	return out, nil
}
