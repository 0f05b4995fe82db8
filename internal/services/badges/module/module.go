// Package module implements the badges service module
package module

import (
	"net/http"
	"time"

	"github.com/em3s/mungchi-sub001/internal/core/badgepack"
	"github.com/em3s/mungchi-sub001/internal/core/metrics"
	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/httpkit"
	str "github.com/em3s/mungchi-sub001/internal/platform/strings"
	"github.com/em3s/mungchi-sub001/internal/services/badges/domain"
	"github.com/em3s/mungchi-sub001/internal/services/badges/service"
	childdom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	taskdom "github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
)

// Ports exposed by the badges module
type Ports struct {
	Context  domain.ContextPort
	Evaluate domain.EvaluatePort
	Query    domain.QueryPort
	Worker   domain.WorkerPort
}

// Options configure the badges module
type Options struct {
	// Tasks and Children are required cross-module ports
	Tasks    taskdom.SummaryPort
	Children childdom.QueryPort

	ContextTTL time.Duration
	Worker     service.WorkerConfig
}

// FromConfig reads module options from the environment (BADGES_*)
func FromConfig(deps modkit.Deps) Options {
	cfg := deps.Cfg.Prefix("BADGES_")
	return Options{
		ContextTTL: cfg.MayDuration("CONTEXT_TTL", 60*time.Second),
		Worker: service.WorkerConfig{
			WorkerID:  cfg.MayString("WORKER_ID", "evaluator"),
			PollEvery: cfg.MayDuration("POLL_EVERY", 500*time.Millisecond),
			BatchSize: cfg.MayInt("BATCH_SIZE", 64),
			LeaseFor:  cfg.MayDuration("LEASE_FOR", 60*time.Second),
		},
	}
}

// Module implements the badges service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	svc    *service.Service
}

// New constructs a badges module. opt.Tasks and opt.Children must be set
func New(deps modkit.Deps, opt Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("badges"),
		modkit.WithPrefix("/children/{childID}/badges"),
	}, opts...)...)

	pack := badgepack.MustLoad()
	svc := service.New(deps, pack, opt.Tasks, opt.Children, service.Config{
		ContextTTL: opt.ContextTTL,
	})
	worker := service.NewWorker(svc, opt.Worker)

	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports: Ports{
			Context:  svc,
			Evaluate: svc,
			Query:    svc,
			Worker:   worker,
		},
	}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "badges") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		rr.Use(httpkit.WithChild)
		for _, mw := range m.mws {
			rr.Use(mw)
		}

		httpkit.Get(rr, "/", func(req *http.Request) ([]domain.Earned, error) {
			return m.svc.Earned(req.Context(), httpkit.Param(req, "childID"))
		})

		httpkit.Get(rr, "/catalog", func(req *http.Request) ([]domain.CatalogEntry, error) {
			return m.svc.Catalog(req.Context(), httpkit.Param(req, "childID"))
		})

		httpkit.Get(rr, "/context", func(req *http.Request) (metrics.Context, error) {
			return m.svc.Context(req.Context(), httpkit.Param(req, "childID"))
		})

		httpkit.Post(rr, "/evaluate", func(req *http.Request) ([]domain.Record, error) {
			recs, err := m.svc.Evaluate(req.Context(), httpkit.Param(req, "childID"))
			if err != nil {
				return nil, err
			}
			if recs == nil {
				recs = []domain.Record{}
			}
			return recs, nil
		})
	})
}
