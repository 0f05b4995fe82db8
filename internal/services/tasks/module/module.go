// Package module implements the tasks service module
package module

import (
	"net/http"
	"time"

	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/httpkit"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	str "github.com/em3s/mungchi-sub001/internal/platform/strings"
	"github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
	"github.com/em3s/mungchi-sub001/internal/services/tasks/service"
)

// Ports exposed by the tasks module
type Ports struct {
	Query   domain.QueryPort
	Mutate  domain.MutatePort
	Summary domain.SummaryPort
}

// Module implements the tasks service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	svc    *service.Service
}

// New constructs a tasks module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tasks"),
		modkit.WithPrefix("/children/{childID}/tasks"),
	}, opts...)...)

	svc := service.New(deps)
	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Query: svc, Mutate: svc, Summary: svc},
	}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "tasks") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// listQuery is the day-range filter; both ends default to today
type listQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		rr.Use(httpkit.WithChild)
		for _, mw := range m.mws {
			rr.Use(mw)
		}

		httpkit.Get(rr, "/", func(req *http.Request) ([]domain.Task, error) {
			q, err := httpkit.Query[listQuery](req)
			if err != nil {
				return nil, err
			}
			today := clock.DayKey(m.now())
			from := str.IfEmpty(q.From, today)
			to := str.IfEmpty(q.To, today)
			return m.svc.List(req.Context(), httpkit.Param(req, "childID"), from, to)
		})

		httpkit.PostJSON(rr, "/", func(req *http.Request, in domain.CreateInput) (domain.Task, error) {
			return m.svc.Create(req.Context(), httpkit.Param(req, "childID"), in)
		})

		httpkit.PutJSON(rr, "/{taskID}", func(req *http.Request, in domain.UpdateInput) (domain.Task, error) {
			return m.svc.Rename(req.Context(), httpkit.Param(req, "childID"), httpkit.Param(req, "taskID"), in)
		})

		httpkit.Post(rr, "/{taskID}/complete", func(req *http.Request) (domain.Task, error) {
			return m.svc.Complete(req.Context(), httpkit.Param(req, "childID"), httpkit.Param(req, "taskID"))
		})

		httpkit.Post(rr, "/{taskID}/uncomplete", func(req *http.Request) (domain.Task, error) {
			return m.svc.Uncomplete(req.Context(), httpkit.Param(req, "childID"), httpkit.Param(req, "taskID"))
		})

		httpkit.Delete(rr, "/{taskID}", func(req *http.Request) (domain.Task, error) {
			return m.svc.Delete(req.Context(), httpkit.Param(req, "childID"), httpkit.Param(req, "taskID"))
		})
	})
}

func (m *Module) now() time.Time {
	if m.deps.Clock != nil {
		return m.deps.Clock.Now()
	}
	return time.Now()
}
