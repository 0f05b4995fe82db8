// Package module implements the children service module
package module

import (
	"net/http"

	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/httpkit"
	str "github.com/em3s/mungchi-sub001/internal/platform/strings"
	"github.com/em3s/mungchi-sub001/internal/services/children/domain"
	"github.com/em3s/mungchi-sub001/internal/services/children/service"
)

// Ports exposed by the children module
type Ports struct {
	Query domain.QueryPort
}

// Module implements the children service module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	svc    *service.Service
}

// New constructs a children module
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("children"),
		modkit.WithPrefix("/children"),
	}, opts...)...)

	svc := service.New(deps.PG)
	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Query: svc},
	}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return str.MustString(m.name, "children") }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		httpkit.Get(rr, "/", func(req *http.Request) ([]domain.Child, error) {
			return m.svc.List(req.Context())
		})
		httpkit.Get(rr, "/{childID}", func(req *http.Request) (domain.Child, error) {
			return m.svc.Get(req.Context(), httpkit.Param(req, "childID"))
		})
	})
}
