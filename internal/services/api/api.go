// Package api composes the service modules into the HTTP API
package api

import (
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	"github.com/em3s/mungchi-sub001/internal/platform/config"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
	"github.com/em3s/mungchi-sub001/internal/platform/store"

	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/httpkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/module"
	"github.com/em3s/mungchi-sub001/internal/modkit/swaggerkit"

	metamod "github.com/em3s/mungchi-sub001/internal/services/api/meta/module"
	badgesmod "github.com/em3s/mungchi-sub001/internal/services/badges/module"
	childdom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	childrenmod "github.com/em3s/mungchi-sub001/internal/services/children/module"
	taskdom "github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
	tasksmod "github.com/em3s/mungchi-sub001/internal/services/tasks/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	Cache         *cache.Cache
	Clock         clock.Clock
	CORSOrigins   []string
	EnableSwagger bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	clk := opt.Clock
	if clk == nil {
		clk = clock.System{}
	}
	c := opt.Cache
	if c == nil {
		c = cache.New(clk)
	}

	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		CH:    opt.Store.CH,
		Cache: c,
		Clock: clk,
	}

	// children and tasks come up first so badges can consume their ports
	children := childrenmod.New(deps)
	tasks := tasksmod.New(deps)

	badgeOpts := badgesmod.FromConfig(deps)
	badgeOpts.Tasks = module.MustPortsOf[taskdom.SummaryPort](tasks)
	badgeOpts.Children = module.MustPortsOf[childdom.QueryPort](children)
	badges := badgesmod.New(deps, badgeOpts)

	mods := []module.Module{
		metamod.New(deps),
		children,
		tasks,
		badges,
	}

	origins := opt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	httpkit.MountAPIV1(r, httpkit.CommonStack(origins), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
