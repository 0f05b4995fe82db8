package main

import (
	"context"
	"flag"
	"time"

	"github.com/em3s/mungchi-sub001/internal/modkit"
	"github.com/em3s/mungchi-sub001/internal/modkit/module"
	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	"github.com/em3s/mungchi-sub001/internal/platform/config"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	"github.com/em3s/mungchi-sub001/internal/platform/store"

	badgesmod "github.com/em3s/mungchi-sub001/internal/services/badges/module"
	"github.com/em3s/mungchi-sub001/internal/services/badges/service"
	childdom "github.com/em3s/mungchi-sub001/internal/services/children/domain"
	childrenmod "github.com/em3s/mungchi-sub001/internal/services/children/module"
	taskdom "github.com/em3s/mungchi-sub001/internal/services/tasks/domain"
	tasksmod "github.com/em3s/mungchi-sub001/internal/services/tasks/module"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("PGSQL_")
	chCfg := root.Prefix("CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chCfg.MayBool("ENABLED", false),
			URL:        chCfg.MayString("DBURL", ""),
			ClientName: "mungchi",
			ClientTag:  "evaluator",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	// a headless worker should refuse to start leasing without a live pool
	if p, ok := st.PG.(store.Pinger); ok {
		repokit.MustPing(context.Background(), "postgres", p)
	}

	var (
		fWorkerID = flag.String("worker_id", "evaluator", "worker identity used on event leases")
		fPoll     = flag.Duration("poll", 500*time.Millisecond, "event poll interval")
		fBatch    = flag.Int("batch", 64, "event lease batch size per poll")
		fLease    = flag.Duration("lease", 60*time.Second, "event lease duration")
	)
	flag.Parse()

	clk := clock.System{}
	deps := modkit.Deps{
		Cfg:   root,
		Log:   *l,
		PG:    st.PG,
		CH:    st.CH,
		Cache: cache.New(clk),
		Clock: clk,
	}

	children := childrenmod.New(deps)
	tasks := tasksmod.New(deps)

	opts := badgesmod.FromConfig(deps)
	opts.Tasks = module.MustPortsOf[taskdom.SummaryPort](tasks)
	opts.Children = module.MustPortsOf[childdom.QueryPort](children)
	opts.Worker = service.WorkerConfig{
		WorkerID:  *fWorkerID,
		PollEvery: *fPoll,
		BatchSize: *fBatch,
		LeaseFor:  *fLease,
	}

	badges := badgesmod.New(deps, opts)
	module.Register(badges.Name(), badges.Ports())

	ports, ok := module.PortsAs[badgesmod.Ports](badges.Name())
	if !ok {
		l.Fatal().Msg("badges ports missing from registry")
	}
	if err := ports.Worker.Run(context.Background()); err != nil {
		l.Fatal().Err(err).Msg("badge evaluator stopped")
	}
}
