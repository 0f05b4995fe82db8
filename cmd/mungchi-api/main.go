// @title         Mungchi API
// @version       0.1.0
// @description   Task, badge, and achievement endpoints for the family app

package main

import (
	"context"
	"strings"

	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	"github.com/em3s/mungchi-sub001/internal/platform/config"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	phttp "github.com/em3s/mungchi-sub001/internal/platform/net/http"
	"github.com/em3s/mungchi-sub001/internal/platform/store"

	"github.com/em3s/mungchi-sub001/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("API_")
	pgCfg := root.Prefix("PGSQL_")
	chCfg := root.Prefix("CLICKHOUSE_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
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
				ClientTag:  "api",
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(context.Background(), st)

	clk := clock.System{}
	srv := phttp.NewServer(apiCfg.MayString("ADDR", ":4000"))

	api.Mount(
		srv.Router(),
		api.Options{
			Config:        root,
			Store:         st,
			Logger:        l,
			Cache:         cache.New(clk),
			Clock:         clk,
			CORSOrigins:   splitOrigins(apiCfg.MayString("CORS_ORIGINS", "*")),
			EnableSwagger: apiCfg.MayBool("SWAGGER", true),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

func splitOrigins(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
