// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/em3s/mungchi-sub001/internal/modkit/repokit"
	"github.com/em3s/mungchi-sub001/internal/platform/cache"
	"github.com/em3s/mungchi-sub001/internal/platform/clock"
	"github.com/em3s/mungchi-sub001/internal/platform/config"
	"github.com/em3s/mungchi-sub001/internal/platform/logger"
	"github.com/em3s/mungchi-sub001/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Cache *cache.Cache
	Clock clock.Clock
}
