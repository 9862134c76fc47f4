package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/undokit/internal/config"
	"github.com/aretw0/undokit/pkg/adapters/memory"
	"github.com/aretw0/undokit/pkg/adapters/redis"
	"github.com/aretw0/undokit/pkg/domain"
	"github.com/aretw0/undokit/pkg/history"
	"github.com/aretw0/undokit/pkg/observability"
	"github.com/aretw0/undokit/pkg/ports"
	"github.com/aretw0/undokit/pkg/session"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newSessions builds the document store and session manager described by cfg.
// The returned closer releases the store connection.
func newSessions(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*session.Manager, io.Closer, error) {
	var (
		store  ports.DocumentStore
		closer io.Closer = nopCloser{}
		opts   []session.Option
	)

	switch cfg.Store.Driver {
	case config.DriverRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTimeout(rc.Timeout),
		)
		store, closer = rs, rs
		if rc.Lock {
			opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix)))
		}
		logger.Info("using redis store", "addr", rc.Addr, "prefix", rc.Prefix, "lock", rc.Lock)
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	hooks = append(hooks, observability.LogHooks(logger))
	opts = append(opts,
		session.WithLogger(logger),
		session.WithCoalesceWindow(cfg.History.CoalesceWindow),
		session.WithHistoryOptions(
			history.WithLimit(cfg.History.Limit),
			history.WithLifecycleHooks(observability.Combine(hooks...)),
		),
	)
	return session.NewManager(store, opts...), closer, nil
}
