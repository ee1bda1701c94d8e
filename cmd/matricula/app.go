package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/matricula-admin/internal/handler"
	"github.com/noah-isme/matricula-admin/internal/repository"
	"github.com/noah-isme/matricula-admin/internal/service"
	"github.com/noah-isme/matricula-admin/pkg/cache"
	"github.com/noah-isme/matricula-admin/pkg/config"
	"github.com/noah-isme/matricula-admin/pkg/database"
	"github.com/noah-isme/matricula-admin/pkg/logger"
	"github.com/noah-isme/matricula-admin/pkg/storage"
)

// backend is an opened record store backend with its readiness probe and
// release hook.
type backend struct {
	kv     repository.KeyValue
	checks map[string]handler.ReadinessCheck
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*backend, error) {
	switch cfg.Store.Driver {
	case "", config.StoreDriverFile:
		local, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logr.Info("record store ready", zap.String("driver", config.StoreDriverFile), zap.String("path", local.Path(cfg.Store.Collection)))
		return &backend{kv: local, close: func() {}}, nil

	case config.StoreDriverMemory:
		logr.Warn("record store is in-memory; enrollments are lost on exit")
		return &backend{kv: repository.NewMemoryKeyValue(), close: func() {}}, nil

	case config.StoreDriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logr.Info("record store ready", zap.String("driver", config.StoreDriverRedis), zap.String("host", cfg.Redis.Host))
		return &backend{
			kv: repository.NewRedisKeyValue(client),
			checks: map[string]handler.ReadinessCheck{
				"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
			},
			close: func() { _ = client.Close() },
		}, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		open := func() (*repository.SQLKeyValue, func(context.Context) error, func(), error) {
			if cfg.Store.Driver == config.StoreDriverPostgres {
				db, err := database.NewPostgres(cfg.Database)
				if err != nil {
					return nil, nil, nil, err
				}
				return repository.NewSQLKeyValue(db), db.PingContext, func() { _ = db.Close() }, nil
			}
			db, err := database.NewSQLite(cfg.SQLite)
			if err != nil {
				return nil, nil, nil, err
			}
			return repository.NewSQLKeyValue(db), db.PingContext, func() { _ = db.Close() }, nil
		}
		kv, ping, closeFn, err := open()
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", cfg.Store.Driver, err)
		}
		if err := kv.EnsureSchema(ctx); err != nil {
			closeFn()
			return nil, err
		}
		logr.Info("record store ready", zap.String("driver", cfg.Store.Driver))
		return &backend{
			kv:     kv,
			checks: map[string]handler.ReadinessCheck{cfg.Store.Driver: ping},
			close:  closeFn,
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// bootstrap loads configuration, the logger and the record store shared by
// every command.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *backend, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	be, err := openBackend(ctx, cfg, logr)
	if err != nil {
		_ = logr.Sync()
		return nil, nil, nil, err
	}
	return cfg, logr, be, nil
}

func newRecordStore(be *backend, logr *zap.Logger, metrics *service.MetricsService) *repository.RecordStore {
	if metrics == nil {
		return repository.NewRecordStore(be.kv, logr, nil)
	}
	return repository.NewRecordStore(be.kv, logr, metrics)
}
