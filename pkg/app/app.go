package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/retailshop/pkg/account"
	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/billing"
	"github.com/example/retailshop/pkg/cart"
	"github.com/example/retailshop/pkg/catalog"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/events"
	"github.com/example/retailshop/pkg/reporting"
	"github.com/example/retailshop/pkg/repository"
	"github.com/example/retailshop/pkg/session"
	"go.uber.org/zap"
)

// App holds the wired services of one shop process.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Store  *repository.Store

	Accounts *account.Service
	Tokens   *account.Tokens
	Catalog  *catalog.Service
	Ledger   *cart.Ledger
	Engine   *billing.Engine
	Sessions *session.Dispatcher
	Reports  *reporting.Service

	Cache  *repository.RedisCache
	Audit  *repository.MongoAuditLog
	Events *events.RabbitPublisher

	cleanup []func()
}

// New connects to the configured database, migrates it and wires the services.
// Redis, MongoDB and RabbitMQ are used only when configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := repository.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger}
	a.onClose(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if cfg.Redis.Addr != "" {
		a.Cache = repository.NewRedisCache(&cfg.Redis)
		a.onClose(func() { _ = a.Cache.Close() })
		if err := a.Cache.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed", zap.Error(err))
		} else {
			logger.Info("Redis connected successfully")
		}
	}

	if cfg.MongoDB.URI != "" {
		if err := a.connectAudit(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.RabbitMQ.URL != "" {
		pub, err := events.Dial(&cfg.RabbitMQ)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Events = pub
		a.onClose(func() { _ = pub.Close() })
	}

	if err := a.wire(ctx, repository.NewStore(db)); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) connectAudit(ctx context.Context) error {
	audit, err := repository.NewMongoAuditLog(&a.Config.MongoDB, a.Config.Server.Name)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	a.Audit = audit
	a.onClose(func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = audit.Close(cctx)
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := audit.Ping(pctx); err != nil {
		a.Logger.Warn("MongoDB connection failed", zap.Error(err))
	} else {
		a.Logger.Info("MongoDB connected successfully")
	}
	return nil
}

// NewWithStore wires the services over an already migrated store, without
// any cache, audit log or event publisher.
func NewWithStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, store *repository.Store) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	if err := a.wire(ctx, store); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, store *repository.Store) error {
	cfg := a.Config
	a.Store = store

	var (
		productCache catalog.Cache
		opts         []billing.Option
	)
	if a.Cache != nil {
		productCache = a.Cache
		opts = append(opts, billing.WithCache(a.Cache))
	}
	if a.Audit != nil {
		opts = append(opts, billing.WithAuditLog(a.Audit))
	}
	if a.Events != nil {
		opts = append(opts, billing.WithPublisher(a.Events))
	}

	a.Accounts = account.NewService(store, a.Logger)
	a.Tokens = account.NewTokens(cfg.Auth)
	a.Catalog = catalog.NewService(store, a.Logger, productCache)
	a.Ledger = cart.NewLedger(store, a.Logger)
	a.Engine = billing.NewEngine(store, a.Ledger, a.Logger, opts...)
	a.Reports = reporting.NewService(store)
	a.Sessions = session.NewDispatcher(a.Ledger, a.Engine, a.Logger, session.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		IdleTimeout:    cfg.Server.SessionIdle,
	})
	a.onClose(a.Sessions.Close)

	return a.ensureAdmin(ctx)
}

func (a *App) ensureAdmin(ctx context.Context) error {
	name := a.Config.Auth.AdminUsername
	if name == "" {
		return nil
	}
	_, err := a.Accounts.Register(ctx, name, a.Config.Auth.AdminPassword, true)
	switch {
	case err == nil:
		a.Logger.Info("Admin account created", zap.String("username", name))
	case apperr.Is(err, apperr.KindDuplicate):
	default:
		return fmt.Errorf("failed to create admin account: %w", err)
	}
	return nil
}

func (a *App) onClose(fn func()) {
	a.cleanup = append(a.cleanup, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}
