// Package app assembles the stores and services both binaries run on.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/cache"
	"github.com/teammatch/backend/internal/config"
	"github.com/teammatch/backend/internal/domain"
	"github.com/teammatch/backend/internal/repository"
	"github.com/teammatch/backend/internal/repository/memory"
)

// Store is everything the services persist to
type Store interface {
	domain.EventRepository
	domain.ProfileRepository
	domain.MatchRepository
	domain.ConnectionRepository
	domain.DeviceRepository
	Ping(ctx context.Context) error
}

// Backend holds the opened stores. Close releases them.
type Backend struct {
	Store   Store
	Matches domain.MatchRepository
	Redis   *redis.Client

	postgres *repository.PostgresRepository
	closers  []func()
}

// Open connects the configured store and, when configured, Redis. The match
// repository is wrapped with the Redis cache when Redis is available.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	b := &Backend{}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		b.Store = memory.New()
	default:
		pool, err := repository.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, pool.Close)

		repo := repository.NewPostgresRepository(pool)
		if cfg.Database.AutoMigrate {
			if err := repo.Migrate(ctx); err != nil {
				b.Close()
				return nil, err
			}
		}
		b.postgres = repo
		b.Store = repo
		logger.Info("Connected to database")
	}

	b.Matches = b.Store
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		b.closers = append(b.closers, func() { _ = rdb.Close() })
		b.Redis = rdb

		if cfg.Redis.MatchCacheTTL > 0 {
			b.Matches = cache.NewMatchRepository(b.Store, cache.NewRedisCache(rdb, "teammatch:"), cfg.Redis.MatchCacheTTL, logger)
		}
		logger.Info("Connected to redis")
	}

	return b, nil
}

// Migrate applies the schema; it is a no-op for the in-memory store
func (b *Backend) Migrate(ctx context.Context) error {
	if b.postgres == nil {
		return nil
	}
	return b.postgres.Migrate(ctx)
}

// StartMaintenance runs the candidate cleanup worker for the postgres store
func (b *Backend) StartMaintenance(ctx context.Context, interval, retention time.Duration, logger *zap.Logger) {
	if b.postgres == nil {
		return
	}
	b.postgres.StartCleanupWorker(ctx, interval, retention, logger)
}

// Services bundles the domain services wired to one backend
type Services struct {
	Events      *domain.EventService
	Profiles    *domain.ProfileService
	Matches     *domain.MatchService
	Connections *domain.ConnectionService
}

func (b *Backend) Services(notifier domain.Notifier, logger *zap.Logger) *Services {
	return &Services{
		Events:      domain.NewEventService(b.Store),
		Profiles:    domain.NewProfileService(b.Store, b.Store),
		Matches:     domain.NewMatchService(b.Store, b.Matches, notifier, logger),
		Connections: domain.NewConnectionService(b.Store, b.Store, notifier, logger),
	}
}

func (b *Backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}
