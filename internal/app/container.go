// Package app wires configuration, storage, messaging, and handlers into a
// running application.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	scheduleApp "github.com/torvane/gantry/internal/schedule/application"
	"github.com/torvane/gantry/internal/schedule/domain"
	"github.com/torvane/gantry/internal/schedule/infrastructure/cache"
	schedulePersistence "github.com/torvane/gantry/internal/schedule/infrastructure/persistence"
	sharedApplication "github.com/torvane/gantry/internal/shared/application"
	"github.com/torvane/gantry/internal/shared/infrastructure/database"
	"github.com/torvane/gantry/internal/shared/infrastructure/eventbus"
	sharedPersistence "github.com/torvane/gantry/internal/shared/infrastructure/persistence"
	"github.com/torvane/gantry/pkg/config"
)

// Container holds the application's wired dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	ScheduleRepository domain.ScheduleRepository
	UnitOfWork         sharedApplication.UnitOfWork
	EventPublisher     *eventbus.EventPublisher
	ResultCache        cache.ResultCache

	CreateScheduleHandler *scheduleApp.CreateScheduleHandler
	ActivityHandler       *scheduleApp.ActivityHandler
	DependencyHandler     *scheduleApp.DependencyHandler
	RescheduleHandler     *scheduleApp.RescheduleHandler
	BaselineHandler       *scheduleApp.BaselineHandler
	ImportHandler         *scheduleApp.ImportHandler
	Queries               *scheduleApp.QueryService

	sqliteDB     *sql.DB
	postgresPool *pgxpool.Pool
	redisCache   *cache.RedisResultCache
}

// NewContainer builds the full dependency graph. SQLite is the default
// store; DATABASE_URL switches to PostgreSQL. Redis and RabbitMQ are
// optional and degrade to no-ops when unconfigured.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{Config: cfg, Logger: logger}

	switch database.DetectDriver(cfg.DatabaseURL) {
	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		c.postgresPool = pool
		repo, err := schedulePersistence.NewPostgresScheduleRepository(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		c.ScheduleRepository = repo
		c.UnitOfWork = sharedPersistence.NewPostgresUnitOfWork(pool)
		logger.Info("using postgres store")
	default:
		path := cfg.DatabaseURL
		if path == "" {
			path = config.DefaultSQLitePath()
		}
		db, err := database.OpenSQLite(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		c.sqliteDB = db
		repo, err := schedulePersistence.NewSQLiteScheduleRepository(ctx, db, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		c.ScheduleRepository = repo
		c.UnitOfWork = sharedPersistence.NewSQLiteUnitOfWork(db)
		logger.Info("using sqlite store", "path", path)
	}

	var publisher eventbus.Publisher
	if cfg.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events disabled", "error", err)
			publisher = eventbus.NewNoopPublisher(logger)
		} else {
			publisher = eventbus.NewCircuitPublisher(rabbit, logger)
		}
	} else {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	c.EventPublisher = eventbus.NewEventPublisher(publisher, logger)

	c.ResultCache = cache.NoopResultCache{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisResultCache(ctx, cfg.RedisURL, cfg.ResultCacheTTL, logger)
		if err != nil {
			logger.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			c.redisCache = redisCache
			c.ResultCache = redisCache
		}
	}

	c.CreateScheduleHandler = scheduleApp.NewCreateScheduleHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.ActivityHandler = scheduleApp.NewActivityHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.DependencyHandler = scheduleApp.NewDependencyHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.RescheduleHandler = scheduleApp.NewRescheduleHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.BaselineHandler = scheduleApp.NewBaselineHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.ImportHandler = scheduleApp.NewImportHandler(c.ScheduleRepository, c.UnitOfWork, c.EventPublisher, logger)
	c.Queries = scheduleApp.NewQueryService(c.ScheduleRepository, c.ResultCache, logger)

	return c, nil
}

// Close releases every held connection.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("close event publisher", "error", err)
		}
	}
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			c.Logger.Warn("close redis", "error", err)
		}
	}
	if c.sqliteDB != nil {
		if err := c.sqliteDB.Close(); err != nil {
			c.Logger.Warn("close sqlite", "error", err)
		}
	}
	if c.postgresPool != nil {
		c.postgresPool.Close()
	}
}
