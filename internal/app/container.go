// Package app wires the application together. The database connection and
// every service handle are constructed here once and passed explicitly,
// with no module-level singletons.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskvault/taskvault/internal/identity/application/auth"
	identityDomain "github.com/taskvault/taskvault/internal/identity/domain"
	identityPersistence "github.com/taskvault/taskvault/internal/identity/infrastructure/persistence"
	insightQueries "github.com/taskvault/taskvault/internal/insights/application/queries"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/cache"
	"github.com/taskvault/taskvault/internal/shared/infrastructure/database"
	_ "github.com/taskvault/taskvault/internal/shared/infrastructure/database/postgres" // register driver
	_ "github.com/taskvault/taskvault/internal/shared/infrastructure/database/sqlite"   // register driver
	"github.com/taskvault/taskvault/internal/tasks/application/commands"
	taskQueries "github.com/taskvault/taskvault/internal/tasks/application/queries"
	"github.com/taskvault/taskvault/internal/tasks/domain/task"
	taskPersistence "github.com/taskvault/taskvault/internal/tasks/infrastructure/persistence"
	"github.com/taskvault/taskvault/pkg/config"
)

// Container holds all constructed application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	Conn  database.Connection
	Cache cache.Cache

	TaskRepo task.Repository
	UserRepo identityDomain.UserRepository

	AuthService *auth.Service

	CreateTask *commands.CreateTaskHandler
	UpdateTask *commands.UpdateTaskHandler
	DeleteTask *commands.DeleteTaskHandler
	ListTasks  *taskQueries.ListTasksHandler

	TaskSummary       *insightQueries.TaskSummaryHandler
	PendingBreakdown  *insightQueries.PendingBreakdownHandler
	PriorityBreakdown *insightQueries.PriorityBreakdownHandler
}

// NewContainer connects to the configured database and builds the full
// dependency graph.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	conn, err := database.NewConnection(ctx, database.Config{
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DBMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		Conn:   conn,
	}

	c.Cache = newCache(cfg, logger)

	switch conn.Driver() {
	case database.DriverPostgres:
		c.TaskRepo = taskPersistence.NewPostgresTaskRepository(conn)
		c.UserRepo = identityPersistence.NewPostgresUserRepository(conn)
	default:
		c.TaskRepo = taskPersistence.NewSQLiteTaskRepository(conn)
		c.UserRepo = identityPersistence.NewSQLiteUserRepository(conn)
	}

	tokenCfg := auth.DefaultTokenConfig()
	if cfg.JWTSecret != "" {
		tokenCfg.Secret = cfg.JWTSecret
	}
	tokenCfg.Issuer = cfg.JWTIssuer
	tokenCfg.AccessTTL = cfg.JWTAccessTTL
	tokenCfg.RefreshTTL = cfg.JWTRefreshTTL
	c.AuthService = auth.NewService(c.UserRepo, auth.NewPasswordHasher(), auth.NewTokenManager(tokenCfg))

	c.CreateTask = commands.NewCreateTaskHandler(c.TaskRepo)
	c.UpdateTask = commands.NewUpdateTaskHandler(c.TaskRepo)
	c.DeleteTask = commands.NewDeleteTaskHandler(c.TaskRepo)
	c.ListTasks = taskQueries.NewListTasksHandler(c.TaskRepo)

	c.TaskSummary = insightQueries.NewTaskSummaryHandler(c.TaskRepo)
	c.PendingBreakdown = insightQueries.NewPendingBreakdownHandler(c.TaskRepo)
	c.PriorityBreakdown = insightQueries.NewPriorityBreakdownHandler(c.TaskRepo)

	return c, nil
}

// newCache wires the Redis cache when configured and falls back to a
// no-op cache otherwise.
func newCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.RedisURL == "" {
		logger.Info("no REDIS_URL configured, statistics caching disabled")
		return cache.NewNoop()
	}

	redisCache, err := cache.NewRedisCache(cfg.RedisURL, "taskvault", cache.DefaultBreakerConfig(), logger)
	if err != nil {
		logger.Warn("failed to configure Redis cache, statistics caching disabled", "error", err)
		return cache.NewNoop()
	}
	return redisCache
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if redisCache, ok := c.Cache.(*cache.RedisCache); ok {
		if err := redisCache.Close(); err != nil {
			c.Logger.Warn("failed to close cache", "error", err)
		}
	}
	return c.Conn.Close()
}
