// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mealsmith/v2/internal/application/planner"
	"github.com/mealsmith/v2/internal/infrastructure/cache"
	"github.com/mealsmith/v2/internal/infrastructure/config"
	"github.com/mealsmith/v2/internal/infrastructure/dataplane"
	"github.com/mealsmith/v2/internal/infrastructure/http/apiserver"
	"github.com/mealsmith/v2/internal/infrastructure/messaging"
	"github.com/mealsmith/v2/internal/infrastructure/monitoring"
	gormRepo "github.com/mealsmith/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/memory"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/postgres"
	redisRepo "github.com/mealsmith/v2/internal/infrastructure/persistence/redis"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/sqlite"
	"github.com/mealsmith/v2/internal/ports/inbound"
	"github.com/mealsmith/v2/internal/ports/outbound"
	"github.com/mealsmith/v2/pkg/healthcheck"
	"github.com/mealsmith/v2/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	CatalogModule,
	MessagingModule,
	MonitoringModule,

	// Repository modules
	RepositoryModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
	LifecycleModule,
)

// ConfigModule provides configuration and the reload watcher
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load(os.Getenv("MEALSMITH_CONFIG"))
	},
	func(cfg *config.Config, log *zap.Logger) *config.Watcher {
		return config.NewWatcher(os.Getenv("MEALSMITH_CONFIG"), cfg, log)
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
	func(log *zap.Logger) *zap.SugaredLogger {
		return log.Sugar()
	},
)

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		switch cfg.Database.Driver {
		case "postgres":
			manager, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
			}

			db := manager.GetDB()
			if cfg.Database.AutoMigrate {
				if err := db.AutoMigrate(
					&gormRepo.MealPlanModel{},
					&gormRepo.IngredientModel{},
					&gormRepo.RecipeModel{},
				); err != nil {
					return nil, fmt.Errorf("failed to migrate database: %w", err)
				}
			}
			return db, nil

		default:
			dbPath := ":memory:"
			if cfg.Database.Database != "" {
				dbPath = cfg.Database.Database + ".db"
			}

			logLevel := gormLogger.Silent
			if cfg.App.Debug {
				logLevel = gormLogger.Info
			}

			db, err := sqlite.SetupDatabase(dbPath, logLevel)
			if err != nil {
				return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
			}

			log.Info("Connected to SQLite database",
				zap.String("path", dbPath),
				zap.Bool("in_memory", dbPath == ":memory:"),
			)
			return db, nil
		}
	},
)

// CacheModule provides caching. The cache client is nil when Redis is
// disabled and the repository falls back to the in-process store.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) *cache.RedisClient {
		if !cfg.Redis.Enabled {
			return nil
		}
		return cache.NewRedisClient(cfg.Redis, log)
	},
	func(client *cache.RedisClient, log *zap.Logger) outbound.CacheRepository {
		if client == nil {
			log.Info("Redis disabled, using in-memory cache")
			return memory.NewCacheRepository()
		}
		return redisRepo.NewCacheRepository(client, log)
	},
)

// CatalogModule provides the embedded catalog store. The store backs
// diet profile resolution directly and seeds the database catalog.
var CatalogModule = fx.Provide(
	func(cfg *config.Config) (*dataplane.Store, error) {
		return dataplane.Load(context.Background(), cfg.Catalog)
	},
	func(store *dataplane.Store) outbound.DietProfileRegistry {
		return store
	},
)

// MessagingModule provides the in-process event bus
var MessagingModule = fx.Provide(
	func(log *zap.Logger) outbound.MessageBus {
		return messaging.NewInProcessBus(log)
	},
)

// MonitoringModule provides metrics, tracing, and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(collector *monitoring.MetricsCollector) outbound.PlannerMetrics {
		return collector
	},
	monitoring.NewTracingProvider,
	NewHealthCheck,
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	func(db *gorm.DB, log *zap.Logger) outbound.CatalogRepository {
		return gormRepo.NewCatalogRepository(db, log)
	},
	gormRepo.NewMealPlanRepository,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		catalogRepo outbound.CatalogRepository,
		registry outbound.DietProfileRegistry,
		planRepo outbound.MealPlanRepository,
		cacheRepo outbound.CacheRepository,
		events outbound.MessageBus,
		metrics outbound.PlannerMetrics,
		watcher *config.Watcher,
		log *zap.Logger,
	) inbound.PlannerService {
		return planner.NewPlannerService(
			catalogRepo,
			registry,
			planRepo,
			cacheRepo,
			events,
			metrics,
			watcher.Params,
			log,
		)
	},
)

// HTTPModule provides the API server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// NewHealthCheck builds the health check registry with checkers for
// every dependency the process actually uses.
func NewHealthCheck(
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	client *cache.RedisClient,
	store *dataplane.Store,
) (*healthcheck.HealthCheck, error) {
	hc := healthcheck.New(cfg.App.Version, log)

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle unavailable: %w", err)
	}
	hc.Register("database", healthcheck.NewDatabaseChecker(sqlDB))

	if client != nil {
		hc.Register("redis", healthcheck.NewRedisChecker(client.Client()))
	}

	hc.Register("catalog", healthcheck.NewCustomChecker("catalog", func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		count := store.RecipeCount()
		if count == 0 {
			return healthcheck.StatusUnhealthy, "Recipe catalog is empty", nil
		}
		return healthcheck.StatusHealthy, "Recipe catalog is loaded", map[string]interface{}{
			"recipes": count,
		}
	}))

	return hc, nil
}

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	client *cache.RedisClient,
	store *dataplane.Store,
	watcher *config.Watcher,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
	server *apiserver.APIServer,
) {
	// Outlives the OnStart context; canceled when the app stops
	runCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Mealsmith application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if client != nil {
				if err := client.Ping(ctx); err != nil {
					return fmt.Errorf("redis ping failed: %w", err)
				}
			}

			if err := sqlite.SeedDatabase(ctx, db, store); err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}

			metrics.CatalogLoaded(store.RecipeCount(), store.IngredientCount())

			if err := watcher.Start(runCtx); err != nil {
				log.Warn("Config reload disabled", zap.Error(err))
			}

			go func() {
				if err := server.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Mealsmith application")
			cancel()

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := tracing.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown tracing", zap.Error(err))
			}

			if client != nil {
				if err := client.Close(); err != nil {
					log.Error("Failed to close Redis connection", zap.Error(err))
				}
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
