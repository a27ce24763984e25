// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/mealsmith/v2/internal/infrastructure/config"
)

// ConnectionManager manages the PostgreSQL connection with pooling and
// optional read replicas
type ConnectionManager struct {
	config  *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	writeDB *sql.DB
}

// NewConnectionManager opens the primary connection, configures the
// pool, and registers read replicas when the config lists any
func NewConnectionManager(cfg *config.Config, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("postgres"),
	}

	if err := cm.initializePrimaryConnection(); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(); err != nil {
		log.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	log.Info("Database connection manager initialized",
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
		zap.Duration("conn_max_lifetime", cfg.Database.ConnMaxLifetime),
	)

	return cm, nil
}

func (cm *ConnectionManager) initializePrimaryConnection() error {
	db, err := gorm.Open(postgres.Open(cm.config.GetDSN()), &gorm.Config{
		Logger:                 cm.createGORMLogger(),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cm.config.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cm.config.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cm.config.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cm.config.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB
	return nil
}

func (cm *ConnectionManager) initializeReadReplicas() error {
	hosts := cm.config.Database.ReadReplicas
	if len(hosts) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(hosts))
	for i, host := range hosts {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			host,
			cm.config.Database.Port,
			cm.config.Database.Username,
			cm.config.Database.Password,
			cm.config.Database.Database,
			cm.config.Database.SSLMode,
		)
		replicas[i] = postgres.Open(dsn)
	}

	err := cm.db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RoundRobinPolicy(),
	}))
	if err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", len(hosts)))
	return nil
}

func (cm *ConnectionManager) createGORMLogger() logger.Interface {
	logLevel := logger.Warn
	switch cm.config.Database.LogLevel {
	case "debug":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	case "silent":
		logLevel = logger.Silent
	}

	slowThreshold := cm.config.Database.SlowQueryThreshold
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	return logger.New(
		zap.NewStdLog(cm.logger),
		logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// GetDB returns the main database connection
func (cm *ConnectionManager) GetDB() *gorm.DB {
	return cm.db
}

// HealthCheck pings the primary connection
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	return cm.writeDB.Close()
}
