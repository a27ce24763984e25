// testcontainers-backed database setup for integration tests
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mealsmith/v2/internal/infrastructure/persistence/migrations"
)

// TestDatabase provides a containerized database instance with cleanup
type TestDatabase struct {
	Container testcontainers.Container
	DB        *sql.DB
	GormDB    *gorm.DB
	DSN       string
	t         *testing.T
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "mealsmith_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// SetupTestDatabase creates a new test database using testcontainers
func SetupTestDatabase(t *testing.T) *TestDatabase {
	return SetupTestDatabaseWithConfig(t, DefaultDatabaseConfig())
}

// SetupTestDatabaseWithConfig creates a test database with custom configuration
func SetupTestDatabaseWithConfig(t *testing.T, cfg DatabaseConfig) *TestDatabase {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        cfg.Image,
				ExposedPorts: []string{cfg.Port + "/tcp"},
				Env: map[string]string{
					"POSTGRES_DB":               cfg.Database,
					"POSTGRES_USER":             cfg.Username,
					"POSTGRES_PASSWORD":         cfg.Password,
					"POSTGRES_HOST_AUTH_METHOD": "trust",
				},
				WaitingFor: wait.ForAll(
					wait.ForLog("database system is ready to accept connections").
						WithOccurrence(2).
						WithStartupTimeout(60*time.Second),
					wait.ForSQL(nat.Port(cfg.Port+"/tcp"), "pgx", func(host string, port nat.Port) string {
						return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
							cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
					}),
				),
				Tmpfs: map[string]string{
					"/var/lib/postgresql/data": "rw,noexec,nosuid,size=1024m",
				},
			},
			Started: true,
		})
	require.NoError(t, err, "Failed to start postgres container")

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, nat.Port(cfg.Port))
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.Username, cfg.Password, host, port.Port(), cfg.Database)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "Failed to connect to test database")

	err = db.Ping()
	require.NoError(t, err, "Failed to ping test database")

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Suppress logs in tests
	})
	require.NoError(t, err, "Failed to create GORM connection")

	testDB := &TestDatabase{
		Container: container,
		DB:        db,
		GormDB:    gormDB,
		DSN:       dsn,
		t:         t,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// RunMigrations applies the embedded schema migrations
func (td *TestDatabase) RunMigrations() error {
	migrator, err := migrations.New(td.DB, zaptest.NewLogger(td.t))
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator.Up()
}

// TruncateAllTables removes all data from tables while preserving structure
func (td *TestDatabase) TruncateAllTables() error {
	tables := []string{
		"meal_plans",
		"catalog_recipes",
		"catalog_ingredients",
	}

	for _, table := range tables {
		_, err := td.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return nil
}

// Cleanup closes all connections and stops the container
func (td *TestDatabase) Cleanup() {
	ctx := context.Background()

	if td.DB != nil {
		td.DB.Close()
	}

	if td.Container != nil {
		if err := td.Container.Terminate(ctx); err != nil {
			td.t.Logf("Failed to terminate postgres container: %v", err)
		}
	}
}
