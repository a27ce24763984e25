// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mealsmith/v2/internal/domain/planning"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Planner    PlannerConfig    `mapstructure:"planner"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	EnableCORS      bool          `mapstructure:"enable_cors"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver             string        `mapstructure:"driver"`
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Database           string        `mapstructure:"database"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	SSLMode            string        `mapstructure:"ssl_mode"`
	MaxOpenConns       int           `mapstructure:"max_open_conns"`
	MaxIdleConns       int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `mapstructure:"conn_max_idle_time"`
	LogLevel           string        `mapstructure:"log_level"`
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	AutoMigrate        bool          `mapstructure:"auto_migrate"`
	ReadReplicas       []string      `mapstructure:"read_replicas"`
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

// CatalogConfig controls where recipe and diet reference data comes from.
// The embedded source ships a curated catalog inside the binary; the file
// source points at external YAML documents of the same shape.
type CatalogConfig struct {
	Source      string `mapstructure:"source"`
	RecipesPath string `mapstructure:"recipes_path"`
	DietsPath   string `mapstructure:"diets_path"`
}

// PlannerConfig exposes the generation tunables. Every field maps onto
// one knob of the planning engine; unset fields fall back to the engine
// defaults so a partial config section stays valid. RepeatWindowDays and
// MaxOccurrences accept an explicit zero, which disables their rule.
type PlannerConfig struct {
	MinCalories    int `mapstructure:"min_calories"`
	MaxCalories    int `mapstructure:"max_calories"`
	MinMealsPerDay int `mapstructure:"min_meals_per_day"`
	MaxMealsPerDay int `mapstructure:"max_meals_per_day"`
	MinDays        int `mapstructure:"min_days"`
	MaxDays        int `mapstructure:"max_days"`

	MealTolerance  float64 `mapstructure:"meal_tolerance"`
	DayTolerance   float64 `mapstructure:"day_tolerance"`
	MacroTolerance float64 `mapstructure:"macro_tolerance"`

	MinScale float64 `mapstructure:"min_scale"`
	MaxScale float64 `mapstructure:"max_scale"`

	RepeatWindowDays int `mapstructure:"repeat_window_days"`
	MaxOccurrences   int `mapstructure:"max_occurrences"`

	TopK          int     `mapstructure:"top_k"`
	ScaleWeight   float64 `mapstructure:"scale_weight"`
	CalorieWeight float64 `mapstructure:"calorie_weight"`
	MacroWeight   float64 `mapstructure:"macro_weight"`
	UsageWeight   float64 `mapstructure:"usage_weight"`

	MaxFlaggedFraction float64 `mapstructure:"max_flagged_fraction"`
}

// Params resolves the configured tunables against the engine defaults.
// Meal patterns are not configurable; the built-in pattern table applies.
func (p PlannerConfig) Params() planning.Params {
	params := planning.DefaultParams()

	if p.MinCalories > 0 {
		params.MinCalories = p.MinCalories
	}
	if p.MaxCalories > 0 {
		params.MaxCalories = p.MaxCalories
	}
	if p.MinMealsPerDay > 0 {
		params.MinMealsPerDay = p.MinMealsPerDay
	}
	if p.MaxMealsPerDay > 0 {
		params.MaxMealsPerDay = p.MaxMealsPerDay
	}
	if p.MinDays > 0 {
		params.MinDays = p.MinDays
	}
	if p.MaxDays > 0 {
		params.MaxDays = p.MaxDays
	}
	if p.MealTolerance > 0 {
		params.MealTolerance = p.MealTolerance
	}
	if p.DayTolerance > 0 {
		params.DayTolerance = p.DayTolerance
	}
	if p.MacroTolerance > 0 {
		params.MacroTolerance = p.MacroTolerance
	}
	if p.MinScale > 0 {
		params.MinScale = p.MinScale
	}
	if p.MaxScale > 0 {
		params.MaxScale = p.MaxScale
	}
	if p.RepeatWindowDays >= 0 {
		params.RepeatWindowDays = p.RepeatWindowDays
	}
	if p.MaxOccurrences >= 0 {
		params.MaxOccurrences = p.MaxOccurrences
	}
	if p.TopK > 0 {
		params.TopK = p.TopK
	}
	if p.ScaleWeight > 0 {
		params.ScaleWeight = p.ScaleWeight
	}
	if p.CalorieWeight > 0 {
		params.CalorieWeight = p.CalorieWeight
	}
	if p.MacroWeight > 0 {
		params.MacroWeight = p.MacroWeight
	}
	if p.UsageWeight > 0 {
		params.UsageWeight = p.UsageWeight
	}
	if p.MaxFlaggedFraction > 0 {
		params.MaxFlaggedFraction = p.MaxFlaggedFraction
	}

	return params
}

// MonitoringConfig contains monitoring configuration
type MonitoringConfig struct {
	EnableMetrics   bool    `mapstructure:"enable_metrics"`
	MetricsPort     int     `mapstructure:"metrics_port"`
	EnableTracing   bool    `mapstructure:"enable_tracing"`
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	SamplingRate    float64 `mapstructure:"sampling_rate"`
	HealthCheckPath string  `mapstructure:"health_check_path"`
	ReadinessPath   string  `mapstructure:"readiness_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/mealsmith")
	}

	// Enable environment variable override
	v.SetEnvPrefix("MEALSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Unmarshal configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "MealSmith")
	v.SetDefault("app.version", "2.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.max_header_bytes", 1<<20) // 1MB
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.enable_cors", true)

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "mealsmith.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("database.slow_query_threshold", "100ms")
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)

	// Catalog defaults
	v.SetDefault("catalog.source", "embedded")

	// Planner defaults mirror the engine defaults; listing them here
	// makes the knobs discoverable in generated config files
	v.SetDefault("planner.min_calories", 800)
	v.SetDefault("planner.max_calories", 6000)
	v.SetDefault("planner.min_meals_per_day", 1)
	v.SetDefault("planner.max_meals_per_day", 6)
	v.SetDefault("planner.min_days", 1)
	v.SetDefault("planner.max_days", 30)
	v.SetDefault("planner.meal_tolerance", 0.10)
	v.SetDefault("planner.day_tolerance", 0.12)
	v.SetDefault("planner.macro_tolerance", 0.35)
	v.SetDefault("planner.min_scale", 0.5)
	v.SetDefault("planner.max_scale", 2.5)
	v.SetDefault("planner.repeat_window_days", 3)
	v.SetDefault("planner.max_occurrences", 3)
	v.SetDefault("planner.top_k", 3)
	v.SetDefault("planner.scale_weight", 1.0)
	v.SetDefault("planner.calorie_weight", 2.0)
	v.SetDefault("planner.macro_weight", 1.0)
	v.SetDefault("planner.usage_weight", 0.5)
	v.SetDefault("planner.max_flagged_fraction", 0.15)

	// Monitoring defaults
	v.SetDefault("monitoring.enable_metrics", true)
	v.SetDefault("monitoring.metrics_port", 9090)
	v.SetDefault("monitoring.sampling_rate", 0.1)
	v.SetDefault("monitoring.health_check_path", "/health")
	v.SetDefault("monitoring.readiness_path", "/ready")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate required fields
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	switch c.Catalog.Source {
	case "embedded":
	case "file":
		if c.Catalog.RecipesPath == "" || c.Catalog.DietsPath == "" {
			return fmt.Errorf("catalog.recipes_path and catalog.diets_path are required for the file source")
		}
	default:
		return fmt.Errorf("catalog.source must be embedded or file, got %q", c.Catalog.Source)
	}

	// Validate port ranges
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Validate planner tunables
	if err := c.Planner.Params().Validate(); err != nil {
		return fmt.Errorf("planner: %w", err)
	}

	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Database
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}
