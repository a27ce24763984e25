// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/mealsmith/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&gormModels.MealPlanModel{},
		&gormModels.IngredientModel{},
		&gormModels.RecipeModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates the catalog tables from the given source when
// they are empty. Existing catalogs are left untouched.
func SeedDatabase(ctx context.Context, db *gorm.DB, source outbound.CatalogRepository) error {
	var recipeCount int64
	if result := db.WithContext(ctx).Model(&gormModels.RecipeModel{}).Count(&recipeCount); result.Error != nil {
		return result.Error
	}
	if recipeCount > 0 {
		return nil // Already seeded
	}

	snapshot, err := source.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load seed catalog: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ing := range snapshot.Ingredients() {
			if result := tx.Create(gormModels.IngredientToModel(ing)); result.Error != nil {
				return fmt.Errorf("seed ingredient %q: %w", ing.ID, result.Error)
			}
		}
		for _, recipe := range snapshot.Recipes() {
			if result := tx.Create(gormModels.RecipeToModel(recipe)); result.Error != nil {
				return fmt.Errorf("seed recipe %q: %w", recipe.ID, result.Error)
			}
		}
		return nil
	})
}
