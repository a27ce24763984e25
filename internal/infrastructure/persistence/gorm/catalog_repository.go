// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// CatalogRepository serves the recipe catalog from the database. The
// snapshot is built on first load and reused for the process lifetime;
// catalog tables only change between deployments.
type CatalogRepository struct {
	db     *gorm.DB
	logger *zap.Logger

	mu       sync.Mutex
	snapshot *catalog.Snapshot
}

// NewCatalogRepository creates a new database-backed catalog repository
func NewCatalogRepository(db *gorm.DB, logger *zap.Logger) *CatalogRepository {
	return &CatalogRepository{
		db:     db,
		logger: logger.Named("catalog-repository"),
	}
}

// LoadSnapshot reads the catalog tables and assembles the immutable
// snapshot, memoizing the result
func (r *CatalogRepository) LoadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil {
		return r.snapshot, nil
	}

	var ingredientModels []IngredientModel
	if result := r.db.WithContext(ctx).Find(&ingredientModels); result.Error != nil {
		return nil, fmt.Errorf("load ingredients: %w", result.Error)
	}

	var recipeModels []RecipeModel
	if result := r.db.WithContext(ctx).Find(&recipeModels); result.Error != nil {
		return nil, fmt.Errorf("load recipes: %w", result.Error)
	}

	ingredients := make([]catalog.Ingredient, len(ingredientModels))
	for i := range ingredientModels {
		ingredients[i] = ModelToIngredient(&ingredientModels[i])
	}

	recipes := make([]catalog.Recipe, len(recipeModels))
	for i := range recipeModels {
		recipes[i] = ModelToRecipe(&recipeModels[i])
	}

	snapshot, err := catalog.NewSnapshot(recipes, ingredients)
	if err != nil {
		return nil, fmt.Errorf("assemble catalog snapshot: %w", err)
	}

	r.logger.Info("Catalog snapshot loaded",
		zap.Int("recipes", len(recipes)),
		zap.Int("ingredients", len(ingredients)))

	r.snapshot = snapshot
	return snapshot, nil
}

// Seed upserts the given snapshot into the catalog tables. Used at
// startup to populate a fresh database from the embedded catalog.
func (r *CatalogRepository) Seed(ctx context.Context, snapshot *catalog.Snapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ing := range snapshot.Ingredients() {
			model := IngredientToModel(ing)
			if result := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model); result.Error != nil {
				return fmt.Errorf("seed ingredient %q: %w", ing.ID, result.Error)
			}
		}
		for _, recipe := range snapshot.Recipes() {
			model := RecipeToModel(recipe)
			if result := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(model); result.Error != nil {
				return fmt.Errorf("seed recipe %q: %w", recipe.ID, result.Error)
			}
		}

		r.logger.Info("Catalog seeded",
			zap.Int("recipes", len(snapshot.Recipes())),
			zap.Int("ingredients", len(snapshot.Ingredients())))
		return nil
	})
}

var _ outbound.CatalogRepository = (*CatalogRepository)(nil)
