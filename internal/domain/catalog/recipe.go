// Package catalog holds the recipe catalog reference data: ingredients,
// recipes, and the immutable snapshot the planner reads from. Reference
// data is loaded once at startup and shared read-only across requests.
package catalog

import (
	"fmt"

	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// MealCategory is the meal slot a recipe can fill.
type MealCategory string

const (
	MealCategoryBreakfast MealCategory = "breakfast"
	MealCategoryLunch     MealCategory = "lunch"
	MealCategoryDinner    MealCategory = "dinner"
	MealCategorySnack     MealCategory = "snack"
)

// AllMealCategories lists every valid category in presentation order.
func AllMealCategories() []MealCategory {
	return []MealCategory{
		MealCategoryBreakfast,
		MealCategoryLunch,
		MealCategoryDinner,
		MealCategorySnack,
	}
}

// ParseMealCategory validates a raw category string.
func ParseMealCategory(raw string) (MealCategory, error) {
	switch MealCategory(raw) {
	case MealCategoryBreakfast, MealCategoryLunch, MealCategoryDinner, MealCategorySnack:
		return MealCategory(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMealCategory, raw)
}

// RecipeIngredient is one (ingredient, quantity) pair of a recipe. The
// quantity is expressed in the given unit, which may differ from the
// ingredient's own reference unit and may even belong to a different
// unit family; aggregation never converts across families.
type RecipeIngredient struct {
	IngredientID string
	Quantity     float64
	Unit         MeasurementUnit
}

// Validate validates the pair.
func (ri RecipeIngredient) Validate() error {
	if ri.IngredientID == "" {
		return ErrIngredientIDRequired
	}
	if ri.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if _, ok := ri.Unit.family(); !ok {
		return ErrUnknownUnit
	}
	return nil
}

// Recipe is immutable reference data: a dish with its ingredient list, the
// precomputed nutrient totals at base yield, the meal categories it can
// fill, and the tag set used for exclusion matching (the union of its
// ingredients' tags plus recipe-level tags such as "vegan").
type Recipe struct {
	ID          string
	Name        string
	Categories  []MealCategory
	Tags        []string
	Servings    int
	Ingredients []RecipeIngredient
	Nutrition   nutrition.Profile // totals at base yield
}

// Validate validates the recipe reference data.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return ErrRecipeIDRequired
	}
	if r.Name == "" {
		return ErrRecipeNameRequired
	}
	if len(r.Categories) == 0 {
		return ErrNoCategories
	}
	for _, c := range r.Categories {
		if _, err := ParseMealCategory(string(c)); err != nil {
			return err
		}
	}
	if r.Servings <= 0 {
		return ErrInvalidServings
	}
	if len(r.Ingredients) == 0 {
		return ErrNoIngredients
	}
	for _, ri := range r.Ingredients {
		if err := ri.Validate(); err != nil {
			return fmt.Errorf("ingredient %q: %w", ri.IngredientID, err)
		}
	}
	if r.Nutrition.Calories <= 0 {
		return ErrNoCalories
	}
	return nil
}

// InCategory reports whether the recipe can fill the given meal slot.
func (r Recipe) InCategory(category MealCategory) bool {
	for _, c := range r.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the recipe's tag set intersects the given set.
func (r Recipe) HasAnyTag(excluded TagSet) bool {
	return excluded.IntersectsAny(r.Tags)
}
