// Package dataplane loads the recipe catalog and diet profile reference
// data from YAML documents. A curated default set ships embedded in the
// binary; deployments point the catalog config at external files of the
// same shape to override it. Loaded data is validated and served as
// immutable in-memory snapshots implementing the outbound ports.
package dataplane

import (
	"fmt"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// catalogDocument is the YAML shape of a catalog file.
type catalogDocument struct {
	Ingredients []ingredientDocument `yaml:"ingredients"`
	Recipes     []recipeDocument     `yaml:"recipes"`
}

type ingredientDocument struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Category string            `yaml:"category"`
	Unit     string            `yaml:"unit"`
	PerUnit  nutrientsDocument `yaml:"per_unit"`
	Tags     []string          `yaml:"tags"`
}

type recipeDocument struct {
	ID          string                     `yaml:"id"`
	Name        string                     `yaml:"name"`
	Categories  []string                   `yaml:"categories"`
	Tags        []string                   `yaml:"tags"`
	Servings    int                        `yaml:"servings"`
	Nutrition   nutrientsDocument          `yaml:"nutrition"`
	Ingredients []recipeIngredientDocument `yaml:"ingredients"`
}

type recipeIngredientDocument struct {
	Ingredient string  `yaml:"ingredient"`
	Quantity   float64 `yaml:"quantity"`
	Unit       string  `yaml:"unit"`
}

type nutrientsDocument struct {
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

// dietsDocument is the YAML shape of a diets file.
type dietsDocument struct {
	Profiles []diet.Profile `yaml:"profiles"`
}

func (d nutrientsDocument) toProfile() nutrition.Profile {
	return nutrition.Profile{
		Calories: d.Calories,
		Protein:  d.Protein,
		Carbs:    d.Carbs,
		Fat:      d.Fat,
	}
}

func (d ingredientDocument) toIngredient() catalog.Ingredient {
	return catalog.Ingredient{
		ID:       d.ID,
		Name:     d.Name,
		Category: catalog.IngredientCategory(d.Category),
		Unit:     catalog.MeasurementUnit(d.Unit),
		PerUnit:  d.PerUnit.toProfile(),
		Tags:     d.Tags,
	}
}

func (d recipeDocument) toRecipe() (catalog.Recipe, error) {
	categories := make([]catalog.MealCategory, len(d.Categories))
	for i, raw := range d.Categories {
		c, err := catalog.ParseMealCategory(raw)
		if err != nil {
			return catalog.Recipe{}, fmt.Errorf("recipe %q: %w", d.ID, err)
		}
		categories[i] = c
	}

	ingredients := make([]catalog.RecipeIngredient, len(d.Ingredients))
	for i, line := range d.Ingredients {
		ingredients[i] = catalog.RecipeIngredient{
			IngredientID: line.Ingredient,
			Quantity:     line.Quantity,
			Unit:         catalog.MeasurementUnit(line.Unit),
		}
	}

	return catalog.Recipe{
		ID:          d.ID,
		Name:        d.Name,
		Categories:  categories,
		Tags:        d.Tags,
		Servings:    d.Servings,
		Nutrition:   d.Nutrition.toProfile(),
		Ingredients: ingredients,
	}, nil
}
