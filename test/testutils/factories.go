// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// RecipeBuilder provides a fluent interface for building catalog recipes
type RecipeBuilder struct {
	id          string
	name        string
	categories  []catalog.MealCategory
	tags        []string
	servings    int
	ingredients []catalog.RecipeIngredient
	nutrition   nutrition.Profile
}

// NewRecipeBuilder creates a recipe builder with sensible defaults
func NewRecipeBuilder(id string) *RecipeBuilder {
	return &RecipeBuilder{
		id:         id,
		name:       id,
		categories: []catalog.MealCategory{catalog.MealCategoryDinner},
		servings:   1,
		ingredients: []catalog.RecipeIngredient{
			{IngredientID: "test-ingredient", Quantity: 1, Unit: catalog.MeasurementUnitPiece},
		},
		nutrition: nutrition.Profile{Calories: 600, Protein: 30, Carbs: 60, Fat: 20},
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithCategories sets the meal slots the recipe can fill
func (rb *RecipeBuilder) WithCategories(categories ...catalog.MealCategory) *RecipeBuilder {
	rb.categories = categories
	return rb
}

// WithTags sets the recipe exclusion tags
func (rb *RecipeBuilder) WithTags(tags ...string) *RecipeBuilder {
	rb.tags = tags
	return rb
}

// WithServings sets the base yield
func (rb *RecipeBuilder) WithServings(servings int) *RecipeBuilder {
	rb.servings = servings
	return rb
}

// WithIngredients sets the ingredient list
func (rb *RecipeBuilder) WithIngredients(ingredients ...catalog.RecipeIngredient) *RecipeBuilder {
	rb.ingredients = ingredients
	return rb
}

// WithNutrition sets the nutrient totals at base yield
func (rb *RecipeBuilder) WithNutrition(calories, protein, carbs, fat float64) *RecipeBuilder {
	rb.nutrition = nutrition.Profile{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat}
	return rb
}

// Build constructs the recipe
func (rb *RecipeBuilder) Build() catalog.Recipe {
	return catalog.Recipe{
		ID:          rb.id,
		Name:        rb.name,
		Categories:  rb.categories,
		Tags:        rb.tags,
		Servings:    rb.servings,
		Ingredients: rb.ingredients,
		Nutrition:   rb.nutrition,
	}
}

// CatalogFactory creates catalog reference data with seeded fake values
type CatalogFactory struct {
	faker *gofakeit.Faker
	next  int
}

// NewCatalogFactory creates a catalog factory with a seeded faker
func NewCatalogFactory(seed int64) *CatalogFactory {
	return &CatalogFactory{
		faker: gofakeit.New(seed),
	}
}

// CreateIngredient creates an ingredient with fake but valid reference data
func (cf *CatalogFactory) CreateIngredient(tags ...string) catalog.Ingredient {
	cf.next++
	return catalog.Ingredient{
		ID:       fmt.Sprintf("ingredient-%d", cf.next),
		Name:     cf.faker.Vegetable(),
		Category: catalog.IngredientCategoryProduce,
		Unit:     catalog.MeasurementUnitGram,
		PerUnit: nutrition.Profile{
			Calories: cf.faker.Float64Range(0.5, 5),
			Protein:  cf.faker.Float64Range(0.01, 0.3),
			Carbs:    cf.faker.Float64Range(0.05, 0.8),
			Fat:      cf.faker.Float64Range(0.01, 0.2),
		},
		Tags: tags,
	}
}

// CreateRecipe creates a recipe in the given category referencing the
// given ingredients
func (cf *CatalogFactory) CreateRecipe(category catalog.MealCategory, ingredients ...catalog.Ingredient) catalog.Recipe {
	cf.next++

	refs := make([]catalog.RecipeIngredient, 0, len(ingredients))
	tags := []string{}
	for _, ing := range ingredients {
		refs = append(refs, catalog.RecipeIngredient{
			IngredientID: ing.ID,
			Quantity:     cf.faker.Float64Range(50, 250),
			Unit:         ing.Unit,
		})
		tags = append(tags, ing.Tags...)
	}

	return catalog.Recipe{
		ID:          fmt.Sprintf("recipe-%d", cf.next),
		Name:        cf.faker.Dinner(),
		Categories:  []catalog.MealCategory{category},
		Tags:        tags,
		Servings:    1,
		Ingredients: refs,
		Nutrition: nutrition.Profile{
			Calories: cf.faker.Float64Range(300, 900),
			Protein:  cf.faker.Float64Range(10, 60),
			Carbs:    cf.faker.Float64Range(20, 100),
			Fat:      cf.faker.Float64Range(5, 40),
		},
	}
}

// CreateSnapshot builds a snapshot with enough recipes in every category
// to survive the repeat-limit rules over a week-long horizon
func (cf *CatalogFactory) CreateSnapshot(recipesPerCategory int) (*catalog.Snapshot, error) {
	ingredients := make([]catalog.Ingredient, 0)
	recipes := make([]catalog.Recipe, 0)

	for _, category := range catalog.AllMealCategories() {
		for i := 0; i < recipesPerCategory; i++ {
			ing := cf.CreateIngredient()
			ingredients = append(ingredients, ing)
			recipes = append(recipes, cf.CreateRecipe(category, ing))
		}
	}

	return catalog.NewSnapshot(recipes, ingredients)
}

// ProfileFactory creates diet profiles for tests
type ProfileFactory struct{}

// CreateBalanced creates an unrestricted profile with an even macro split
func (ProfileFactory) CreateBalanced() diet.Profile {
	return diet.Profile{
		ID:   "balanced",
		Name: "Balanced",
		Macros: nutrition.MacroSplit{
			Protein: 0.30,
			Carbs:   0.40,
			Fat:     0.30,
		},
	}
}

// CreateRestricted creates a profile that excludes the given tags
func (ProfileFactory) CreateRestricted(id string, excluded ...string) diet.Profile {
	return diet.Profile{
		ID:   id,
		Name: id,
		Macros: nutrition.MacroSplit{
			Protein: 0.30,
			Carbs:   0.40,
			Fat:     0.30,
		},
		ExcludedTags: excluded,
	}
}

// Cleanup provides cleanup utilities for tests
type Cleanup struct {
	funcs []func()
}

// NewCleanup creates a new cleanup helper
func NewCleanup() *Cleanup {
	return &Cleanup{
		funcs: make([]func(), 0),
	}
}

// Add adds a cleanup function
func (c *Cleanup) Add(f func()) {
	c.funcs = append(c.funcs, f)
}

// Execute runs all cleanup functions in reverse order
func (c *Cleanup) Execute() {
	for i := len(c.funcs) - 1; i >= 0; i-- {
		c.funcs[i]()
	}
}

// TestHelper bundles the factories with a shared seed
type TestHelper struct {
	Catalog  *CatalogFactory
	Profiles ProfileFactory
	cleanup  *Cleanup
}

// NewTestHelper creates a test helper seeded from the current time
func NewTestHelper() *TestHelper {
	return &TestHelper{
		Catalog: NewCatalogFactory(time.Now().UnixNano()),
		cleanup: NewCleanup(),
	}
}

// Cleanup returns the cleanup helper
func (h *TestHelper) Cleanup() *Cleanup {
	return h.cleanup
}
