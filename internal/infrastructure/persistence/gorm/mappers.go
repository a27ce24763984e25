// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// MealPlanToModel converts a meal plan aggregate to its GORM model
func MealPlanToModel(m *mealplan.MealPlan) *MealPlanModel {
	plan := m.Plan()
	return &MealPlanModel{
		ID:             m.ID(),
		DietProfileID:  plan.DietProfileID,
		Status:         string(m.Status()),
		Seed:           plan.Seed,
		Days:           len(plan.Days),
		MealsPerDay:    plan.MealsPerDay(),
		TargetCalories: plan.Target.Calories,
		Document:       PlanDocument(plan),
		CreatedAt:      m.CreatedAt(),
		UpdatedAt:      m.UpdatedAt(),
	}
}

// ModelToMealPlan converts a GORM model back to the domain aggregate
func ModelToMealPlan(model *MealPlanModel) *mealplan.MealPlan {
	return mealplan.Reconstitute(
		model.ID,
		mealplan.Plan(model.Document),
		mealplan.PlanStatus(model.Status),
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// IngredientToModel converts a catalog ingredient to its GORM model
func IngredientToModel(ing catalog.Ingredient) *IngredientModel {
	return &IngredientModel{
		ID:              ing.ID,
		Name:            ing.Name,
		Category:        string(ing.Category),
		Unit:            string(ing.Unit),
		Tags:            StringSlice(ing.Tags),
		PerUnitCalories: ing.PerUnit.Calories,
		PerUnitProtein:  ing.PerUnit.Protein,
		PerUnitCarbs:    ing.PerUnit.Carbs,
		PerUnitFat:      ing.PerUnit.Fat,
	}
}

// ModelToIngredient converts a GORM model to a catalog ingredient
func ModelToIngredient(model *IngredientModel) catalog.Ingredient {
	return catalog.Ingredient{
		ID:       model.ID,
		Name:     model.Name,
		Category: catalog.IngredientCategory(model.Category),
		Unit:     catalog.MeasurementUnit(model.Unit),
		Tags:     model.Tags,
		PerUnit: nutrition.Profile{
			Calories: model.PerUnitCalories,
			Protein:  model.PerUnitProtein,
			Carbs:    model.PerUnitCarbs,
			Fat:      model.PerUnitFat,
		},
	}
}

// RecipeToModel converts a catalog recipe to its GORM model
func RecipeToModel(r catalog.Recipe) *RecipeModel {
	categories := make(StringSlice, len(r.Categories))
	for i, c := range r.Categories {
		categories[i] = string(c)
	}

	ingredients := make(RecipeIngredientsField, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = RecipeIngredientLine{
			IngredientID: ri.IngredientID,
			Quantity:     ri.Quantity,
			Unit:         string(ri.Unit),
		}
	}

	return &RecipeModel{
		ID:          r.ID,
		Name:        r.Name,
		Categories:  categories,
		Tags:        StringSlice(r.Tags),
		Servings:    r.Servings,
		Calories:    r.Nutrition.Calories,
		Protein:     r.Nutrition.Protein,
		Carbs:       r.Nutrition.Carbs,
		Fat:         r.Nutrition.Fat,
		Ingredients: ingredients,
	}
}

// ModelToRecipe converts a GORM model to a catalog recipe
func ModelToRecipe(model *RecipeModel) catalog.Recipe {
	categories := make([]catalog.MealCategory, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = catalog.MealCategory(c)
	}

	ingredients := make([]catalog.RecipeIngredient, len(model.Ingredients))
	for i, line := range model.Ingredients {
		ingredients[i] = catalog.RecipeIngredient{
			IngredientID: line.IngredientID,
			Quantity:     line.Quantity,
			Unit:         catalog.MeasurementUnit(line.Unit),
		}
	}

	return catalog.Recipe{
		ID:         model.ID,
		Name:       model.Name,
		Categories: categories,
		Tags:       model.Tags,
		Servings:   model.Servings,
		Nutrition: nutrition.Profile{
			Calories: model.Calories,
			Protein:  model.Protein,
			Carbs:    model.Carbs,
			Fat:      model.Fat,
		},
		Ingredients: ingredients,
	}
}
