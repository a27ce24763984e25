package catalog

import "errors"

// Domain errors for catalog reference data

var (
	// Reference data validation errors
	ErrIngredientIDRequired   = errors.New("ingredient id is required")
	ErrIngredientNameRequired = errors.New("ingredient name is required")
	ErrRecipeIDRequired       = errors.New("recipe id is required")
	ErrRecipeNameRequired     = errors.New("recipe name is required")
	ErrNoCategories           = errors.New("recipe must have at least one meal category")
	ErrUnknownMealCategory    = errors.New("unknown meal category")
	ErrInvalidServings        = errors.New("servings must be greater than 0")
	ErrNoIngredients          = errors.New("recipe must have at least one ingredient")
	ErrInvalidQuantity        = errors.New("ingredient quantity must be greater than 0")
	ErrNoCalories             = errors.New("recipe base calories must be greater than 0")
	ErrUnknownUnit            = errors.New("unknown measurement unit")

	// Snapshot integrity errors
	ErrEmptyCatalog        = errors.New("catalog contains no recipes")
	ErrDuplicateRecipe     = errors.New("duplicate recipe id")
	ErrDuplicateIngredient = errors.New("duplicate ingredient id")
	ErrRecipeNotFound      = errors.New("recipe not found in catalog")
	ErrIngredientNotFound  = errors.New("ingredient not found in catalog")
)
