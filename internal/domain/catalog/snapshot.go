package catalog

import "fmt"

// Snapshot is the read-only view over the catalog the planner works
// against. It is built once from loaded reference data, checks referential
// integrity between recipes and ingredients, and is safe for
// unsynchronized concurrent reads.
type Snapshot struct {
	recipes     []Recipe
	recipeIndex map[string]int
	ingredients map[string]Ingredient
}

// NewSnapshot validates the reference data and builds the immutable view.
// Recipe order is preserved so downstream selection stays deterministic.
func NewSnapshot(recipes []Recipe, ingredients []Ingredient) (*Snapshot, error) {
	if len(recipes) == 0 {
		return nil, ErrEmptyCatalog
	}

	ingredientIndex := make(map[string]Ingredient, len(ingredients))
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", ing.ID, err)
		}
		if _, exists := ingredientIndex[ing.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIngredient, ing.ID)
		}
		ingredientIndex[ing.ID] = ing
	}

	recipeIndex := make(map[string]int, len(recipes))
	for i, r := range recipes {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		if _, exists := recipeIndex[r.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRecipe, r.ID)
		}
		// Recipes may measure an ingredient in any known unit, including a
		// different family than the ingredient's reference unit; the
		// shopping aggregator keeps such quantities on separate line items.
		for _, ri := range r.Ingredients {
			if _, ok := ingredientIndex[ri.IngredientID]; !ok {
				return nil, fmt.Errorf("recipe %q: %w: %q", r.ID, ErrIngredientNotFound, ri.IngredientID)
			}
		}
		recipeIndex[r.ID] = i
	}

	return &Snapshot{
		recipes:     recipes,
		recipeIndex: recipeIndex,
		ingredients: ingredientIndex,
	}, nil
}

// Recipes returns all recipes in load order. Callers must not mutate the
// returned slice.
func (s *Snapshot) Recipes() []Recipe {
	return s.recipes
}

// Recipe looks a recipe up by id.
func (s *Snapshot) Recipe(id string) (Recipe, error) {
	i, ok := s.recipeIndex[id]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, id)
	}
	return s.recipes[i], nil
}

// Ingredient looks an ingredient up by id.
func (s *Snapshot) Ingredient(id string) (Ingredient, error) {
	ing, ok := s.ingredients[id]
	if !ok {
		return Ingredient{}, fmt.Errorf("%w: %q", ErrIngredientNotFound, id)
	}
	return ing, nil
}

// Ingredients returns the ingredient index. Callers must not mutate it.
func (s *Snapshot) Ingredients() map[string]Ingredient {
	return s.ingredients
}

// Len returns the number of recipes in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.recipes)
}
