package planning

import (
	"fmt"
	"sort"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
)

// BuildShoppingList merges the scaled ingredient quantities of every
// assignment in the plan. Quantities sharing an ingredient and a unit
// family are converted to the family base unit and summed; quantities in
// incompatible units stay on separate line items rather than being
// guess-converted. The output is sorted by ingredient category then name
// and is safe to recompute idempotently from the same plan.
func BuildShoppingList(plan mealplan.Plan, snap *catalog.Snapshot) ([]mealplan.ShoppingListEntry, error) {
	type lineKey struct {
		ingredientID string
		unit         catalog.MeasurementUnit
	}

	lines := make(map[lineKey]*mealplan.ShoppingListEntry)
	var order []lineKey

	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			recipe, err := snap.Recipe(meal.RecipeID)
			if err != nil {
				return nil, fmt.Errorf("shopping list: %w", err)
			}

			for _, ri := range recipe.Ingredients {
				base, factor, ok := ri.Unit.Canonical()
				if !ok {
					base, factor = ri.Unit, 1
				}
				quantity := ri.Quantity * factor * meal.ScaleFactor

				key := lineKey{ingredientID: ri.IngredientID, unit: base}
				entry, exists := lines[key]
				if !exists {
					ing, err := snap.Ingredient(ri.IngredientID)
					if err != nil {
						return nil, fmt.Errorf("shopping list: %w", err)
					}
					entry = &mealplan.ShoppingListEntry{
						IngredientID: ri.IngredientID,
						Name:         ing.Name,
						Category:     ing.Category,
						Unit:         base,
					}
					lines[key] = entry
					order = append(order, key)
				}

				entry.Quantity += quantity
				entry.References = append(entry.References, mealplan.SlotRef{
					Day:  meal.Slot.Day,
					Meal: meal.Slot.Meal,
				})
			}
		}
	}

	out := make([]mealplan.ShoppingListEntry, 0, len(order))
	for _, key := range order {
		out = append(out, *lines[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return categoryRank(out[i].Category) < categoryRank(out[j].Category)
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Unit < out[j].Unit
	})
	return out, nil
}

// categoryRank orders shopping categories the way a store is laid out.
func categoryRank(c catalog.IngredientCategory) int {
	switch c {
	case catalog.IngredientCategoryProduce:
		return 0
	case catalog.IngredientCategoryProtein:
		return 1
	case catalog.IngredientCategoryDairy:
		return 2
	case catalog.IngredientCategoryGrain:
		return 3
	case catalog.IngredientCategoryPantry:
		return 4
	case catalog.IngredientCategoryFrozen:
		return 5
	default:
		return 6
	}
}
