package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

func TestBuildShoppingList(t *testing.T) {
	t.Run("GeneratedPlan_ShouldConserveQuantities", func(t *testing.T) {
		// Arrange
		snap := standardCatalog(t)
		engine, err := NewEngine(DefaultParams())
		require.NoError(t, err)
		plan, err := engine.Generate(snap, vegetarianProfile(), Request{
			Calories: 2000, MealsPerDay: 3, Days: 2, Seed: 11,
		})
		require.NoError(t, err)

		// Act
		entries, err := BuildShoppingList(plan, snap)
		require.NoError(t, err)

		// Assert: every line equals the sum of its scaled contributions in
		// the family base unit, and nothing is lost or invented.
		type line struct {
			id   string
			unit catalog.MeasurementUnit
		}
		wantQty := make(map[line]float64)
		wantRefs := make(map[line]int)
		for _, day := range plan.Days {
			for _, meal := range day.Meals {
				r, err := snap.Recipe(meal.RecipeID)
				require.NoError(t, err)
				for _, ri := range r.Ingredients {
					base, factor, ok := ri.Unit.Canonical()
					if !ok {
						base, factor = ri.Unit, 1
					}
					key := line{id: ri.IngredientID, unit: base}
					wantQty[key] += ri.Quantity * factor * meal.ScaleFactor
					wantRefs[key]++
				}
			}
		}

		require.Len(t, entries, len(wantQty))
		for _, e := range entries {
			key := line{id: e.IngredientID, unit: e.Unit}
			assert.InDelta(t, wantQty[key], e.Quantity, 1e-9, "quantity drift for %s", e.IngredientID)
			assert.Len(t, e.References, wantRefs[key], "reference count for %s", e.IngredientID)
			assert.Positive(t, e.Quantity)
		}
	})

	t.Run("GeneratedPlan_ShouldSortByCategoryThenName", func(t *testing.T) {
		snap := standardCatalog(t)
		engine, err := NewEngine(DefaultParams())
		require.NoError(t, err)
		plan, err := engine.Generate(snap, vegetarianProfile(), Request{
			Calories: 2000, MealsPerDay: 3, Days: 2, Seed: 11,
		})
		require.NoError(t, err)

		entries, err := BuildShoppingList(plan, snap)
		require.NoError(t, err)

		require.NotEmpty(t, entries)
		for i := 1; i < len(entries); i++ {
			prev, cur := entries[i-1], entries[i]
			prevRank, curRank := categoryRank(prev.Category), categoryRank(cur.Category)
			assert.LessOrEqual(t, prevRank, curRank)
			if prevRank == curRank {
				assert.LessOrEqual(t, prev.Name, cur.Name)
			}
		}
	})

	t.Run("SamePlanTwice_ShouldProduceIdenticalLists", func(t *testing.T) {
		snap := standardCatalog(t)
		engine, err := NewEngine(DefaultParams())
		require.NoError(t, err)
		plan, err := engine.Generate(snap, vegetarianProfile(), Request{
			Calories: 2000, MealsPerDay: 3, Days: 2, Seed: 11,
		})
		require.NoError(t, err)

		first, err := BuildShoppingList(plan, snap)
		require.NoError(t, err)
		second, err := BuildShoppingList(plan, snap)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("IncompatibleUnits_ShouldStaySeparateLines", func(t *testing.T) {
		// Arrange: butter measured by mass in two recipes and by volume in
		// a third. Mass merges to grams, volume stays its own line.
		dinner := []catalog.MealCategory{catalog.MealCategoryDinner}
		recipes := []catalog.Recipe{
			dish("herb-toast", dinner, 400, balancedMacros, nil, grams("butter", 20)),
			dish("pan-glaze", dinner, 400, balancedMacros, nil,
				catalog.RecipeIngredient{IngredientID: "butter", Quantity: 2, Unit: catalog.MeasurementUnitTablespoon}),
			dish("basted-roast", dinner, 400, balancedMacros, nil,
				catalog.RecipeIngredient{IngredientID: "butter", Quantity: 0.01, Unit: catalog.MeasurementUnitKilogram}),
		}
		snap, err := catalog.NewSnapshot(recipes, fixtureIngredients())
		require.NoError(t, err)

		plan := mealplan.Plan{
			DietProfileID: "balanced",
			MealTargets:   make([]nutrition.Target, 3),
			Days: []mealplan.DayPlan{{
				Day: 0,
				Meals: []mealplan.MealAssignment{
					{Slot: mealplan.MealSlot{Day: 0, Meal: 0, Category: catalog.MealCategoryDinner}, RecipeID: "herb-toast", ScaleFactor: 1},
					{Slot: mealplan.MealSlot{Day: 0, Meal: 1, Category: catalog.MealCategoryDinner}, RecipeID: "pan-glaze", ScaleFactor: 1},
					{Slot: mealplan.MealSlot{Day: 0, Meal: 2, Category: catalog.MealCategoryDinner}, RecipeID: "basted-roast", ScaleFactor: 1},
				},
			}},
		}

		// Act
		entries, err := BuildShoppingList(plan, snap)

		// Assert
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "butter", entries[0].IngredientID)
		assert.Equal(t, catalog.MeasurementUnitGram, entries[0].Unit)
		assert.InDelta(t, 30, entries[0].Quantity, 1e-9) // 20 g + 0.01 kg
		assert.Len(t, entries[0].References, 2)

		assert.Equal(t, "butter", entries[1].IngredientID)
		assert.Equal(t, catalog.MeasurementUnitMilliliter, entries[1].Unit)
		assert.InDelta(t, 2*14.7868, entries[1].Quantity, 1e-9)
		assert.Len(t, entries[1].References, 1)
	})

	t.Run("ScaledAssignment_ShouldScaleQuantities", func(t *testing.T) {
		dinner := []catalog.MealCategory{catalog.MealCategoryDinner}
		recipes := []catalog.Recipe{
			dish("lentil-stew", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
		}
		snap, err := catalog.NewSnapshot(recipes, fixtureIngredients())
		require.NoError(t, err)

		plan := mealplan.Plan{
			MealTargets: make([]nutrition.Target, 1),
			Days: []mealplan.DayPlan{{
				Day: 0,
				Meals: []mealplan.MealAssignment{
					{Slot: mealplan.MealSlot{Day: 0, Meal: 0, Category: catalog.MealCategoryDinner}, RecipeID: "lentil-stew", ScaleFactor: 1.5},
				},
			}},
		}

		entries, err := BuildShoppingList(plan, snap)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.InDelta(t, 150, entries[0].Quantity, 1e-9)
		assert.Equal(t, []mealplan.SlotRef{{Day: 0, Meal: 0}}, entries[0].References)
	})

	t.Run("UnknownRecipeInPlan_ShouldFail", func(t *testing.T) {
		snap := standardCatalog(t)
		plan := mealplan.Plan{
			MealTargets: make([]nutrition.Target, 1),
			Days: []mealplan.DayPlan{{
				Day: 0,
				Meals: []mealplan.MealAssignment{
					{Slot: mealplan.MealSlot{Day: 0, Meal: 0, Category: catalog.MealCategoryDinner}, RecipeID: "ghost-recipe", ScaleFactor: 1},
				},
			}},
		}

		entries, err := BuildShoppingList(plan, snap)

		assert.ErrorIs(t, err, catalog.ErrRecipeNotFound)
		assert.Nil(t, entries)
	})
}
