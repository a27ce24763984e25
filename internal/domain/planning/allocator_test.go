package planning

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

func dinnerPattern() MealPattern {
	return MealPattern{{Category: catalog.MealCategoryDinner, Weight: 1.0}}
}

func dinnerTarget(calories float64, params Params) []nutrition.Target {
	return []nutrition.Target{
		nutrition.NewTarget(balancedMacros.Grams(calories), params.MealTolerance, params.MacroTolerance),
	}
}

func dinnerPool(recipes ...catalog.Recipe) Candidates {
	return FilterCatalog(recipes, balancedProfile(), nil)
}

func TestAllocator(t *testing.T) {
	dinner := []catalog.MealCategory{catalog.MealCategoryDinner}

	t.Run("RepeatWindow_ShouldRotateRecipes", func(t *testing.T) {
		// Arrange: four interchangeable candidates, six single-meal days.
		params := DefaultParams()
		pool := dinnerPool(
			dish("chili-a", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
			dish("chili-b", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
			dish("chili-c", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
			dish("chili-d", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 3)

		// Act
		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(600, params), 6)

		// Assert: no recipe reappears inside the repeat window.
		require.Len(t, out, 6)
		for i := range out {
			for j := i + 1; j < len(out) && j-i < params.RepeatWindowDays; j++ {
				assert.NotEqual(t, out[i].RecipeID, out[j].RecipeID,
					"days %d and %d reuse a recipe inside the window", i, j)
			}
		}
	})

	t.Run("OccurrenceCap_ShouldForceAlternative", func(t *testing.T) {
		// Arrange: scoring always prefers the exact match, so without the
		// cap it would fill every day.
		params := DefaultParams()
		params.RepeatWindowDays = 0
		params.MaxOccurrences = 2
		params.TopK = 1
		params.UsageWeight = 0
		pool := dinnerPool(
			dish("exact-match", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
			dish("runner-up", dinner, 720, balancedMacros, nil, grams("lentils", 100)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 1)

		// Act
		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(600, params), 4)

		// Assert
		require.Len(t, out, 4)
		assert.Equal(t, "exact-match", out[0].RecipeID)
		assert.Equal(t, "exact-match", out[1].RecipeID)
		assert.Equal(t, "runner-up", out[2].RecipeID)
		assert.Equal(t, "runner-up", out[3].RecipeID)
	})

	t.Run("NothingFits_ShouldRelaxSlot", func(t *testing.T) {
		// Arrange: the only candidate needs scale 0.43 for a 500 kcal slot,
		// the clamp leaves it 15% over the meal band.
		params := DefaultParams()
		pool := dinnerPool(
			dish("banquet-roast", dinner, 1150, balancedMacros, nil, grams("beef-mince", 400)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 9)

		// Act
		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(500, params), 1)

		// Assert
		require.Len(t, out, 1)
		assert.True(t, out[0].Relaxed)
		assert.InDelta(t, params.MinScale, out[0].ScaleFactor, 1e-9)
		assert.InDelta(t, 1150*params.MinScale, out[0].Nutrition.Calories, 1e-9)
	})

	t.Run("ClampWithinBand_ShouldNotRelax", func(t *testing.T) {
		// A 300 kcal dish stretched to the upper scale bound lands at
		// 750 kcal, inside the 10% band around 800.
		params := DefaultParams()
		pool := dinnerPool(
			dish("side-salad", dinner, 300, balancedMacros, nil, grams("spinach", 200)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 9)

		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(800, params), 1)

		require.Len(t, out, 1)
		assert.False(t, out[0].Relaxed)
		assert.InDelta(t, params.MaxScale, out[0].ScaleFactor, 1e-9)
		assert.InDelta(t, 300*params.MaxScale, out[0].Nutrition.Calories, 1e-9)
	})

	t.Run("WindowExhaustsPool_ShouldStillFillEverySlot", func(t *testing.T) {
		params := DefaultParams()
		pool := dinnerPool(
			dish("only-option", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 5)

		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(600, params), 3)

		require.Len(t, out, 3)
		for _, a := range out {
			assert.Equal(t, "only-option", a.RecipeID)
		}
	})

	t.Run("TopKBeyondPoolSize_ShouldClip", func(t *testing.T) {
		params := DefaultParams()
		params.TopK = 10
		pool := dinnerPool(
			dish("stew-a", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
			dish("stew-b", dinner, 600, balancedMacros, nil, grams("lentils", 100)),
		)
		alloc := newAllocator(params, params.MinScale, params.MaxScale, 2)

		out := alloc.allocate(pool, dinnerPattern(), dinnerTarget(600, params), 1)

		require.Len(t, out, 1)
		assert.Contains(t, []string{"stew-a", "stew-b"}, out[0].RecipeID)
	})

	t.Run("SameSeed_ShouldReproduceAssignments", func(t *testing.T) {
		params := DefaultParams()
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)
		pattern := params.Patterns[3]
		_, meals, err := ComputeTargets(2000, vegetarianProfile(), 3, params)
		require.NoError(t, err)

		first := newAllocator(params, params.MinScale, params.MaxScale, 7).
			allocate(cands, pattern, meals, 3)
		second := newAllocator(params, params.MinScale, params.MaxScale, 7).
			allocate(cands, pattern, meals, 3)

		assert.Equal(t, first, second)
	})

	t.Run("DifferentSeeds_ShouldVarySelection", func(t *testing.T) {
		params := DefaultParams()
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)
		pattern := params.Patterns[3]
		_, meals, err := ComputeTargets(2000, vegetarianProfile(), 3, params)
		require.NoError(t, err)

		sequences := make(map[string]bool)
		for seed := int64(1); seed <= 10; seed++ {
			out := newAllocator(params, params.MinScale, params.MaxScale, seed).
				allocate(cands, pattern, meals, 3)

			ids := make([]string, len(out))
			for i, a := range out {
				ids[i] = a.RecipeID
			}
			sequences[strings.Join(ids, ",")] = true
		}

		assert.Greater(t, len(sequences), 1, "ten seeds should not all pick the same menu")
	})

	t.Run("SlotMetadata_ShouldMatchPattern", func(t *testing.T) {
		params := DefaultParams()
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)
		pattern := params.Patterns[3]
		_, meals, err := ComputeTargets(2000, vegetarianProfile(), 3, params)
		require.NoError(t, err)

		out := newAllocator(params, params.MinScale, params.MaxScale, 4).
			allocate(cands, pattern, meals, 2)

		require.Len(t, out, 6)
		for i, a := range out {
			assert.Equal(t, i/len(pattern), a.Slot.Day)
			assert.Equal(t, i%len(pattern), a.Slot.Meal)
			assert.Equal(t, pattern[i%len(pattern)].Category, a.Slot.Category,
				fmt.Sprintf("slot %d assigned the wrong category", i))
		}
	})
}
