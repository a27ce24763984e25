package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
)

func TestDefaultParams(t *testing.T) {
	t.Run("Validate_Defaults_ShouldPass", func(t *testing.T) {
		assert.NoError(t, DefaultParams().Validate())
	})

	t.Run("DefaultPatterns_ShouldCoverEveryMealCount", func(t *testing.T) {
		params := DefaultParams()

		for count := params.MinMealsPerDay; count <= params.MaxMealsPerDay; count++ {
			pattern, err := params.Pattern(count)

			require.NoError(t, err)
			assert.Len(t, pattern, count)
			assert.NoError(t, pattern.Validate())
		}
	})

	t.Run("Pattern_ThreeMeals_ShouldOrderBreakfastLunchDinner", func(t *testing.T) {
		pattern, err := DefaultParams().Pattern(3)

		require.NoError(t, err)
		assert.Equal(t, catalog.MealCategoryBreakfast, pattern[0].Category)
		assert.Equal(t, catalog.MealCategoryLunch, pattern[1].Category)
		assert.Equal(t, catalog.MealCategoryDinner, pattern[2].Category)
		assert.Greater(t, pattern[2].Weight, pattern[0].Weight)
	})

	t.Run("Pattern_UnknownCount_ShouldFail", func(t *testing.T) {
		_, err := DefaultParams().Pattern(9)

		assert.Error(t, err)
	})
}

func TestParamsValidate(t *testing.T) {
	mutations := map[string]func(*Params){
		"inverted calorie bounds":   func(p *Params) { p.MaxCalories = p.MinCalories },
		"zero meals per day":        func(p *Params) { p.MinMealsPerDay = 0 },
		"zero days":                 func(p *Params) { p.MinDays = 0 },
		"zero meal tolerance":       func(p *Params) { p.MealTolerance = 0 },
		"day band narrower":         func(p *Params) { p.DayTolerance = p.MealTolerance / 2 },
		"inverted scale bounds":     func(p *Params) { p.MinScale, p.MaxScale = p.MaxScale, p.MinScale },
		"negative repeat window":    func(p *Params) { p.RepeatWindowDays = -1 },
		"zero top-k":                func(p *Params) { p.TopK = 0 },
		"negative scoring weight":   func(p *Params) { p.CalorieWeight = -1 },
		"flagged fraction above 1":  func(p *Params) { p.MaxFlaggedFraction = 1.5 },
		"missing meal pattern":      func(p *Params) { delete(p.Patterns, 3) },
		"pattern weights off unity": func(p *Params) { p.Patterns[3][0].Weight = 0.5 },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			params := DefaultParams()
			mutate(&params)

			assert.Error(t, params.Validate())
		})
	}
}

func TestMealPattern(t *testing.T) {
	t.Run("Validate_EmptyPattern_ShouldFail", func(t *testing.T) {
		assert.Error(t, MealPattern{}.Validate())
	})

	t.Run("Validate_UnknownCategory_ShouldFail", func(t *testing.T) {
		pattern := MealPattern{{Category: "brunch", Weight: 1.0}}

		assert.Error(t, pattern.Validate())
	})

	t.Run("Validate_NonPositiveWeight_ShouldFail", func(t *testing.T) {
		pattern := MealPattern{
			{Category: catalog.MealCategoryLunch, Weight: 1.0},
			{Category: catalog.MealCategoryDinner, Weight: 0},
		}

		assert.Error(t, pattern.Validate())
	})

	t.Run("Categories_RepeatedSlots_ShouldDeduplicate", func(t *testing.T) {
		pattern, err := DefaultParams().Pattern(5)
		require.NoError(t, err)

		got := pattern.Categories()

		assert.Equal(t, []catalog.MealCategory{
			catalog.MealCategoryBreakfast,
			catalog.MealCategorySnack,
			catalog.MealCategoryLunch,
			catalog.MealCategoryDinner,
		}, got)
	})
}
