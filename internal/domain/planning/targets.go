package planning

import (
	"fmt"

	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// ComputeTargets derives the day-level nutrient target and the per-meal
// targets for a generation request. The day's calories are split across
// slots by the meal pattern's weights, and macro grams follow the
// profile's ratios at the standard energy-per-gram constants.
func ComputeTargets(calories int, profile diet.Profile, mealsPerDay int, params Params) (nutrition.Target, []nutrition.Target, error) {
	if calories < params.MinCalories || calories > params.MaxCalories {
		return nutrition.Target{}, nil, &InvalidTargetError{
			Field:  "calories",
			Value:  calories,
			Reason: fmt.Sprintf("must be between %d and %d", params.MinCalories, params.MaxCalories),
		}
	}
	if mealsPerDay < params.MinMealsPerDay || mealsPerDay > params.MaxMealsPerDay {
		return nutrition.Target{}, nil, &InvalidTargetError{
			Field:  "meals_per_day",
			Value:  mealsPerDay,
			Reason: fmt.Sprintf("must be between %d and %d", params.MinMealsPerDay, params.MaxMealsPerDay),
		}
	}
	if !profile.Macros.SumsToOne(params.MacroEpsilon) {
		return nutrition.Target{}, nil, &InvalidTargetError{
			Field:  "macro_ratios",
			Value:  profile.Macros.Sum(),
			Reason: "profile macro ratios must sum to 1.0",
		}
	}

	pattern, err := params.Pattern(mealsPerDay)
	if err != nil {
		return nutrition.Target{}, nil, &InvalidTargetError{
			Field:  "meals_per_day",
			Value:  mealsPerDay,
			Reason: err.Error(),
		}
	}

	day := nutrition.NewTarget(profile.Macros.Grams(float64(calories)), params.DayTolerance, params.MacroTolerance)

	meals := make([]nutrition.Target, len(pattern))
	for i, slot := range pattern {
		meals[i] = nutrition.NewTarget(
			profile.Macros.Grams(float64(calories)*slot.Weight),
			params.MealTolerance,
			params.MacroTolerance,
		)
	}
	return day, meals, nil
}
