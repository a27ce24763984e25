package planning

import (
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// AssembleDays groups assignments into day plans and computes day totals
// by summing each assignment's scaled nutrient profile. Days whose totals
// fall outside the day-level band are marked out of tolerance but still
// returned; rejecting a plan is the validator's call, not the assembler's.
func AssembleDays(assignments []mealplan.MealAssignment, dayTarget nutrition.Target, days int) []mealplan.DayPlan {
	out := make([]mealplan.DayPlan, days)
	for d := range out {
		out[d].Day = d
	}

	for _, a := range assignments {
		d := a.Slot.Day
		if d < 0 || d >= days {
			continue
		}
		out[d].Meals = append(out[d].Meals, a)
		out[d].Totals = out[d].Totals.Add(a.Nutrition)
	}

	for d := range out {
		out[d].OutOfTolerance = !dayTarget.Within(out[d].Totals)
	}
	return out
}
