package planning

import (
	"fmt"
	"sort"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
)

// ValidatePlan is the final gate before a plan is returned. It checks, in
// order: every slot filled, no excluded recipe present, the flagged-day
// budget, and the per-horizon repeat cap. It never mutates the plan;
// callers decide whether a failure means a retry with a new seed, relaxed
// constraints, or a user-facing error.
func ValidatePlan(plan mealplan.Plan, snap *catalog.Snapshot, excluded catalog.TagSet, params Params) error {
	expected := len(plan.MealTargets)

	for _, day := range plan.Days {
		if len(day.Meals) != expected {
			return &PlanValidationError{
				Rule:   RuleSlotsFilled,
				Day:    day.Day,
				Meal:   -1,
				Detail: fmt.Sprintf("day has %d of %d meals assigned", len(day.Meals), expected),
			}
		}
		for _, meal := range day.Meals {
			if meal.RecipeID == "" {
				return &PlanValidationError{
					Rule:   RuleSlotsFilled,
					Day:    meal.Slot.Day,
					Meal:   meal.Slot.Meal,
					Detail: "slot has no recipe assigned",
				}
			}
		}
	}

	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			recipe, err := snap.Recipe(meal.RecipeID)
			if err != nil {
				return &PlanValidationError{
					Rule:   RuleExclusions,
					Day:    meal.Slot.Day,
					Meal:   meal.Slot.Meal,
					Detail: fmt.Sprintf("recipe %q is not in the catalog", meal.RecipeID),
				}
			}
			if recipe.HasAnyTag(excluded) {
				return &PlanValidationError{
					Rule:   RuleExclusions,
					Day:    meal.Slot.Day,
					Meal:   meal.Slot.Meal,
					Detail: fmt.Sprintf("recipe %q carries an excluded tag", meal.RecipeID),
				}
			}
		}
	}

	flagged := plan.FlaggedDays()
	allowed := int(params.MaxFlaggedFraction * float64(len(plan.Days)))
	if len(flagged) > allowed {
		return &PlanValidationError{
			Rule:   RuleToleranceBudget,
			Day:    firstOverBudget(flagged, allowed),
			Meal:   -1,
			Detail: fmt.Sprintf("%d of %d days out of tolerance, allowed %d", len(flagged), len(plan.Days), allowed),
		}
	}

	if params.MaxOccurrences > 0 {
		counts := plan.RecipeCounts()
		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if counts[id] > params.MaxOccurrences {
				return &PlanValidationError{
					Rule:   RuleRepeatLimit,
					Day:    -1,
					Meal:   -1,
					Detail: fmt.Sprintf("recipe %q appears %d times, allowed %d", id, counts[id], params.MaxOccurrences),
				}
			}
		}
	}

	return nil
}

// firstOverBudget returns the first flagged day index past the allowance,
// the slot the caller would need to fix first.
func firstOverBudget(flagged []int, allowed int) int {
	if allowed < len(flagged) {
		return flagged[allowed]
	}
	return -1
}
