package mealplan

import (
	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// Value Objects - the immutable building blocks of a generated plan

// MealSlot is one position in the horizon awaiting assignment, identified
// by zero-based day and meal indices plus the meal category it serves.
type MealSlot struct {
	Day      int
	Meal     int
	Category catalog.MealCategory
}

// MealAssignment binds a slot to a chosen recipe and a scale factor. The
// nutrient totals are the recipe's base totals multiplied by the scale
// factor. Relaxed marks slots where no candidate could satisfy the
// per-meal tolerance and the closest available match was accepted.
type MealAssignment struct {
	Slot        MealSlot
	RecipeID    string
	RecipeName  string
	ScaleFactor float64
	Nutrition   nutrition.Profile
	Relaxed     bool
}

// DayPlan is the ordered list of assignments for one day plus computed
// day totals. OutOfTolerance marks days whose totals fall outside the
// day-level tolerance band; flagged days are still returned and the
// validator decides whether the plan as a whole is acceptable.
type DayPlan struct {
	Day            int
	Meals          []MealAssignment
	Totals         nutrition.Profile
	OutOfTolerance bool
}

// Plan is the generation artifact: the full horizon of day plans together
// with the target it was generated against, the diet profile id, and the
// seed that reproduces it. A Plan carries no identity or wall-clock state,
// so generating twice with identical inputs yields equal values.
type Plan struct {
	DietProfileID string
	Target        nutrition.Target   // day-level target
	MealTargets   []nutrition.Target // per meal index, same for every day
	Seed          int64
	Days          []DayPlan
}

// SlotCount returns the number of filled assignments across the horizon.
func (p Plan) SlotCount() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Meals)
	}
	return n
}

// MealsPerDay returns the slot count of the first day, or zero for an
// empty plan. Every day in a valid plan has the same meal count.
func (p Plan) MealsPerDay() int {
	if len(p.Days) == 0 {
		return 0
	}
	return len(p.Days[0].Meals)
}

// FlaggedDays returns the indices of days marked out of tolerance.
func (p Plan) FlaggedDays() []int {
	var flagged []int
	for _, d := range p.Days {
		if d.OutOfTolerance {
			flagged = append(flagged, d.Day)
		}
	}
	return flagged
}

// RelaxedSlots returns the slots whose assignment was relaxed.
func (p Plan) RelaxedSlots() []MealSlot {
	var relaxed []MealSlot
	for _, d := range p.Days {
		for _, m := range d.Meals {
			if m.Relaxed {
				relaxed = append(relaxed, m.Slot)
			}
		}
	}
	return relaxed
}

// RecipeCounts tallies how often each recipe appears across the horizon.
func (p Plan) RecipeCounts() map[string]int {
	counts := make(map[string]int)
	for _, d := range p.Days {
		for _, m := range d.Meals {
			counts[m.RecipeID]++
		}
	}
	return counts
}

// SlotRef points at the (day, meal) position a shopping quantity came from.
type SlotRef struct {
	Day  int
	Meal int
}

// ShoppingListEntry is one consolidated line item: an ingredient with the
// summed quantity of every contributing assignment, expressed in the unit
// family's base unit. Quantities of the same ingredient in incompatible
// units stay on separate entries rather than being guess-converted.
type ShoppingListEntry struct {
	IngredientID string
	Name         string
	Category     catalog.IngredientCategory
	Quantity     float64
	Unit         catalog.MeasurementUnit
	References   []SlotRef
}
