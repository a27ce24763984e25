// Package planning implements the meal-plan generation engine: nutrient
// target calculation, catalog filtering, slot allocation, day assembly,
// final validation, and shopping list aggregation. Every component is pure
// with respect to its inputs; the only randomness is an explicitly seeded
// PRNG threaded through selection, so identical inputs always produce
// identical plans. The package carries no logging and no clock.
package planning

import (
	"errors"
	"fmt"
	"math"

	"github.com/mealsmith/v2/internal/domain/catalog"
)

// SlotSpec describes one meal slot of a day: the category it serves and
// the fraction of the day's calories it receives.
type SlotSpec struct {
	Category catalog.MealCategory
	Weight   float64
}

// MealPattern is the ordered slot layout for one meals-per-day count.
// Weights sum to 1.0.
type MealPattern []SlotSpec

// Validate validates the pattern.
func (p MealPattern) Validate() error {
	if len(p) == 0 {
		return errors.New("meal pattern must have at least one slot")
	}
	sum := 0.0
	for _, s := range p {
		if _, err := catalog.ParseMealCategory(string(s.Category)); err != nil {
			return err
		}
		if s.Weight <= 0 {
			return errors.New("meal pattern weights must be positive")
		}
		sum += s.Weight
	}
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("meal pattern weights sum to %.3f, want 1.0", sum)
	}
	return nil
}

// Categories returns the distinct categories of the pattern in slot order.
func (p MealPattern) Categories() []catalog.MealCategory {
	seen := make(map[catalog.MealCategory]bool, len(p))
	var out []catalog.MealCategory
	for _, s := range p {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}

// Params holds every tunable of the engine. The thresholds were tuned
// against the acceptance scenarios, not derived; treat them as
// configuration with the defaults below rather than constants.
type Params struct {
	// Request bounds
	MinCalories    int
	MaxCalories    int
	MinMealsPerDay int
	MaxMealsPerDay int
	MinDays        int
	MaxDays        int

	// Tolerance bands
	MacroEpsilon   float64 // allowed deviation of macro-ratio sums from 1.0
	MealTolerance  float64 // relative calorie band per meal slot
	DayTolerance   float64 // relative calorie band per day, wider than per-meal
	MacroTolerance float64 // relative band per macro at day level

	// Portion bounds, narrowable per diet profile
	MinScale float64
	MaxScale float64

	// Variety controls
	RepeatWindowDays int // a recipe used within the window is skipped when alternatives exist
	MaxOccurrences   int // hard cap per horizon, enforced by the validator; 0 disables
	TopK             int // weighted selection pool size

	// Scoring weights
	ScaleWeight   float64 // distance of the implied scale factor from 1.0
	CalorieWeight float64 // residual calorie deviation after clamping
	MacroWeight   float64 // macro split distance from the target split
	UsageWeight   float64 // per prior use of the recipe in the horizon

	// Validation budget
	MaxFlaggedFraction float64 // fraction of days allowed out of tolerance

	// Slot layouts by meals-per-day count
	Patterns map[int]MealPattern
}

// DefaultParams returns the engine defaults.
func DefaultParams() Params {
	return Params{
		MinCalories:    800,
		MaxCalories:    6000,
		MinMealsPerDay: 1,
		MaxMealsPerDay: 6,
		MinDays:        1,
		MaxDays:        30,

		MacroEpsilon:   0.01,
		MealTolerance:  0.10,
		DayTolerance:   0.12,
		MacroTolerance: 0.35,

		MinScale: 0.5,
		MaxScale: 2.5,

		RepeatWindowDays: 3,
		MaxOccurrences:   3,
		TopK:             3,

		ScaleWeight:   1.0,
		CalorieWeight: 2.0,
		MacroWeight:   1.0,
		UsageWeight:   0.5,

		MaxFlaggedFraction: 0.15,

		Patterns: DefaultPatterns(),
	}
}

// DefaultPatterns returns the default slot layout per meals-per-day
// count. Breakfast gets a smaller share than dinner; snacks fill the
// gaps on dense days.
func DefaultPatterns() map[int]MealPattern {
	return map[int]MealPattern{
		1: {
			{catalog.MealCategoryDinner, 1.00},
		},
		2: {
			{catalog.MealCategoryLunch, 0.45},
			{catalog.MealCategoryDinner, 0.55},
		},
		3: {
			{catalog.MealCategoryBreakfast, 0.25},
			{catalog.MealCategoryLunch, 0.35},
			{catalog.MealCategoryDinner, 0.40},
		},
		4: {
			{catalog.MealCategoryBreakfast, 0.25},
			{catalog.MealCategoryLunch, 0.30},
			{catalog.MealCategoryDinner, 0.35},
			{catalog.MealCategorySnack, 0.10},
		},
		5: {
			{catalog.MealCategoryBreakfast, 0.25},
			{catalog.MealCategorySnack, 0.10},
			{catalog.MealCategoryLunch, 0.30},
			{catalog.MealCategorySnack, 0.10},
			{catalog.MealCategoryDinner, 0.25},
		},
		6: {
			{catalog.MealCategoryBreakfast, 0.20},
			{catalog.MealCategorySnack, 0.10},
			{catalog.MealCategoryLunch, 0.25},
			{catalog.MealCategorySnack, 0.10},
			{catalog.MealCategoryDinner, 0.25},
			{catalog.MealCategorySnack, 0.10},
		},
	}
}

// Validate validates the parameter set.
func (p Params) Validate() error {
	if p.MinCalories <= 0 || p.MaxCalories <= p.MinCalories {
		return errors.New("calorie bounds must satisfy 0 < min < max")
	}
	if p.MinMealsPerDay < 1 || p.MaxMealsPerDay < p.MinMealsPerDay {
		return errors.New("meals-per-day bounds must satisfy 1 <= min <= max")
	}
	if p.MinDays < 1 || p.MaxDays < p.MinDays {
		return errors.New("day bounds must satisfy 1 <= min <= max")
	}
	if p.MacroEpsilon <= 0 || p.MealTolerance <= 0 || p.DayTolerance <= 0 || p.MacroTolerance <= 0 {
		return errors.New("tolerances must be positive")
	}
	if p.DayTolerance < p.MealTolerance {
		return errors.New("day tolerance must not be narrower than meal tolerance")
	}
	if p.MinScale <= 0 || p.MaxScale < p.MinScale {
		return errors.New("scale bounds must satisfy 0 < min <= max")
	}
	if p.RepeatWindowDays < 0 || p.MaxOccurrences < 0 {
		return errors.New("variety controls cannot be negative")
	}
	if p.TopK < 1 {
		return errors.New("top-k must be at least 1")
	}
	if p.ScaleWeight < 0 || p.CalorieWeight < 0 || p.MacroWeight < 0 || p.UsageWeight < 0 {
		return errors.New("scoring weights cannot be negative")
	}
	if p.MaxFlaggedFraction < 0 || p.MaxFlaggedFraction > 1 {
		return errors.New("flagged-day fraction must be in [0, 1]")
	}
	for count := p.MinMealsPerDay; count <= p.MaxMealsPerDay; count++ {
		pattern, ok := p.Patterns[count]
		if !ok {
			return fmt.Errorf("no meal pattern for %d meals per day", count)
		}
		if err := pattern.Validate(); err != nil {
			return fmt.Errorf("meal pattern for %d meals per day: %w", count, err)
		}
	}
	return nil
}

// Pattern returns the slot layout for a meals-per-day count.
func (p Params) Pattern(mealsPerDay int) (MealPattern, error) {
	pattern, ok := p.Patterns[mealsPerDay]
	if !ok {
		return nil, fmt.Errorf("no meal pattern for %d meals per day", mealsPerDay)
	}
	return pattern, nil
}
