// Package nutrition provides the nutrient value objects shared across the
// planning domain: nutrient profiles, macro-ratio splits, and tolerance-banded
// targets. All types are immutable value objects.
package nutrition

import (
	"errors"
	"math"
)

// Energy content per gram of each macronutrient, in kilocalories.
const (
	CaloriesPerGramProtein = 4.0
	CaloriesPerGramCarbs   = 4.0
	CaloriesPerGramFat     = 9.0
)

// DefaultMacroEpsilon is the allowed deviation when macro-ratio
// fractions are checked for summing to 1.0.
const DefaultMacroEpsilon = 0.01

// Profile holds absolute nutrient quantities: calories in kcal, macros in grams.
type Profile struct {
	Calories float64
	Protein  float64 // in grams
	Carbs    float64 // in grams
	Fat      float64 // in grams
}

// Add returns the component-wise sum of two profiles.
func (p Profile) Add(other Profile) Profile {
	return Profile{
		Calories: p.Calories + other.Calories,
		Protein:  p.Protein + other.Protein,
		Carbs:    p.Carbs + other.Carbs,
		Fat:      p.Fat + other.Fat,
	}
}

// Scale returns the profile multiplied by factor.
func (p Profile) Scale(factor float64) Profile {
	return Profile{
		Calories: p.Calories * factor,
		Protein:  p.Protein * factor,
		Carbs:    p.Carbs * factor,
		Fat:      p.Fat * factor,
	}
}

// IsZero reports whether every component is zero.
func (p Profile) IsZero() bool {
	return p.Calories == 0 && p.Protein == 0 && p.Carbs == 0 && p.Fat == 0
}

// Validate checks that no component is negative.
func (p Profile) Validate() error {
	if p.Calories < 0 || p.Protein < 0 || p.Carbs < 0 || p.Fat < 0 {
		return errors.New("nutrient values cannot be negative")
	}
	return nil
}

// MacroSplit derives the calorie fractions contributed by each macro.
// A zero-calorie profile yields a zero split.
func (p Profile) MacroSplit() MacroSplit {
	total := p.Protein*CaloriesPerGramProtein + p.Carbs*CaloriesPerGramCarbs + p.Fat*CaloriesPerGramFat
	if total == 0 {
		return MacroSplit{}
	}
	return MacroSplit{
		Protein: p.Protein * CaloriesPerGramProtein / total,
		Carbs:   p.Carbs * CaloriesPerGramCarbs / total,
		Fat:     p.Fat * CaloriesPerGramFat / total,
	}
}

// MacroSplit is a set of calorie fractions from protein, carbs, and fat.
// A valid split sums to 1.0 within epsilon.
type MacroSplit struct {
	Protein float64 `yaml:"protein"`
	Carbs   float64 `yaml:"carbs"`
	Fat     float64 `yaml:"fat"`
}

// Sum returns the total of the three fractions.
func (m MacroSplit) Sum() float64 {
	return m.Protein + m.Carbs + m.Fat
}

// SumsToOne reports whether the fractions sum to 1.0 within epsilon.
func (m MacroSplit) SumsToOne(epsilon float64) bool {
	return math.Abs(m.Sum()-1.0) <= epsilon
}

// Validate checks that all fractions are non-negative and sum to 1.0
// within the default epsilon.
func (m MacroSplit) Validate() error {
	if m.Protein < 0 || m.Carbs < 0 || m.Fat < 0 {
		return errors.New("macro fractions cannot be negative")
	}
	if !m.SumsToOne(DefaultMacroEpsilon) {
		return errors.New("macro fractions must sum to 1.0")
	}
	return nil
}

// Distance returns the L1 distance between two splits, a scale-invariant
// measure of how far apart two macro distributions are. Range [0, 2].
func (m MacroSplit) Distance(other MacroSplit) float64 {
	return math.Abs(m.Protein-other.Protein) +
		math.Abs(m.Carbs-other.Carbs) +
		math.Abs(m.Fat-other.Fat)
}

// Grams converts the split into absolute gram quantities for a calorie
// amount, using the standard energy-per-gram constants.
func (m MacroSplit) Grams(calories float64) Profile {
	return Profile{
		Calories: calories,
		Protein:  calories * m.Protein / CaloriesPerGramProtein,
		Carbs:    calories * m.Carbs / CaloriesPerGramCarbs,
		Fat:      calories * m.Fat / CaloriesPerGramFat,
	}
}

// Target is a nutrient goal with tolerance bands: a relative band for
// calories and a wider one for individual macros.
type Target struct {
	Profile
	CalorieTolerance float64
	MacroTolerance   float64
}

// NewTarget builds a target from a goal profile and tolerance bands.
func NewTarget(goal Profile, calorieTol, macroTol float64) Target {
	return Target{Profile: goal, CalorieTolerance: calorieTol, MacroTolerance: macroTol}
}

// Scale returns a target for a fraction of this one, keeping the bands.
func (t Target) Scale(factor float64) Target {
	return Target{
		Profile:          t.Profile.Scale(factor),
		CalorieTolerance: t.CalorieTolerance,
		MacroTolerance:   t.MacroTolerance,
	}
}

// CaloriesWithin reports whether actual calories fall inside the calorie band.
func (t Target) CaloriesWithin(actual Profile) bool {
	return RelativeDeviation(actual.Calories, t.Calories) <= t.CalorieTolerance
}

// MacrosWithin reports whether every macro falls inside the macro band.
func (t Target) MacrosWithin(actual Profile) bool {
	return RelativeDeviation(actual.Protein, t.Protein) <= t.MacroTolerance &&
		RelativeDeviation(actual.Carbs, t.Carbs) <= t.MacroTolerance &&
		RelativeDeviation(actual.Fat, t.Fat) <= t.MacroTolerance
}

// Within reports whether the actual profile satisfies both bands.
func (t Target) Within(actual Profile) bool {
	return t.CaloriesWithin(actual) && t.MacrosWithin(actual)
}

// RelativeDeviation returns |actual-target| / target. A zero target with a
// zero actual deviates by zero; a zero target with any other actual is
// treated as infinitely far off.
func RelativeDeviation(actual, target float64) float64 {
	if target == 0 {
		if actual == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs(actual-target) / math.Abs(target)
}
