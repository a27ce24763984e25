package nutrition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileArithmetic(t *testing.T) {
	t.Run("Add_TwoProfiles_ShouldSumComponents", func(t *testing.T) {
		a := Profile{Calories: 400, Protein: 30, Carbs: 40, Fat: 10}
		b := Profile{Calories: 600, Protein: 20, Carbs: 70, Fat: 15}

		sum := a.Add(b)

		assert.Equal(t, Profile{Calories: 1000, Protein: 50, Carbs: 110, Fat: 25}, sum)
	})

	t.Run("Scale_ByFactor_ShouldMultiplyComponents", func(t *testing.T) {
		p := Profile{Calories: 400, Protein: 30, Carbs: 40, Fat: 10}

		scaled := p.Scale(1.5)

		assert.InDelta(t, 600, scaled.Calories, 1e-9)
		assert.InDelta(t, 45, scaled.Protein, 1e-9)
		assert.InDelta(t, 60, scaled.Carbs, 1e-9)
		assert.InDelta(t, 15, scaled.Fat, 1e-9)
	})

	t.Run("Validate_NegativeComponent_ShouldFail", func(t *testing.T) {
		p := Profile{Calories: -1}

		assert.Error(t, p.Validate())
	})
}

func TestMacroSplit(t *testing.T) {
	t.Run("Validate_FractionsSummingToOne_ShouldPass", func(t *testing.T) {
		split := MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30}

		assert.NoError(t, split.Validate())
	})

	t.Run("Validate_FractionsNotSummingToOne_ShouldFail", func(t *testing.T) {
		split := MacroSplit{Protein: 0.5, Carbs: 0.5, Fat: 0.2}

		assert.Error(t, split.Validate())
	})

	t.Run("Grams_ForCalorieAmount_ShouldUseEnergyConstants", func(t *testing.T) {
		split := MacroSplit{Protein: 0.30, Carbs: 0.40, Fat: 0.30}

		p := split.Grams(2000)

		assert.InDelta(t, 150, p.Protein, 1e-9) // 600 kcal / 4
		assert.InDelta(t, 200, p.Carbs, 1e-9)   // 800 kcal / 4
		assert.InDelta(t, 66.666, p.Fat, 0.01)  // 600 kcal / 9
	})

	t.Run("Distance_IdenticalSplits_ShouldBeZero", func(t *testing.T) {
		a := MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30}

		assert.Zero(t, a.Distance(a))
	})

	t.Run("Distance_DisjointSplits_ShouldBeSymmetric", func(t *testing.T) {
		a := MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30}
		b := MacroSplit{Protein: 0.40, Carbs: 0.20, Fat: 0.40}

		assert.InDelta(t, a.Distance(b), b.Distance(a), 1e-12)
		assert.InDelta(t, 0.50, a.Distance(b), 1e-9)
	})
}

func TestProfileMacroSplit(t *testing.T) {
	t.Run("MacroSplit_FromGrams_ShouldDeriveCalorieFractions", func(t *testing.T) {
		// 100g protein = 400 kcal, 100g carbs = 400 kcal, 400/9 g fat = 400 kcal
		p := Profile{Protein: 100, Carbs: 100, Fat: 400.0 / 9.0}

		split := p.MacroSplit()

		assert.InDelta(t, 1.0/3.0, split.Protein, 1e-9)
		assert.InDelta(t, 1.0/3.0, split.Carbs, 1e-9)
		assert.InDelta(t, 1.0/3.0, split.Fat, 1e-9)
	})

	t.Run("MacroSplit_ZeroProfile_ShouldBeZero", func(t *testing.T) {
		assert.Equal(t, MacroSplit{}, Profile{}.MacroSplit())
	})
}

func TestTarget(t *testing.T) {
	target := NewTarget(Profile{Calories: 2000, Protein: 125, Carbs: 225, Fat: 67}, 0.10, 0.35)

	t.Run("CaloriesWithin_InsideBand_ShouldPass", func(t *testing.T) {
		assert.True(t, target.CaloriesWithin(Profile{Calories: 2150}))
	})

	t.Run("CaloriesWithin_OutsideBand_ShouldFail", func(t *testing.T) {
		assert.False(t, target.CaloriesWithin(Profile{Calories: 2400}))
	})

	t.Run("MacrosWithin_MacroBeyondWideBand_ShouldFail", func(t *testing.T) {
		actual := Profile{Calories: 2000, Protein: 125 * 1.5, Carbs: 225, Fat: 67}

		assert.False(t, target.MacrosWithin(actual))
	})

	t.Run("Scale_ShouldKeepToleranceBands", func(t *testing.T) {
		meal := target.Scale(0.25)

		assert.InDelta(t, 500, meal.Calories, 1e-9)
		assert.Equal(t, target.CalorieTolerance, meal.CalorieTolerance)
		assert.Equal(t, target.MacroTolerance, meal.MacroTolerance)
	})
}

func TestRelativeDeviation(t *testing.T) {
	t.Run("ZeroTargetZeroActual_ShouldBeZero", func(t *testing.T) {
		assert.Zero(t, RelativeDeviation(0, 0))
	})

	t.Run("ZeroTargetNonZeroActual_ShouldBeInfinite", func(t *testing.T) {
		assert.True(t, math.IsInf(RelativeDeviation(5, 0), 1))
	})

	t.Run("TenPercentOver_ShouldBePointOne", func(t *testing.T) {
		assert.InDelta(t, 0.1, RelativeDeviation(220, 200), 1e-9)
	})
}
