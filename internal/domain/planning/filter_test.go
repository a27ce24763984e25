package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
)

func TestFilterCatalog(t *testing.T) {
	t.Run("VegetarianProfile_ShouldDropMeatAndFish", func(t *testing.T) {
		// Act
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)

		// Assert
		forbidden := catalog.NewTagSet([]string{"meat", "fish"})
		for _, category := range catalog.AllMealCategories() {
			for _, r := range cands.For(category) {
				assert.False(t, r.HasAnyTag(forbidden), "recipe %s should be filtered", r.ID)
			}
		}
		assert.Len(t, cands.For(catalog.MealCategoryBreakfast), 6)
		assert.Len(t, cands.For(catalog.MealCategoryLunch), 4)
		assert.Len(t, cands.For(catalog.MealCategoryDinner), 4)
	})

	t.Run("CatalogOrder_ShouldBePreservedPerCategory", func(t *testing.T) {
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)

		breakfast := cands.For(catalog.MealCategoryBreakfast)
		require.NotEmpty(t, breakfast)
		assert.Equal(t, "oatmeal-berry-bowl", breakfast[0].ID)
		assert.Equal(t, "boiled-eggs", breakfast[len(breakfast)-1].ID)
	})

	t.Run("MultiCategoryRecipe_ShouldAppearInEachPool", func(t *testing.T) {
		cands := FilterCatalog(standardRecipes(), balancedProfile(), nil)

		inPool := func(category catalog.MealCategory, id string) bool {
			for _, r := range cands.For(category) {
				if r.ID == id {
					return true
				}
			}
			return false
		}
		assert.True(t, inPool(catalog.MealCategoryBreakfast, "boiled-eggs"))
		assert.True(t, inPool(catalog.MealCategorySnack, "boiled-eggs"))
	})

	t.Run("RequestExclusions_ShouldStackOnProfile", func(t *testing.T) {
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), []string{"soy", "legume"})

		lunch := cands.For(catalog.MealCategoryLunch)
		require.Len(t, lunch, 1)
		assert.Equal(t, "caprese-sandwich", lunch[0].ID)

		excluded := cands.ExcludedTags()
		assert.True(t, excluded.Contains("meat"))
		assert.True(t, excluded.Contains("soy"))
	})
}

func TestCandidatesRequire(t *testing.T) {
	pattern := DefaultParams().Patterns[3]

	t.Run("PopulatedPools_ShouldPass", func(t *testing.T) {
		cands := FilterCatalog(standardRecipes(), vegetarianProfile(), nil)

		assert.NoError(t, cands.Require(pattern, "vegetarian", nil))
	})

	t.Run("EmptiedCategory_ShouldReportNoCandidates", func(t *testing.T) {
		// Arrange: these exclusions cover the tags of every breakfast recipe.
		exclusions := []string{"grain", "dairy", "soy", "egg", "fish"}
		cands := FilterCatalog(standardRecipes(), balancedProfile(), exclusions)

		// Act
		err := cands.Require(pattern, "balanced", exclusions)

		// Assert
		var noCands *NoCandidatesError
		require.ErrorAs(t, err, &noCands)
		assert.Equal(t, catalog.MealCategoryBreakfast, noCands.Category)
		assert.Equal(t, "balanced", noCands.ProfileID)
		assert.Equal(t, exclusions, noCands.Exclusions)
	})
}
