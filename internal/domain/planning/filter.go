package planning

import (
	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
)

// Candidates is the filtered candidate pool, grouped by meal category.
// Catalog order is preserved within each group so selection stays
// deterministic for a given seed.
type Candidates struct {
	byCategory map[catalog.MealCategory][]catalog.Recipe
	excluded   catalog.TagSet
}

// FilterCatalog narrows the catalog to recipes compatible with the
// profile and the caller's explicit exclusions. A recipe is dropped when
// its tag set intersects the union of both exclusion lists.
func FilterCatalog(recipes []catalog.Recipe, profile diet.Profile, exclusions []string) Candidates {
	excluded := catalog.NewTagSet(profile.ExcludedTags, exclusions)
	byCategory := make(map[catalog.MealCategory][]catalog.Recipe)

	for _, r := range recipes {
		if r.HasAnyTag(excluded) {
			continue
		}
		for _, c := range r.Categories {
			byCategory[c] = append(byCategory[c], r)
		}
	}

	return Candidates{byCategory: byCategory, excluded: excluded}
}

// For returns the candidate pool for a category. Callers must not mutate
// the returned slice.
func (c Candidates) For(category catalog.MealCategory) []catalog.Recipe {
	return c.byCategory[category]
}

// ExcludedTags returns the effective exclusion set the pool was built with.
func (c Candidates) ExcludedTags() catalog.TagSet {
	return c.excluded
}

// Require verifies every category the pattern needs has at least one
// candidate. An empty category is a hard stop: the condition does not
// depend on the seed, so it is surfaced rather than relaxed.
func (c Candidates) Require(pattern MealPattern, profileID string, exclusions []string) error {
	for _, category := range pattern.Categories() {
		if len(c.byCategory[category]) == 0 {
			return &NoCandidatesError{
				Category:   category,
				ProfileID:  profileID,
				Exclusions: exclusions,
			}
		}
	}
	return nil
}
