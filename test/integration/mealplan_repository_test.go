//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
	gormRepo "github.com/mealsmith/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealsmith/v2/test/testutils"
)

func newStoredPlan(t *testing.T) *mealplan.MealPlan {
	t.Helper()

	plan := mealplan.Plan{
		DietProfileID: "balanced",
		Target: nutrition.NewTarget(
			nutrition.Profile{Calories: 2000, Protein: 150, Carbs: 200, Fat: 67},
			0.05, 0.10,
		),
		MealTargets: []nutrition.Target{
			nutrition.NewTarget(nutrition.Profile{Calories: 667, Protein: 50, Carbs: 67, Fat: 22}, 0.15, 0.10),
		},
		Seed: 42,
		Days: []mealplan.DayPlan{
			{
				Day: 0,
				Meals: []mealplan.MealAssignment{
					{
						Slot:        mealplan.MealSlot{Day: 0, Meal: 0, Category: catalog.MealCategoryDinner},
						RecipeID:    "grilled-chicken",
						RecipeName:  "Grilled Chicken",
						ScaleFactor: 1.1,
						Nutrition:   nutrition.Profile{Calories: 660, Protein: 55, Carbs: 10, Fat: 30},
					},
				},
				Totals: nutrition.Profile{Calories: 660, Protein: 55, Carbs: 10, Fat: 30},
			},
		},
	}

	stored, err := mealplan.NewMealPlan(plan)
	require.NoError(t, err)
	return stored
}

func TestMealPlanRepository_Postgres(t *testing.T) {
	db := testutils.SetupTestDatabase(t)
	require.NoError(t, db.RunMigrations())

	repo := gormRepo.NewMealPlanRepository(db.GormDB)
	ctx := context.Background()

	t.Run("SaveAndFindByID_RoundTripsPlan", func(t *testing.T) {
		stored := newStoredPlan(t)
		require.NoError(t, repo.Save(ctx, stored))

		found, err := repo.FindByID(ctx, stored.ID())
		require.NoError(t, err)

		assert.Equal(t, stored.ID(), found.ID())
		assert.Equal(t, stored.Status(), found.Status())
		assert.Equal(t, stored.Plan().DietProfileID, found.Plan().DietProfileID)
		assert.Equal(t, stored.Plan().Seed, found.Plan().Seed)
		assert.Len(t, found.Plan().Days, 1)
		assert.Equal(t, "grilled-chicken", found.Plan().Days[0].Meals[0].RecipeID)
		assert.InDelta(t, 1.1, found.Plan().Days[0].Meals[0].ScaleFactor, 1e-9)
	})

	t.Run("Save_ExistingPlan_UpdatesStatus", func(t *testing.T) {
		stored := newStoredPlan(t)
		require.NoError(t, repo.Save(ctx, stored))

		require.NoError(t, stored.MarkValidated())
		require.NoError(t, repo.Save(ctx, stored))

		found, err := repo.FindByID(ctx, stored.ID())
		require.NoError(t, err)
		assert.Equal(t, mealplan.PlanStatusValidated, found.Status())
	})

	t.Run("FindByID_Unknown_ReturnsNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, mealplan.ErrPlanNotFound)
	})

	t.Run("FindAll_PaginatesByRecency", func(t *testing.T) {
		require.NoError(t, db.TruncateAllTables())

		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Save(ctx, newStoredPlan(t)))
		}

		page, total, err := repo.FindAll(ctx, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, total)
		assert.Len(t, page, 3)

		rest, _, err := repo.FindAll(ctx, 3, 3)
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})

	t.Run("Delete_RemovesPlan", func(t *testing.T) {
		stored := newStoredPlan(t)
		require.NoError(t, repo.Save(ctx, stored))

		require.NoError(t, repo.Delete(ctx, stored.ID()))

		_, err := repo.FindByID(ctx, stored.ID())
		assert.ErrorIs(t, err, mealplan.ErrPlanNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, stored.ID()), mealplan.ErrPlanNotFound)
	})
}
