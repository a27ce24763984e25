package gorm_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/domain/nutrition"
	gormRepo "github.com/mealsmith/v2/internal/infrastructure/persistence/gorm"
	"github.com/mealsmith/v2/internal/infrastructure/persistence/sqlite"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

func newRepo(t *testing.T) outbound.MealPlanRepository {
	t.Helper()

	db, err := sqlite.SetupDatabase(":memory:", logger.Silent)
	require.NoError(t, err)

	return gormRepo.NewMealPlanRepository(db)
}

func newPlan(t *testing.T) *mealplan.MealPlan {
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
						Relaxed:     true,
					},
				},
				Totals:         nutrition.Profile{Calories: 660, Protein: 55, Carbs: 10, Fat: 30},
				OutOfTolerance: true,
			},
		},
	}

	stored, err := mealplan.NewMealPlan(plan)
	require.NoError(t, err)
	return stored
}

func TestMealPlanRepository_Save(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	t.Run("NewPlan_RoundTripsDocument", func(t *testing.T) {
		stored := newPlan(t)
		require.NoError(t, repo.Save(ctx, stored))

		found, err := repo.FindByID(ctx, stored.ID())
		require.NoError(t, err)

		assert.Equal(t, stored.ID(), found.ID())
		assert.Equal(t, mealplan.PlanStatusGenerated, found.Status())
		assert.Equal(t, stored.Plan().DietProfileID, found.Plan().DietProfileID)
		assert.Equal(t, int64(42), found.Plan().Seed)

		require.Len(t, found.Plan().Days, 1)
		meal := found.Plan().Days[0].Meals[0]
		assert.Equal(t, "grilled-chicken", meal.RecipeID)
		assert.Equal(t, catalog.MealCategoryDinner, meal.Slot.Category)
		assert.True(t, meal.Relaxed)
		assert.True(t, found.Plan().Days[0].OutOfTolerance)
		assert.InDelta(t, 0.05, found.Plan().Target.CalorieTolerance, 1e-9)
	})

	t.Run("ExistingPlan_UpdatesInPlace", func(t *testing.T) {
		stored := newPlan(t)
		require.NoError(t, repo.Save(ctx, stored))

		require.NoError(t, stored.MarkValidated())
		require.NoError(t, repo.Save(ctx, stored))

		found, err := repo.FindByID(ctx, stored.ID())
		require.NoError(t, err)
		assert.Equal(t, mealplan.PlanStatusValidated, found.Status())
	})
}

func TestMealPlanRepository_FindByID_Unknown(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, mealplan.ErrPlanNotFound)
}

func TestMealPlanRepository_FindAll(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, newPlan(t)))
	}

	page, total, err := repo.FindAll(ctx, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 3)

	rest, total, err := repo.FindAll(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, rest, 2)
}

func TestMealPlanRepository_Delete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	stored := newPlan(t)
	require.NoError(t, repo.Save(ctx, stored))

	require.NoError(t, repo.Delete(ctx, stored.ID()))

	_, err := repo.FindByID(ctx, stored.ID())
	assert.ErrorIs(t, err, mealplan.ErrPlanNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, stored.ID()), mealplan.ErrPlanNotFound)
}
