package planning

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mealsmith/v2/internal/domain/catalog"
	"github.com/mealsmith/v2/internal/domain/diet"
	"github.com/mealsmith/v2/internal/domain/nutrition"
)

// Shared fixtures for the planning tests. Recipe nutrition is derived
// from a macro split at a chosen calorie base, so candidate macro
// distances against a profile using the same split are zero and the
// selection math stays easy to reason about by hand.

var (
	balancedMacros = nutrition.MacroSplit{Protein: 0.25, Carbs: 0.45, Fat: 0.30}
	ketoMacros     = nutrition.MacroSplit{Protein: 0.25, Carbs: 0.05, Fat: 0.70}
)

func balancedProfile() diet.Profile {
	return diet.Profile{
		ID:     "balanced",
		Name:   "Balanced",
		Macros: balancedMacros,
	}
}

func vegetarianProfile() diet.Profile {
	return diet.Profile{
		ID:           "vegetarian",
		Name:         "Vegetarian",
		Macros:       balancedMacros,
		ExcludedTags: []string{"meat", "fish"},
	}
}

func ketoProfile() diet.Profile {
	return diet.Profile{
		ID:           "keto",
		Name:         "Ketogenic",
		Macros:       ketoMacros,
		ExcludedTags: []string{"grain", "sugar"},
	}
}

// dish builds a recipe whose nutrient totals realize the given split at
// the given calorie base.
func dish(id string, categories []catalog.MealCategory, calories float64, split nutrition.MacroSplit, tags []string, ingredients ...catalog.RecipeIngredient) catalog.Recipe {
	return catalog.Recipe{
		ID:          id,
		Name:        id,
		Categories:  categories,
		Tags:        tags,
		Servings:    2,
		Ingredients: ingredients,
		Nutrition:   split.Grams(calories),
	}
}

func grams(id string, qty float64) catalog.RecipeIngredient {
	return catalog.RecipeIngredient{IngredientID: id, Quantity: qty, Unit: catalog.MeasurementUnitGram}
}

func millis(id string, qty float64) catalog.RecipeIngredient {
	return catalog.RecipeIngredient{IngredientID: id, Quantity: qty, Unit: catalog.MeasurementUnitMilliliter}
}

func pieces(id string, qty float64) catalog.RecipeIngredient {
	return catalog.RecipeIngredient{IngredientID: id, Quantity: qty, Unit: catalog.MeasurementUnitPiece}
}

func ing(id, name string, category catalog.IngredientCategory, unit catalog.MeasurementUnit, perUnit nutrition.Profile, tags ...string) catalog.Ingredient {
	return catalog.Ingredient{ID: id, Name: name, Category: category, Unit: unit, PerUnit: perUnit, Tags: tags}
}

func fixtureIngredients() []catalog.Ingredient {
	return []catalog.Ingredient{
		ing("oats", "Rolled Oats", catalog.IngredientCategoryGrain, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 3.8, Protein: 0.13, Carbs: 0.68, Fat: 0.07}, "grain"),
		ing("rice", "Basmati Rice", catalog.IngredientCategoryGrain, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 1.3, Protein: 0.027, Carbs: 0.28}, "grain"),
		ing("pasta", "Penne Pasta", catalog.IngredientCategoryGrain, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 1.57, Protein: 0.058, Carbs: 0.31, Fat: 0.009}, "grain"),
		ing("bread", "Sourdough Bread", catalog.IngredientCategoryGrain, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 2.5, Protein: 0.08, Carbs: 0.48, Fat: 0.03}, "grain"),
		ing("milk", "Whole Milk", catalog.IngredientCategoryDairy, catalog.MeasurementUnitMilliliter,
			nutrition.Profile{Calories: 0.64, Protein: 0.034, Carbs: 0.048, Fat: 0.036}, "dairy"),
		ing("cheddar", "Cheddar", catalog.IngredientCategoryDairy, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 4.0, Protein: 0.25, Carbs: 0.01, Fat: 0.33}, "dairy"),
		ing("butter", "Butter", catalog.IngredientCategoryDairy, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 7.2, Protein: 0.009, Carbs: 0.001, Fat: 0.81}, "dairy"),
		ing("cream", "Heavy Cream", catalog.IngredientCategoryDairy, catalog.MeasurementUnitMilliliter,
			nutrition.Profile{Calories: 3.4, Protein: 0.021, Carbs: 0.028, Fat: 0.36}, "dairy"),
		ing("greek-yogurt", "Greek Yogurt", catalog.IngredientCategoryDairy, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.59, Protein: 0.1, Carbs: 0.036, Fat: 0.004}, "dairy"),
		ing("eggs", "Eggs", catalog.IngredientCategoryProtein, catalog.MeasurementUnitPiece,
			nutrition.Profile{Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8}, "egg"),
		ing("chicken-breast", "Chicken Breast", catalog.IngredientCategoryProtein, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 1.65, Protein: 0.31, Fat: 0.036}, "meat"),
		ing("beef-mince", "Ground Beef", catalog.IngredientCategoryProtein, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 2.5, Protein: 0.26, Fat: 0.15}, "meat"),
		ing("bacon", "Bacon", catalog.IngredientCategoryProtein, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 5.4, Protein: 0.37, Carbs: 0.01, Fat: 0.42}, "meat"),
		ing("salmon-fillet", "Salmon Fillet", catalog.IngredientCategoryProtein, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 2.08, Protein: 0.2, Fat: 0.13}, "fish"),
		ing("tofu", "Firm Tofu", catalog.IngredientCategoryProtein, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.76, Protein: 0.08, Carbs: 0.019, Fat: 0.048}, "soy"),
		ing("lentils", "Red Lentils", catalog.IngredientCategoryPantry, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 1.16, Protein: 0.09, Carbs: 0.2}, "legume"),
		ing("almonds", "Almonds", catalog.IngredientCategoryPantry, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 5.79, Protein: 0.21, Carbs: 0.22, Fat: 0.5}, "nut"),
		ing("olive-oil", "Olive Oil", catalog.IngredientCategoryPantry, catalog.MeasurementUnitMilliliter,
			nutrition.Profile{Calories: 8.1, Fat: 0.92}),
		ing("berries", "Mixed Berries", catalog.IngredientCategoryProduce, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.5, Protein: 0.01, Carbs: 0.12}),
		ing("avocado", "Avocado", catalog.IngredientCategoryProduce, catalog.MeasurementUnitPiece,
			nutrition.Profile{Calories: 240, Protein: 3, Carbs: 12.8, Fat: 22}),
		ing("spinach", "Baby Spinach", catalog.IngredientCategoryProduce, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.23, Protein: 0.029, Carbs: 0.036, Fat: 0.004}),
		ing("mushrooms", "Cremini Mushrooms", catalog.IngredientCategoryProduce, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.22, Protein: 0.031, Carbs: 0.033, Fat: 0.001}),
		ing("cauliflower", "Cauliflower", catalog.IngredientCategoryProduce, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.25, Protein: 0.019, Carbs: 0.05, Fat: 0.003}),
		ing("carrot", "Carrots", catalog.IngredientCategoryProduce, catalog.MeasurementUnitGram,
			nutrition.Profile{Calories: 0.41, Protein: 0.009, Carbs: 0.096, Fat: 0.002}),
		ing("apple", "Apple", catalog.IngredientCategoryProduce, catalog.MeasurementUnitPiece,
			nutrition.Profile{Calories: 80, Protein: 0.4, Carbs: 21, Fat: 0.3}),
	}
}

// standardRecipes is a balanced-split catalog sized so that every meal
// category keeps at least four vegetarian candidates, with calorie bases
// chosen so the default scale bounds reach the slot targets of a
// 2000 kcal, three-meal day exactly.
func standardRecipes() []catalog.Recipe {
	breakfast := []catalog.MealCategory{catalog.MealCategoryBreakfast}
	lunch := []catalog.MealCategory{catalog.MealCategoryLunch}
	dinner := []catalog.MealCategory{catalog.MealCategoryDinner}
	snack := []catalog.MealCategory{catalog.MealCategorySnack}

	return []catalog.Recipe{
		dish("oatmeal-berry-bowl", breakfast, 500, balancedMacros, []string{"grain", "dairy"},
			grams("oats", 80), millis("milk", 250), grams("berries", 100)),
		dish("greek-yogurt-parfait", breakfast, 500, balancedMacros, []string{"dairy", "nut"},
			grams("greek-yogurt", 200), grams("almonds", 30), grams("berries", 80)),
		dish("tofu-scramble", breakfast, 500, balancedMacros, []string{"soy"},
			grams("tofu", 200), grams("spinach", 80), millis("olive-oil", 10)),
		dish("veggie-omelette", breakfast, 400, balancedMacros, []string{"egg", "dairy"},
			pieces("eggs", 3), grams("cheddar", 30), grams("spinach", 50)),
		dish("protein-pancakes", breakfast, 600, balancedMacros, []string{"egg", "grain"},
			pieces("eggs", 2), grams("oats", 60), millis("milk", 150)),
		dish("smoked-salmon-plate", breakfast, 550, balancedMacros, []string{"fish", "egg"},
			grams("salmon-fillet", 100), pieces("eggs", 2), pieces("avocado", 1)),

		dish("lentil-soup", lunch, 700, balancedMacros, []string{"legume"},
			grams("lentils", 150), grams("spinach", 100), millis("olive-oil", 15)),
		dish("caprese-sandwich", lunch, 700, balancedMacros, []string{"dairy", "grain"},
			grams("bread", 120), grams("cheddar", 60), pieces("avocado", 1)),
		dish("tofu-buddha-bowl", lunch, 700, balancedMacros, []string{"soy"},
			grams("tofu", 150), grams("rice", 150), pieces("avocado", 1)),
		dish("veggie-stir-fry", lunch, 700, balancedMacros, []string{"soy"},
			grams("tofu", 120), grams("rice", 120), grams("spinach", 100), millis("olive-oil", 10)),
		dish("chicken-caesar-salad", lunch, 700, balancedMacros, []string{"meat", "dairy"},
			grams("chicken-breast", 150), grams("cheddar", 30), grams("spinach", 100)),
		dish("salmon-grain-bowl", lunch, 650, balancedMacros, []string{"fish", "grain"},
			grams("salmon-fillet", 150), grams("rice", 100), grams("spinach", 80)),

		dish("mushroom-risotto", dinner, 800, balancedMacros, []string{"dairy", "grain"},
			grams("rice", 180), grams("mushrooms", 100), grams("cheddar", 50), grams("butter", 20)),
		dish("lentil-curry", dinner, 800, balancedMacros, []string{"legume"},
			grams("lentils", 180), grams("rice", 120), millis("cream", 50)),
		dish("caprese-pasta", dinner, 800, balancedMacros, []string{"dairy", "grain"},
			grams("pasta", 160), grams("cheddar", 70), millis("olive-oil", 15)),
		dish("tofu-green-curry", dinner, 720, balancedMacros, []string{"soy"},
			grams("tofu", 180), grams("rice", 100), millis("cream", 60)),
		dish("beef-rice-bowl", dinner, 800, balancedMacros, []string{"meat"},
			grams("beef-mince", 200), grams("rice", 150), grams("butter", 15)),
		dish("baked-salmon-dinner", dinner, 800, balancedMacros, []string{"fish"},
			grams("salmon-fillet", 180), grams("rice", 140), millis("olive-oil", 10)),

		dish("apple-almond-butter", snack, 200, balancedMacros, []string{"nut"},
			pieces("apple", 1), grams("almonds", 30)),
		dish("yogurt-berry-cup", snack, 200, balancedMacros, []string{"dairy"},
			grams("greek-yogurt", 150), grams("berries", 50)),
		dish("trail-mix", snack, 200, balancedMacros, []string{"nut"},
			grams("almonds", 25), grams("berries", 30)),
		dish("carrot-hummus-plate", snack, 200, balancedMacros, []string{"legume"},
			grams("carrot", 100), grams("lentils", 60)),
		dish("boiled-eggs", []catalog.MealCategory{catalog.MealCategorySnack, catalog.MealCategoryBreakfast},
			160, balancedMacros, []string{"egg"},
			pieces("eggs", 2)),
	}
}

// ketoRecipes covers breakfast, lunch, and dinner with four keto-split
// candidates each, none tagged grain or sugar, with calorie bases within
// scaling reach of an 1800 kcal three-meal day.
func ketoRecipes() []catalog.Recipe {
	breakfast := []catalog.MealCategory{catalog.MealCategoryBreakfast}
	lunch := []catalog.MealCategory{catalog.MealCategoryLunch}
	dinner := []catalog.MealCategory{catalog.MealCategoryDinner}

	return []catalog.Recipe{
		dish("bacon-egg-skillet", breakfast, 450, ketoMacros, []string{"meat", "egg"},
			grams("bacon", 60), pieces("eggs", 2), grams("butter", 10)),
		dish("avocado-baked-eggs", breakfast, 450, ketoMacros, []string{"egg"},
			pieces("avocado", 1), pieces("eggs", 2), millis("olive-oil", 10)),
		dish("keto-omelette", breakfast, 450, ketoMacros, []string{"egg", "dairy"},
			pieces("eggs", 3), grams("cheddar", 40), grams("butter", 10)),
		dish("smoked-salmon-avocado", breakfast, 500, ketoMacros, []string{"fish"},
			grams("salmon-fillet", 100), pieces("avocado", 1), millis("olive-oil", 10)),

		dish("cobb-salad", lunch, 630, ketoMacros, []string{"meat", "egg", "dairy"},
			grams("chicken-breast", 120), pieces("eggs", 1), grams("cheddar", 30), grams("spinach", 80)),
		dish("chicken-avocado-salad", lunch, 630, ketoMacros, []string{"meat"},
			grams("chicken-breast", 150), pieces("avocado", 1), millis("olive-oil", 15)),
		dish("salmon-spinach-salad", lunch, 630, ketoMacros, []string{"fish"},
			grams("salmon-fillet", 140), grams("spinach", 100), millis("olive-oil", 20)),
		dish("halloumi-veggie-bowl", lunch, 600, ketoMacros, []string{"dairy"},
			grams("cheddar", 100), grams("cauliflower", 150), millis("olive-oil", 20)),

		dish("butter-chicken-cauliflower", dinner, 720, ketoMacros, []string{"meat", "dairy"},
			grams("chicken-breast", 180), grams("cauliflower", 150), grams("butter", 30), millis("cream", 50)),
		dish("beef-cauliflower-bolognese", dinner, 720, ketoMacros, []string{"meat"},
			grams("beef-mince", 200), grams("cauliflower", 150), millis("olive-oil", 15)),
		dish("baked-salmon-greens", dinner, 720, ketoMacros, []string{"fish"},
			grams("salmon-fillet", 180), grams("spinach", 120), grams("butter", 20)),
		dish("bacon-wrapped-chicken", dinner, 700, ketoMacros, []string{"meat"},
			grams("chicken-breast", 160), grams("bacon", 60), grams("butter", 10)),
	}
}

func standardCatalog(tb testing.TB) *catalog.Snapshot {
	tb.Helper()
	snap, err := catalog.NewSnapshot(standardRecipes(), fixtureIngredients())
	require.NoError(tb, err)
	return snap
}

func ketoCatalog(tb testing.TB) *catalog.Snapshot {
	tb.Helper()
	snap, err := catalog.NewSnapshot(ketoRecipes(), fixtureIngredients())
	require.NoError(tb, err)
	return snap
}
