// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
)

// PlannerService defines the meal-planning use cases
// This is the primary port that HTTP handlers and the CLI drive
type PlannerService interface {
	// Commands - operations that modify state
	GenerateMealPlan(ctx context.Context, cmd GenerateMealPlanCommand) (*MealPlanDTO, error)
	ArchiveMealPlan(ctx context.Context, planID uuid.UUID) error
	DeleteMealPlan(ctx context.Context, planID uuid.UUID) error

	// Queries - operations that read state
	GetMealPlan(ctx context.Context, planID uuid.UUID) (*MealPlanDTO, error)
	ListMealPlans(ctx context.Context, params PaginationParams) (*MealPlanList, error)
	GetShoppingList(ctx context.Context, planID uuid.UUID) (*ShoppingListDTO, error)

	// Reference data
	ListDietProfiles(ctx context.Context) ([]DietProfileDTO, error)
}

// Command objects for operations

// Defaults for the optional generation inputs
const (
	DefaultMealsPerDay = 3
	DefaultDays        = 7
)

// GenerateMealPlanCommand contains the generation inputs. MealsPerDay and
// Days fall back to their defaults when omitted. Seed is optional; when
// absent the service draws one and reports it in the resulting DTO so the
// run can be reproduced.
type GenerateMealPlanCommand struct {
	Calories      int      `json:"calories" validate:"required,min=1"`
	DietProfileID string   `json:"diet_profile_id" validate:"required"`
	MealsPerDay   int      `json:"meals_per_day" validate:"omitempty,min=1,max=6"`
	Days          int      `json:"days" validate:"omitempty,min=1,max=30"`
	Exclusions    []string `json:"exclusions,omitempty"`
	Seed          *int64   `json:"seed,omitempty"`
}

// ApplyDefaults fills MealsPerDay and Days when the caller left them unset
func (c *GenerateMealPlanCommand) ApplyDefaults() {
	if c.MealsPerDay == 0 {
		c.MealsPerDay = DefaultMealsPerDay
	}
	if c.Days == 0 {
		c.Days = DefaultDays
	}
}

// PaginationParams for paginated queries
type PaginationParams struct {
	Page     int
	PageSize int
}

// Response DTOs

// NutritionDTO carries nutrient totals
type NutritionDTO struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutrientTargetDTO is a nutrient goal with its tolerance bands
type NutrientTargetDTO struct {
	NutritionDTO
	CalorieTolerance float64 `json:"calorie_tolerance"`
	MacroTolerance   float64 `json:"macro_tolerance"`
}

// MealAssignmentDTO is one filled meal slot
type MealAssignmentDTO struct {
	Day         int          `json:"day"`
	Meal        int          `json:"meal"`
	Category    string       `json:"category"`
	RecipeID    string       `json:"recipe_id"`
	RecipeName  string       `json:"recipe_name"`
	ScaleFactor float64      `json:"scale_factor"`
	Nutrition   NutritionDTO `json:"nutrition"`
	Relaxed     bool         `json:"relaxed,omitempty"`
}

// DayPlanDTO is one day of the plan with computed totals
type DayPlanDTO struct {
	Day            int                 `json:"day"`
	Meals          []MealAssignmentDTO `json:"meals"`
	Totals         NutritionDTO        `json:"totals"`
	OutOfTolerance bool                `json:"out_of_tolerance,omitempty"`
}

// MealPlanDTO is the data transfer object for a generated plan
type MealPlanDTO struct {
	ID            uuid.UUID           `json:"id"`
	DietProfileID string              `json:"diet_profile_id"`
	Status        string              `json:"status"`
	Seed          int64               `json:"seed"`
	Target        NutrientTargetDTO   `json:"target"`
	MealTargets   []NutrientTargetDTO `json:"meal_targets"`
	Days          []DayPlanDTO        `json:"days"`
	FlaggedDays   []int               `json:"flagged_days,omitempty"`
	CreatedAt     string              `json:"created_at"`
	UpdatedAt     string              `json:"updated_at"`
}

// MealPlanSummaryDTO is the list-view projection of a plan
type MealPlanSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	DietProfileID string    `json:"diet_profile_id"`
	Status        string    `json:"status"`
	Days          int       `json:"days"`
	MealsPerDay   int       `json:"meals_per_day"`
	Calories      float64   `json:"calories"`
	CreatedAt     string    `json:"created_at"`
}

// MealPlanList for paginated results
type MealPlanList struct {
	Plans      []MealPlanSummaryDTO `json:"plans"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// SlotRefDTO points at the slot a shopping quantity came from
type SlotRefDTO struct {
	Day  int `json:"day"`
	Meal int `json:"meal"`
}

// ShoppingListItemDTO is one consolidated shopping line
type ShoppingListItemDTO struct {
	IngredientID string       `json:"ingredient_id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Quantity     float64      `json:"quantity"`
	Unit         string       `json:"unit"`
	References   []SlotRefDTO `json:"references,omitempty"`
}

// ShoppingListDTO is the consolidated shopping list for a plan
type ShoppingListDTO struct {
	PlanID uuid.UUID             `json:"plan_id"`
	Items  []ShoppingListItemDTO `json:"items"`
}

// MacroSplitDTO carries the calorie fractions of a diet profile
type MacroSplitDTO struct {
	Protein float64 `json:"protein"`
	Carbs   float64 `json:"carbs"`
	Fat     float64 `json:"fat"`
}

// DietProfileDTO describes one selectable dietary pattern
type DietProfileDTO struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Macros       MacroSplitDTO `json:"macros"`
	ExcludedTags []string      `json:"excluded_tags,omitempty"`
}
