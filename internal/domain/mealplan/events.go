package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// Domain Events - Events that occur within the meal plan domain

// MealPlanGeneratedEvent is raised when the engine produces a new plan
type MealPlanGeneratedEvent struct {
	PlanID        uuid.UUID
	DietProfileID string
	Days          int
	Slots         int
	RelaxedSlots  int
	Seed          int64
	GeneratedAt   time.Time
}

func (e MealPlanGeneratedEvent) EventName() string {
	return "mealplan.generated"
}

func (e MealPlanGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// MealPlanValidatedEvent is raised when a plan passes final validation
type MealPlanValidatedEvent struct {
	PlanID      uuid.UUID
	FlaggedDays int
	ValidatedAt time.Time
}

func (e MealPlanValidatedEvent) EventName() string {
	return "mealplan.validated"
}

func (e MealPlanValidatedEvent) OccurredAt() time.Time {
	return e.ValidatedAt
}

// ShoppingListComputedEvent is raised when a shopping list is derived
// from a stored plan
type ShoppingListComputedEvent struct {
	PlanID     uuid.UUID
	Items      int
	ComputedAt time.Time
}

func (e ShoppingListComputedEvent) EventName() string {
	return "mealplan.shoppinglist.computed"
}

func (e ShoppingListComputedEvent) OccurredAt() time.Time {
	return e.ComputedAt
}
