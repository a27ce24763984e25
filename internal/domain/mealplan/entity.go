// Package mealplan contains the meal plan aggregate and its value objects.
// The generation engine produces the pure Plan artifact; the MealPlan
// aggregate wraps it with identity and lifecycle state for persistence.
package mealplan

import (
	"time"

	"github.com/google/uuid"

	"github.com/mealsmith/v2/internal/domain/shared"
)

// PlanStatus represents the lifecycle state of a stored meal plan
type PlanStatus string

const (
	PlanStatusGenerated PlanStatus = "generated"
	PlanStatusValidated PlanStatus = "validated"
	PlanStatusArchived  PlanStatus = "archived"
)

// MealPlan is the aggregate root for a stored meal plan.
type MealPlan struct {
	shared.AggregateRoot

	id        uuid.UUID
	plan      Plan
	status    PlanStatus
	createdAt time.Time
	updatedAt time.Time
}

// NewMealPlan creates a meal plan aggregate around a generated artifact.
func NewMealPlan(plan Plan) (*MealPlan, error) {
	if len(plan.Days) == 0 {
		return nil, ErrEmptyPlan
	}
	if plan.DietProfileID == "" {
		return nil, ErrMissingProfile
	}

	now := time.Now()
	m := &MealPlan{
		id:        uuid.New(),
		plan:      plan,
		status:    PlanStatusGenerated,
		createdAt: now,
		updatedAt: now,
	}

	m.AddEvent(MealPlanGeneratedEvent{
		PlanID:        m.id,
		DietProfileID: plan.DietProfileID,
		Days:          len(plan.Days),
		Slots:         plan.SlotCount(),
		RelaxedSlots:  len(plan.RelaxedSlots()),
		Seed:          plan.Seed,
		GeneratedAt:   now,
	})

	return m, nil
}

// Reconstitute rebuilds an aggregate from persisted state without
// raising events.
func Reconstitute(id uuid.UUID, plan Plan, status PlanStatus, createdAt, updatedAt time.Time) *MealPlan {
	return &MealPlan{
		id:        id,
		plan:      plan,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// MarkValidated transitions a generated plan to validated.
func (m *MealPlan) MarkValidated() error {
	if m.status != PlanStatusGenerated {
		return ErrInvalidStatusTransition
	}
	m.status = PlanStatusValidated
	m.updatedAt = time.Now()

	m.AddEvent(MealPlanValidatedEvent{
		PlanID:      m.id,
		FlaggedDays: len(m.plan.FlaggedDays()),
		ValidatedAt: m.updatedAt,
	})
	return nil
}

// Archive retires a plan from active use.
func (m *MealPlan) Archive() error {
	if m.status == PlanStatusArchived {
		return ErrInvalidStatusTransition
	}
	m.status = PlanStatusArchived
	m.updatedAt = time.Now()
	return nil
}

// Getters

func (m *MealPlan) ID() uuid.UUID        { return m.id }
func (m *MealPlan) Plan() Plan           { return m.plan }
func (m *MealPlan) Status() PlanStatus   { return m.status }
func (m *MealPlan) CreatedAt() time.Time { return m.createdAt }
func (m *MealPlan) UpdatedAt() time.Time { return m.updatedAt }
