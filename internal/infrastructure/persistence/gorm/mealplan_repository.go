// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mealsmith/v2/internal/domain/mealplan"
	"github.com/mealsmith/v2/internal/ports/outbound"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Save inserts or updates a meal plan
func (r *MealPlanRepository) Save(ctx context.Context, plan *mealplan.MealPlan) error {
	model := MealPlanToModel(plan)

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model)
	return result.Error
}

// FindByID finds a meal plan by ID
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, mealplan.ErrPlanNotFound
		}
		return nil, result.Error
	}

	return ModelToMealPlan(&model), nil
}

// FindAll lists meal plans ordered by recency with pagination
func (r *MealPlanRepository) FindAll(ctx context.Context, offset, limit int) ([]*mealplan.MealPlan, int, error) {
	var total int64
	countResult := r.db.WithContext(ctx).Model(&MealPlanModel{}).Count(&total)
	if countResult.Error != nil {
		return nil, 0, countResult.Error
	}

	var models []MealPlanModel
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	plans := make([]*mealplan.MealPlan, len(models))
	for i := range models {
		plans[i] = ModelToMealPlan(&models[i])
	}

	return plans, int(total), nil
}

// Delete deletes a meal plan by ID (soft delete)
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&MealPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return mealplan.ErrPlanNotFound
	}

	return nil
}
